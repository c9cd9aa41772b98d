package domain

import (
	"encoding/json"
	"fmt"
)

// ErrMalformedPayload means the fetch body could not be parsed at all.
// The whole cycle is aborted and the previous cache left untouched.
var ErrMalformedPayload = fmt.Errorf("malformed payload")

// RecordError reports a single unparsable record inside an otherwise
// valid payload. The record is skipped; the rest of the payload is
// still processed.
type RecordError struct {
	Index  int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d skipped: %s", e.Index, e.Reason)
}

// Record is one building as decoded from the bulk energy feed.
type Record struct {
	PrimaryKey   string
	SecondaryKey string
	Snapshot     string
	Energy       float64
	HasEnergy    bool
	ColorToken   string
	Color        RGB
	Footprint    []Point
}

// ParsePayload decodes a bulk fetch body. The feed delivers either a
// bare array of building objects or an envelope with a "results"
// field; both are accepted. Per-record failures are collected as
// warnings and do not abort the payload.
func ParsePayload(body []byte) ([]Record, []*RecordError, error) {
	var top any
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var items []any
	switch v := top.(type) {
	case []any:
		items = v
	case map[string]any:
		results, ok := v["results"].([]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: no results array", ErrMalformedPayload)
		}
		items = results
	default:
		return nil, nil, fmt.Errorf("%w: unexpected top-level value", ErrMalformedPayload)
	}

	records := make([]Record, 0, len(items))
	var warnings []*RecordError
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, &RecordError{Index: i, Reason: "not an object"})
			continue
		}
		rec, err := parseRecord(obj)
		if err != nil {
			warnings = append(warnings, &RecordError{Index: i, Reason: err.Error()})
			continue
		}
		records = append(records, rec)
	}

	return records, warnings, nil
}

func parseRecord(obj map[string]any) (Record, error) {
	primary, _ := obj["modified_gml_id"].(string)
	if primary == "" {
		return Record{}, fmt.Errorf("missing modified_gml_id")
	}

	rec := Record{PrimaryKey: primary}
	rec.SecondaryKey, _ = obj["gml_id"].(string)

	// Re-marshalling through the generic map gives a key-sorted
	// canonical form, so byte equality is a stable change signal.
	canon, err := json.Marshal(obj)
	if err != nil {
		return Record{}, fmt.Errorf("cannot canonicalize: %v", err)
	}
	rec.Snapshot = string(canon)

	end := endSection(obj)
	rec.Energy, rec.HasEnergy = extractEnergy(end)
	rec.ColorToken = extractColorToken(end)
	rec.Color, _ = ParseHexColor(rec.ColorToken)
	rec.Footprint = extractFootprint(obj)

	return rec, nil
}

// endSection walks to the post-renovation block. The feed has renamed
// its containers more than once, so the historical aliases are all
// tolerated: energy_result|energy_data|result, then end|after.
func endSection(obj map[string]any) map[string]any {
	var result map[string]any
	for _, field := range []string{"energy_result", "energy_data", "result"} {
		if m, ok := obj[field].(map[string]any); ok {
			result = m
			break
		}
	}
	if result == nil {
		return nil
	}
	for _, field := range []string{"end", "after"} {
		if m, ok := result[field].(map[string]any); ok {
			return m
		}
	}
	return nil
}

// extractEnergy reads end.result.energy_demand_specific.value, falling
// back to the end block itself when the inner result wrapper is absent.
func extractEnergy(end map[string]any) (float64, bool) {
	if end == nil {
		return 0, false
	}
	section := end
	if inner, ok := end["result"].(map[string]any); ok {
		section = inner
	}
	demand, ok := section["energy_demand_specific"].(map[string]any)
	if !ok {
		return 0, false
	}
	value, ok := demand["value"].(float64)
	return value, ok
}

// extractColorToken reads end.color.energy_demand_specific_color, or
// the same field under end.result.color. Empty when absent.
func extractColorToken(end map[string]any) string {
	if end == nil {
		return ""
	}
	sections := []map[string]any{end}
	if inner, ok := end["result"].(map[string]any); ok {
		sections = append(sections, inner)
	}
	for _, s := range sections {
		if colorObj, ok := s["color"].(map[string]any); ok {
			if token, ok := colorObj["energy_demand_specific_color"].(string); ok {
				return token
			}
		}
	}
	return ""
}

// extractFootprint tries the three geometry carriers the feed has used:
// a coordinates JSON string, an embedded geom object, and a position
// string. First match wins.
func extractFootprint(obj map[string]any) []Point {
	if s, ok := obj["coordinates"].(string); ok {
		return ParseFootprintJSON(s)
	}
	if coords, ok := obj["coordinates"]; ok {
		return ParseFootprint(coords)
	}
	if geom, ok := obj["geom"].(map[string]any); ok {
		return ParseFootprint(geom)
	}
	if s, ok := obj["position"].(string); ok {
		return ParseFootprintJSON(s)
	}
	return nil
}
