package domain

import "encoding/json"

// Source geometry arrives as nested JSON arrays of coordinate pairs
// with no fixed ring depth: a bare point list, a polygon of rings, or
// a multi-polygon of ring lists all occur in the same feed. The walk
// below descends generically and bottoms out at the first array whose
// leading elements are numbers, treating it as one vertex. Branches
// that do not match that shape are skipped, never fatal.

// ParseFootprint extracts the vertex ring(s) from a raw geometry value.
// A nil or malformed value yields an empty footprint; the building
// stays cacheable but cannot be resolved by coordinate.
func ParseFootprint(raw any) []Point {
	var out []Point
	collectPoints(raw, &out, 0)
	return out
}

// ParseFootprintJSON parses geometry delivered as a JSON string, either
// a bare nested array or an object with a "coordinates" field.
func ParseFootprintJSON(data string) []Point {
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil
	}
	if obj, ok := v.(map[string]any); ok {
		if coords, ok := obj["coordinates"]; ok {
			return ParseFootprint(coords)
		}
		return nil
	}
	return ParseFootprint(v)
}

const maxGeometryDepth = 4

func collectPoints(v any, out *[]Point, depth int) {
	if depth > maxGeometryDepth {
		return
	}

	arr, ok := v.([]any)
	if !ok {
		if obj, ok := v.(map[string]any); ok {
			if coords, ok := obj["coordinates"]; ok {
				collectPoints(coords, out, depth+1)
			}
		}
		return
	}

	if pt, ok := asPoint(arr); ok {
		*out = append(*out, pt)
		return
	}

	for _, child := range arr {
		collectPoints(child, out, depth+1)
	}
}

// asPoint accepts [x, y] and [x, y, z] leaves. Anything with fewer than
// two numeric leading elements is not a vertex.
func asPoint(arr []any) (Point, bool) {
	if len(arr) < 2 {
		return Point{}, false
	}
	x, okX := arr[0].(float64)
	y, okY := arr[1].(float64)
	if !okX || !okY {
		return Point{}, false
	}
	pt := Point{X: x, Y: y}
	if len(arr) > 2 {
		if z, ok := arr[2].(float64); ok {
			pt.Z = z
		}
	}
	return pt, true
}
