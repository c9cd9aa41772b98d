package domain

import (
	"strings"
	"testing"
)

func TestParsePayload_Envelopes(t *testing.T) {
	record := `{"modified_gml_id":"BLDG_1","energy_result":{"end":{"result":{"energy_demand_specific":{"value":92.5}}}}}`

	tests := []struct {
		name string
		body string
	}{
		{name: "bare array", body: `[` + record + `]`},
		{name: "results envelope", body: `{"results":[` + record + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, warnings, err := ParsePayload([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", warnings)
			}
			if len(records) != 1 {
				t.Fatalf("got %d records, want 1", len(records))
			}
			rec := records[0]
			if rec.PrimaryKey != "BLDG_1" {
				t.Errorf("primary key = %q, want BLDG_1", rec.PrimaryKey)
			}
			if !rec.HasEnergy || rec.Energy != 92.5 {
				t.Errorf("energy = (%v, %v), want (92.5, true)", rec.Energy, rec.HasEnergy)
			}
		})
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{{`},
		{name: "scalar top level", body: `42`},
		{name: "envelope without results", body: `{"count":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePayload([]byte(tt.body))
			if err == nil {
				t.Fatalf("expected error, got none")
			}
		})
	}
}

func TestParsePayload_SkipsBadRecords(t *testing.T) {
	body := `[
		{"modified_gml_id":"BLDG_1"},
		{"gml_id":"no-primary-key"},
		"not an object",
		{"modified_gml_id":"BLDG_2"}
	]`

	records, warnings, err := ParsePayload([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].PrimaryKey != "BLDG_1" || records[1].PrimaryKey != "BLDG_2" {
		t.Errorf("records out of order: %q, %q", records[0].PrimaryKey, records[1].PrimaryKey)
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(warnings))
	}
	if warnings[0].Index != 1 || warnings[1].Index != 2 {
		t.Errorf("warning indexes = %d, %d, want 1, 2", warnings[0].Index, warnings[1].Index)
	}
}

func TestParseRecord_EnergyAliases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{
			name: "energy_result with end and inner result",
			body: `{"modified_gml_id":"B_1","energy_result":{"end":{"result":{"energy_demand_specific":{"value":10.5}}}}}`,
			want: 10.5,
		},
		{
			name: "energy_data alias",
			body: `{"modified_gml_id":"B_1","energy_data":{"end":{"result":{"energy_demand_specific":{"value":11}}}}}`,
			want: 11,
		},
		{
			name: "result container with after block",
			body: `{"modified_gml_id":"B_1","result":{"after":{"result":{"energy_demand_specific":{"value":12}}}}}`,
			want: 12,
		},
		{
			name: "inner result wrapper absent",
			body: `{"modified_gml_id":"B_1","energy_result":{"end":{"energy_demand_specific":{"value":13}}}}`,
			want: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := ParsePayload([]byte(`[` + tt.body + `]`))
			if err != nil || len(records) != 1 {
				t.Fatalf("parse failed: %v (%d records)", err, len(records))
			}
			rec := records[0]
			if !rec.HasEnergy || rec.Energy != tt.want {
				t.Errorf("energy = (%v, %v), want (%v, true)", rec.Energy, rec.HasEnergy, tt.want)
			}
		})
	}
}

func TestParseRecord_EnergyAbsent(t *testing.T) {
	records, _, err := ParsePayload([]byte(`[{"modified_gml_id":"B_1","energy_result":{"end":{}}}]`))
	if err != nil || len(records) != 1 {
		t.Fatalf("parse failed: %v", err)
	}
	if records[0].HasEnergy {
		t.Errorf("HasEnergy = true for record without a demand value")
	}
}

func TestParseRecord_ColorToken(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantToken string
		wantColor RGB
	}{
		{
			name:      "color under end",
			body:      `{"modified_gml_id":"B_1","energy_result":{"end":{"color":{"energy_demand_specific_color":"#ff0000"}}}}`,
			wantToken: "#ff0000",
			wantColor: RGB{R: 255},
		},
		{
			name:      "color under end.result",
			body:      `{"modified_gml_id":"B_1","energy_result":{"end":{"result":{"color":{"energy_demand_specific_color":"#00ff00"}}}}}`,
			wantToken: "#00ff00",
			wantColor: RGB{G: 255},
		},
		{
			name:      "missing color falls back to default",
			body:      `{"modified_gml_id":"B_1"}`,
			wantToken: "",
			wantColor: DefaultColor,
		},
		{
			name:      "garbage token falls back to default",
			body:      `{"modified_gml_id":"B_1","energy_result":{"end":{"color":{"energy_demand_specific_color":"red"}}}}`,
			wantToken: "red",
			wantColor: DefaultColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := ParsePayload([]byte(`[` + tt.body + `]`))
			if err != nil || len(records) != 1 {
				t.Fatalf("parse failed: %v", err)
			}
			rec := records[0]
			if rec.ColorToken != tt.wantToken {
				t.Errorf("color token = %q, want %q", rec.ColorToken, tt.wantToken)
			}
			if rec.Color != tt.wantColor {
				t.Errorf("color = %v, want %v", rec.Color, tt.wantColor)
			}
		})
	}
}

func TestParseRecord_FootprintCarriers(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "coordinates as json string",
			body: `{"modified_gml_id":"B_1","coordinates":"[[1,2],[3,4],[5,6]]"}`,
			want: 3,
		},
		{
			name: "coordinates as raw array",
			body: `{"modified_gml_id":"B_1","coordinates":[[1,2],[3,4]]}`,
			want: 2,
		},
		{
			name: "geom object",
			body: `{"modified_gml_id":"B_1","geom":{"coordinates":[[[1,2],[3,4],[5,6],[7,8]]]}}`,
			want: 4,
		},
		{
			name: "position string",
			body: `{"modified_gml_id":"B_1","position":"[[9,9]]"}`,
			want: 1,
		},
		{
			name: "no geometry at all",
			body: `{"modified_gml_id":"B_1"}`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := ParsePayload([]byte(`[` + tt.body + `]`))
			if err != nil || len(records) != 1 {
				t.Fatalf("parse failed: %v", err)
			}
			if got := len(records[0].Footprint); got != tt.want {
				t.Errorf("footprint has %d vertices, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRecord_CanonicalSnapshot(t *testing.T) {
	// The same object with reordered keys must canonicalize to the
	// same snapshot string.
	a := `[{"modified_gml_id":"B_1","zeta":1,"alpha":2}]`
	b := `[{"alpha":2,"modified_gml_id":"B_1","zeta":1}]`

	recsA, _, err := ParsePayload([]byte(a))
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	recsB, _, err := ParsePayload([]byte(b))
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}

	if recsA[0].Snapshot != recsB[0].Snapshot {
		t.Errorf("snapshots differ:\n%s\n%s", recsA[0].Snapshot, recsB[0].Snapshot)
	}
	if !strings.Contains(recsA[0].Snapshot, `"alpha":2`) {
		t.Errorf("snapshot lost a field: %s", recsA[0].Snapshot)
	}
}
