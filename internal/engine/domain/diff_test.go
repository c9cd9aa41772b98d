package domain

import "testing"

func record(primary, snapshot string, energy float64, colorToken string) Record {
	return Record{
		PrimaryKey: primary,
		Snapshot:   snapshot,
		Energy:     energy,
		HasEnergy:  true,
		ColorToken: colorToken,
	}
}

func entityFrom(rec Record) Entity {
	return Entity{
		PrimaryKey: rec.PrimaryKey,
		Snapshot:   rec.Snapshot,
		Energy:     rec.Energy,
		HasEnergy:  rec.HasEnergy,
		ColorToken: rec.ColorToken,
	}
}

func TestDiffer_Classification(t *testing.T) {
	prev := entityFrom(record("BLDG_1", `{"v":1}`, 100, "#00ff00"))
	existing := map[string]Entity{"BLDG_1": prev}

	tests := []struct {
		name string
		rec  Record
		want ChangeKind
	}{
		{
			name: "unknown key is new",
			rec:  record("BLDG_2", `{"v":1}`, 100, "#00ff00"),
			want: ChangeNew,
		},
		{
			name: "identical snapshot is unchanged",
			rec:  record("BLDG_1", `{"v":1}`, 100, "#00ff00"),
			want: ChangeUnchanged,
		},
		{
			name: "energy delta beyond epsilon",
			rec:  record("BLDG_1", `{"v":2}`, 100.5, "#00ff00"),
			want: ChangeAttribute,
		},
		{
			name: "energy delta within epsilon and new color token",
			rec:  record("BLDG_1", `{"v":2}`, 100.005, "#ff0000"),
			want: ChangeColor,
		},
		{
			name: "energy and color both changed",
			rec:  record("BLDG_1", `{"v":2}`, 150, "#ff0000"),
			want: ChangeAttribute,
		},
		{
			name: "snapshot differs without energy or color change",
			rec:  record("BLDG_1", `{"v":2}`, 100, "#00ff00"),
			want: ChangeAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDiffer(NewResolver())
			res := d.Diff([]Record{tt.rec}, existing)
			// One change for the record plus the removal of BLDG_1
			// when the record carries a different key.
			if len(res.Changes) == 0 {
				t.Fatalf("no changes produced")
			}
			if got := res.Changes[0].Kind; got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiffer_EpsilonBoundary(t *testing.T) {
	prev := entityFrom(record("BLDG_1", `{"v":1}`, 100, ""))
	existing := map[string]Entity{"BLDG_1": prev}

	d := NewDiffer(NewResolver())

	// A delta of exactly epsilon is below the change threshold; with
	// no color movement the snapshot difference still counts as an
	// attribute change, so probe with distinct color tokens.
	res := d.Diff([]Record{record("BLDG_1", `{"v":2}`, 100.01, "#111111")}, existing)
	if got := res.Changes[0].Kind; got != ChangeColor {
		t.Errorf("delta == epsilon classified %q, want %q", got, ChangeColor)
	}

	res = d.Diff([]Record{record("BLDG_1", `{"v":2}`, 100.011, "#111111")}, existing)
	if got := res.Changes[0].Kind; got != ChangeAttribute {
		t.Errorf("delta > epsilon classified %q, want %q", got, ChangeAttribute)
	}
}

func TestDiffer_EnergyPresenceFlip(t *testing.T) {
	prev := entityFrom(record("BLDG_1", `{"v":1}`, 100, ""))
	existing := map[string]Entity{"BLDG_1": prev}

	rec := Record{PrimaryKey: "BLDG_1", Snapshot: `{"v":2}`}
	res := NewDiffer(NewResolver()).Diff([]Record{rec}, existing)
	if got := res.Changes[0].Kind; got != ChangeAttribute {
		t.Errorf("lost energy value classified %q, want %q", got, ChangeAttribute)
	}
}

func TestDiffer_RemovalsAppendedInKeyOrder(t *testing.T) {
	existing := map[string]Entity{
		"BLDG_1": entityFrom(record("BLDG_1", `{"v":1}`, 1, "")),
		"BLDG_3": entityFrom(record("BLDG_3", `{"v":3}`, 3, "")),
		"BLDG_2": entityFrom(record("BLDG_2", `{"v":2}`, 2, "")),
	}

	res := NewDiffer(NewResolver()).Diff([]Record{record("BLDG_2", `{"v":2}`, 2, "")}, existing)

	if len(res.Changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(res.Changes))
	}
	if res.Changes[0].Key != "BLDG_2" || res.Changes[0].Kind != ChangeUnchanged {
		t.Errorf("first change = %+v, want unchanged BLDG_2", res.Changes[0])
	}
	for i, want := range []string{"BLDG_1", "BLDG_3"} {
		got := res.Changes[1+i]
		if got.Key != want || got.Kind != ChangeRemoved {
			t.Errorf("removal %d = %+v, want removed %s", i, got, want)
		}
		if got.PreviousSnapshot != existing[want].Snapshot {
			t.Errorf("removal %d lost previous snapshot", i)
		}
	}
}

func TestDiffer_RecordsIdentityMappings(t *testing.T) {
	resolver := NewResolver()
	d := NewDiffer(resolver)

	withBoth := Record{PrimaryKey: "BLDG_1", SecondaryKey: "ACTUAL-1", Snapshot: `{}`}
	primaryOnly := Record{PrimaryKey: "BLDG_2", Snapshot: `{}`}

	res := d.Diff([]Record{withBoth, primaryOnly}, nil)

	if res.Entities[0].SecondaryKey != "ACTUAL-1" {
		t.Errorf("payload secondary not kept: %q", res.Entities[0].SecondaryKey)
	}
	if res.Entities[1].SecondaryKey != "BLDGL2" {
		t.Errorf("derived secondary = %q, want BLDGL2", res.Entities[1].SecondaryKey)
	}

	if _, source := resolver.Secondary("BLDG_1"); source != SourceConfirmed {
		t.Errorf("payload pair not recorded as confirmed")
	}
	if primary, ok := resolver.Resolve("BLDGL2"); !ok || primary != "BLDG_2" {
		t.Errorf("derived mapping not recorded: (%q, %v)", primary, ok)
	}
}

func TestDiffer_ConfirmedMappingSurvivesDerivedRecord(t *testing.T) {
	resolver := NewResolver()
	d := NewDiffer(resolver)

	var ambiguous bool
	resolver.AmbiguousMapping = func(primary, confirmed, derived string) { ambiguous = true }

	first := Record{PrimaryKey: "BLDG_1", SecondaryKey: "ACTUAL-1", Snapshot: `{"v":1}`}
	res := d.Diff([]Record{first}, nil)
	existing := map[string]Entity{"BLDG_1": res.Entities[0]}

	// Later cycle drops the secondary key; the confirmed mapping must
	// persist and the disagreement must be surfaced.
	second := Record{PrimaryKey: "BLDG_1", Snapshot: `{"v":1}`}
	res = d.Diff([]Record{second}, existing)

	if res.Entities[0].SecondaryKey != "ACTUAL-1" {
		t.Errorf("secondary reverted to heuristic: %q", res.Entities[0].SecondaryKey)
	}
	if !ambiguous {
		t.Errorf("disagreement between confirmed and derived not reported")
	}
}
