package domain

import "sort"

// DefaultEnergyEpsilon is the smallest energy delta treated as a real
// change; the feed re-serializes floats with jitter below this.
const DefaultEnergyEpsilon = 0.01

// Differ classifies a freshly fetched batch against the previous cache
// state. It also feeds the identity resolver: records that carry both
// identifiers confirm a mapping, records with only the primary key get
// a derived one.
type Differ struct {
	Resolver *Resolver
	Epsilon  float64
}

func NewDiffer(resolver *Resolver) *Differ {
	return &Differ{Resolver: resolver, Epsilon: DefaultEnergyEpsilon}
}

// DiffResult pairs the classified changes with the entities built from
// the incoming records. Changes for incoming records keep payload
// order; removals are appended after them in key order.
type DiffResult struct {
	Changes  []ChangeRecord
	Entities []Entity
}

// Diff classifies each record against existing (the cache keyed by
// primary key). Unequal canonical snapshots are attribute changes
// unless the only observable difference is the color token; an energy
// delta beyond Epsilon always wins over a simultaneous color change.
// Keys present in existing but absent from the batch are reported as
// removed; the caller decides whether to evict them.
func (d *Differ) Diff(records []Record, existing map[string]Entity) DiffResult {
	eps := d.Epsilon
	if eps <= 0 {
		eps = DefaultEnergyEpsilon
	}

	res := DiffResult{
		Changes:  make([]ChangeRecord, 0, len(records)),
		Entities: make([]Entity, 0, len(records)),
	}
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		ent := d.buildEntity(rec)
		seen[ent.PrimaryKey] = struct{}{}

		change := ChangeRecord{Key: ent.PrimaryKey}
		prev, ok := existing[ent.PrimaryKey]
		switch {
		case !ok:
			change.Kind = ChangeNew
		case prev.Snapshot == ent.Snapshot:
			change.Kind = ChangeUnchanged
		default:
			change.Kind = classify(prev, ent, eps)
			change.PreviousSnapshot = prev.Snapshot
		}

		res.Changes = append(res.Changes, change)
		res.Entities = append(res.Entities, ent)
	}

	var removed []string
	for key := range existing {
		if _, ok := seen[key]; !ok {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		res.Changes = append(res.Changes, ChangeRecord{
			Key:              key,
			Kind:             ChangeRemoved,
			PreviousSnapshot: existing[key].Snapshot,
		})
	}

	return res
}

// buildEntity converts a record and settles its secondary key through
// the resolver. A payload-supplied gml_id is authoritative and recorded
// as confirmed; otherwise the heuristic derivation is recorded, which
// may return an earlier confirmed value instead.
func (d *Differ) buildEntity(rec Record) Entity {
	ent := Entity{
		PrimaryKey: rec.PrimaryKey,
		Snapshot:   rec.Snapshot,
		Energy:     rec.Energy,
		HasEnergy:  rec.HasEnergy,
		Color:      rec.Color,
		ColorToken: rec.ColorToken,
		Footprint:  rec.Footprint,
	}
	if d.Resolver == nil {
		ent.SecondaryKey = rec.SecondaryKey
		if ent.SecondaryKey == "" {
			ent.SecondaryKey = DeriveSecondary(rec.PrimaryKey)
		}
		return ent
	}
	if rec.SecondaryKey != "" {
		d.Resolver.RecordConfirmed(rec.PrimaryKey, rec.SecondaryKey)
		ent.SecondaryKey = rec.SecondaryKey
	} else {
		ent.SecondaryKey = d.Resolver.RecordDerived(rec.PrimaryKey)
	}
	return ent
}

func classify(prev, next Entity, eps float64) ChangeKind {
	energyChanged := prev.HasEnergy != next.HasEnergy ||
		(prev.HasEnergy && abs(prev.Energy-next.Energy) > eps)
	if energyChanged {
		return ChangeAttribute
	}
	if prev.ColorToken != next.ColorToken {
		return ChangeColor
	}
	return ChangeAttribute
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
