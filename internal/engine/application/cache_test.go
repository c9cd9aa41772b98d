package application

import (
	"errors"
	"testing"

	"citysync-v0/internal/engine/domain"
)

func newTestCache() (*Cache, *domain.Resolver) {
	resolver := domain.NewResolver()
	return NewCache(resolver, domain.NewSpatialIndex()), resolver
}

func building(primary string, energy float64) domain.Entity {
	return domain.Entity{
		PrimaryKey:   primary,
		SecondaryKey: domain.DeriveSecondary(primary),
		Snapshot:     `{"modified_gml_id":"` + primary + `"}`,
		Energy:       energy,
		HasEnergy:    true,
		Color:        domain.DefaultColor,
	}
}

func TestCache_GetByAnyKey(t *testing.T) {
	cache, resolver := newTestCache()
	resolver.RecordDerived("BLDG_1")
	cache.Upsert(building("BLDG_1", 42))

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "primary key", key: "BLDG_1"},
		{name: "derived secondary key", key: "BLDGL1"},
		{name: "unknown key", key: "BLDG_9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent, err := cache.GetByAnyKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("err = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ent.PrimaryKey != "BLDG_1" {
				t.Errorf("got %q, want BLDG_1", ent.PrimaryKey)
			}
		})
	}
}

func TestCache_UpsertLastWriteWins(t *testing.T) {
	cache, _ := newTestCache()
	cache.Upsert(building("BLDG_1", 10))
	cache.Upsert(building("BLDG_1", 99))

	ent, err := cache.GetByAnyKey("BLDG_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ent.Energy != 99 {
		t.Errorf("energy = %v, want 99 (last write)", ent.Energy)
	}
	if cache.Len() != 1 {
		t.Errorf("len = %d, want 1", cache.Len())
	}
}

func TestCache_GetByPoint(t *testing.T) {
	cache, _ := newTestCache()

	ent := building("BLDG_1", 42)
	ent.Footprint = []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	cache.Upsert(ent)

	got, err := cache.GetByPoint(domain.Point{X: 5, Y: 5}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PrimaryKey != "BLDG_1" {
		t.Errorf("got %q, want BLDG_1", got.PrimaryKey)
	}

	if _, err := cache.GetByPoint(domain.Point{X: 500, Y: 500}, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("far point err = %v, want ErrNotFound", err)
	}
}

func TestCache_FootprintSurvivesGeometrylessUpdate(t *testing.T) {
	cache, _ := newTestCache()

	withGeom := building("BLDG_1", 1)
	withGeom.Footprint = []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	cache.Upsert(withGeom)

	// Follow-up update without geometry must not drop the footprint.
	cache.Upsert(building("BLDG_1", 2))

	got, err := cache.GetByPoint(domain.Point{X: 5, Y: 3}, 1)
	if err != nil {
		t.Fatalf("footprint lost after geometryless update: %v", err)
	}
	if got.Energy != 2 {
		t.Errorf("energy = %v, want the updated value 2", got.Energy)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache, resolver := newTestCache()
	resolver.RecordDerived("BLDG_1")
	cache.Upsert(building("BLDG_1", 1))
	cache.Upsert(building("BLDG_2", 2))

	if err := cache.Delete("BLDGL1"); err != nil {
		t.Fatalf("delete by secondary key failed: %v", err)
	}
	if _, err := cache.GetByAnyKey("BLDG_1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted entity still found")
	}
	if err := cache.Delete("BLDG_1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
	// Identity mapping survives a delete.
	if _, ok := resolver.Resolve("BLDGL1"); !ok {
		t.Errorf("identity mapping lost on delete")
	}

	cache.Clear()
	stats := cache.Stats()
	if stats.Entities != 0 || stats.Footprints != 0 || stats.Mappings != 0 {
		t.Errorf("stats after clear = %+v, want all zero", stats)
	}
}

func TestCache_SnapshotAllIsACopy(t *testing.T) {
	cache, _ := newTestCache()
	cache.Upsert(building("BLDG_1", 1))

	snap := cache.SnapshotAll()
	delete(snap, "BLDG_1")

	if cache.Len() != 1 {
		t.Errorf("mutating the snapshot affected the cache")
	}
}
