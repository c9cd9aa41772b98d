package application

import (
	"sync"

	"citysync-v0/internal/engine/domain"
)

// Cache is the in-memory building store. It is the only source of
// truth at runtime; nothing is ever restored from disk. All lookups
// funnel into the primary-key map: secondary keys go through the
// identity resolver and coordinates through the spatial index.
type Cache struct {
	mu        sync.RWMutex
	byPrimary map[string]domain.Entity

	resolver *domain.Resolver
	spatial  *domain.SpatialIndex
}

// CacheStats is a point-in-time summary for the status endpoint.
type CacheStats struct {
	Entities   int `json:"entities"`
	Footprints int `json:"footprints"`
	Mappings   int `json:"mappings"`
}

func NewCache(resolver *domain.Resolver, spatial *domain.SpatialIndex) *Cache {
	return &Cache{
		byPrimary: make(map[string]domain.Entity),
		resolver:  resolver,
		spatial:   spatial,
	}
}

// Upsert stores ent under its primary key, last write wins. A non-empty
// footprint replaces the spatial entry; an empty one leaves a previous
// footprint in place, since geometry is often delivered only on the
// first sighting.
func (c *Cache) Upsert(ent domain.Entity) {
	c.mu.Lock()
	c.byPrimary[ent.PrimaryKey] = ent
	c.mu.Unlock()

	if len(ent.Footprint) > 0 {
		c.spatial.Index(ent.PrimaryKey, ent.Footprint)
	}
}

// GetByAnyKey looks up a building by primary or secondary key.
func (c *Cache) GetByAnyKey(key string) (domain.Entity, error) {
	primary, ok := c.resolver.Resolve(key)
	if !ok {
		primary = key
	}

	c.mu.RLock()
	ent, found := c.byPrimary[primary]
	c.mu.RUnlock()
	if !found {
		return domain.Entity{}, domain.ErrNotFound
	}
	return ent, nil
}

// GetByPoint resolves a coordinate to a building via the spatial index.
func (c *Cache) GetByPoint(pt domain.Point, tolerance float64) (domain.Entity, error) {
	key, ok := c.spatial.Resolve(pt, tolerance)
	if !ok {
		return domain.Entity{}, domain.ErrNotFound
	}

	c.mu.RLock()
	ent, found := c.byPrimary[key]
	c.mu.RUnlock()
	if !found {
		return domain.Entity{}, domain.ErrNotFound
	}
	return ent, nil
}

// SnapshotAll returns a copy of the current state, safe to diff against
// while new upserts land.
func (c *Cache) SnapshotAll() map[string]domain.Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]domain.Entity, len(c.byPrimary))
	for k, v := range c.byPrimary {
		out[k] = v
	}
	return out
}

// Delete evicts a single building and its footprint. The identity
// mapping is kept, so a re-appearing key resolves the same way.
func (c *Cache) Delete(key string) error {
	primary, ok := c.resolver.Resolve(key)
	if !ok {
		primary = key
	}

	c.mu.Lock()
	_, found := c.byPrimary[primary]
	delete(c.byPrimary, primary)
	c.mu.Unlock()

	if !found {
		return domain.ErrNotFound
	}
	c.spatial.Remove(primary)
	return nil
}

// Clear drops every entity, footprint and identity mapping.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.byPrimary = make(map[string]domain.Entity)
	c.mu.Unlock()

	c.spatial.Clear()
	c.resolver.Clear()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPrimary)
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	entities := len(c.byPrimary)
	c.mu.RUnlock()

	return CacheStats{
		Entities:   entities,
		Footprints: c.spatial.Count(),
		Mappings:   c.resolver.MappingCount(),
	}
}
