package domain

import (
	"sort"
	"sync"
)

// SpatialIndex resolves a 3D pick point to a building key when the
// visualization layer cannot supply an identifier. Each entry keeps the
// vertex ring plus its axis-aligned bounding box; resolution is a
// bbox prefilter over all entries followed by an exact even-odd
// containment test on the survivors. Footprints are sparse relative to
// the dataset, so the linear candidate scan is acceptable.
type SpatialIndex struct {
	mu      sync.RWMutex
	entries map[string]*spatialEntry
}

type spatialEntry struct {
	ring       []Point
	minX, minY float64
	maxX, maxY float64
}

func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{entries: make(map[string]*spatialEntry)}
}

// Index stores or replaces the footprint for key. Degenerate rings
// (fewer than 3 vertices) are kept for bookkeeping but never matched.
func (s *SpatialIndex) Index(key string, footprint []Point) {
	e := &spatialEntry{ring: footprint}
	for i, p := range footprint {
		if i == 0 {
			e.minX, e.maxX = p.X, p.X
			e.minY, e.maxY = p.Y, p.Y
			continue
		}
		e.minX = min(e.minX, p.X)
		e.maxX = max(e.maxX, p.X)
		e.minY = min(e.minY, p.Y)
		e.maxY = max(e.maxY, p.Y)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Remove drops the footprint for key, if present.
func (s *SpatialIndex) Remove(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Clear drops every stored footprint.
func (s *SpatialIndex) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*spatialEntry)
	s.mu.Unlock()
}

// Count reports how many keys have a stored footprint.
func (s *SpatialIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Resolve finds the building whose footprint contains pt. Candidates
// are entries whose bounding box, expanded by tolerance, strictly
// contains the point; a point exactly tolerance away is not a
// candidate. Among candidates the first exact polygon hit wins (in key
// order, for determinism); when no polygon contains the point the
// candidate with the tightest bounding box is returned. A miss is a
// normal result, not an error; callers fall back to identifier
// lookup.
func (s *SpatialIndex) Resolve(pt Point, tolerance float64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []string
	for key, e := range s.entries {
		if len(e.ring) < 3 {
			continue
		}
		if pt.X > e.minX-tolerance && pt.X < e.maxX+tolerance &&
			pt.Y > e.minY-tolerance && pt.Y < e.maxY+tolerance {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)

	for _, key := range candidates {
		if pointInRing(pt, s.entries[key].ring) {
			return key, true
		}
	}

	best := candidates[0]
	bestArea := s.entries[best].area()
	for _, key := range candidates[1:] {
		if a := s.entries[key].area(); a < bestArea {
			best, bestArea = key, a
		}
	}
	return best, true
}

func (e *spatialEntry) area() float64 {
	return (e.maxX - e.minX) * (e.maxY - e.minY)
}

// pointInRing is the even-odd ray-casting rule: cast a horizontal ray
// from pt and count edge crossings; odd means inside.
func pointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}
