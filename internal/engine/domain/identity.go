package domain

import (
	"strings"
	"sync"
)

// The bulk feed and the per-building attribute endpoint disagree on
// identifier format: the feed's primary key carries an underscore
// delimiter (DEBW_001000wrHDD) where the attribute endpoint expects a
// literal L (DEBWL001000wrHDD). The substitution is deterministic but
// not proven injective, since a key may legitimately contain an L
// elsewhere, so mappings observed directly from the source always win
// over derived guesses.

// KeySource tags how a primary/secondary association was established.
type KeySource int

const (
	SourceHeuristic KeySource = iota
	SourceConfirmed
)

type mapping struct {
	secondary string
	source    KeySource
}

// Resolver converts between the two identifier formats and answers
// lookups by either form with the canonical primary key.
type Resolver struct {
	mu        sync.RWMutex
	byPrimary map[string]mapping
	bySecond  map[string]string

	// AmbiguousMapping, when set, is called whenever a heuristic
	// derivation disagrees with a previously confirmed mapping.
	AmbiguousMapping func(primary, confirmed, derived string)
}

func NewResolver() *Resolver {
	return &Resolver{
		byPrimary: make(map[string]mapping),
		bySecond:  make(map[string]string),
	}
}

// DeriveSecondary applies the substitution heuristic. Pure and total:
// every underscore becomes an L, keys without underscores pass through.
// Case is preserved exactly; the identifier schemes are case-sensitive.
func DeriveSecondary(primaryKey string) string {
	return strings.ReplaceAll(primaryKey, "_", "L")
}

// RecordConfirmed stores a primary/secondary pair observed together in
// a single source record. Confirmed mappings overwrite heuristic ones
// and are never displaced by a later heuristic guess.
func (r *Resolver) RecordConfirmed(primaryKey, secondaryKey string) {
	if primaryKey == "" || secondaryKey == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byPrimary[primaryKey]
	if ok && prev.secondary != secondaryKey {
		// The replaced pairing leaves a stale reverse entry behind;
		// drop it so it cannot shadow the new key.
		delete(r.bySecond, prev.secondary)
	}

	r.byPrimary[primaryKey] = mapping{secondary: secondaryKey, source: SourceConfirmed}
	r.bySecond[secondaryKey] = primaryKey
}

// RecordDerived stores a heuristic derivation for primaryKey. It never
// displaces a confirmed mapping; a disagreement is reported through
// AmbiguousMapping and otherwise ignored.
func (r *Resolver) RecordDerived(primaryKey string) string {
	derived := DeriveSecondary(primaryKey)

	r.mu.Lock()
	prev, ok := r.byPrimary[primaryKey]
	if ok && prev.source == SourceConfirmed {
		confirmed := prev.secondary
		r.mu.Unlock()
		if confirmed != derived && r.AmbiguousMapping != nil {
			r.AmbiguousMapping(primaryKey, confirmed, derived)
		}
		return confirmed
	}
	r.byPrimary[primaryKey] = mapping{secondary: derived, source: SourceHeuristic}
	r.bySecond[derived] = primaryKey
	r.mu.Unlock()

	return derived
}

// Secondary returns the stored secondary key for primaryKey, falling
// back to the heuristic derivation when nothing was recorded.
func (r *Resolver) Secondary(primaryKey string) (string, KeySource) {
	r.mu.RLock()
	m, ok := r.byPrimary[primaryKey]
	r.mu.RUnlock()
	if ok {
		return m.secondary, m.source
	}
	return DeriveSecondary(primaryKey), SourceHeuristic
}

// Resolve maps either key form to the canonical primary key. Only
// recorded mappings are consulted; an unknown key reports not found
// rather than reversing the substitution, which would misfire on keys
// that legitimately contain the replacement character.
func (r *Resolver) Resolve(eitherKey string) (string, bool) {
	if eitherKey == "" {
		return "", false
	}

	r.mu.RLock()
	if _, ok := r.byPrimary[eitherKey]; ok {
		r.mu.RUnlock()
		return eitherKey, true
	}
	if primary, ok := r.bySecond[eitherKey]; ok {
		r.mu.RUnlock()
		return primary, true
	}
	r.mu.RUnlock()

	return "", false
}

// MappingCount reports how many primary keys have a stored association.
func (r *Resolver) MappingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPrimary)
}

// Clear drops every stored mapping.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPrimary = make(map[string]mapping)
	r.bySecond = make(map[string]string)
}
