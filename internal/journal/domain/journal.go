package domain

import (
	"context"
	"time"
)

// Cycle summarizes one sync pass against the source. FetchError is set
// when the pass aborted before diffing; the counts are then zero.
type Cycle struct {
	ID         int64
	StartedAt  time.Time
	Duration   time.Duration
	Mode       string
	Total      int
	New        int
	Changed    int
	Removed    int
	Unchanged  int
	Skipped    int
	FetchError string
}

// Change is one classified difference observed during a cycle.
// Unchanged buildings are never journaled.
type Change struct {
	ID         int64
	CycleID    int64
	Key        string
	Kind       string
	ObservedAt time.Time
}

// CycleFilters contains optional filters for querying cycles
type CycleFilters struct {
	From   *time.Time
	To     *time.Time
	Mode   *string
	Limit  int
	Offset int
}

// ChangeFilters contains optional filters for querying changes
type ChangeFilters struct {
	Key    *string
	Kind   *string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Repository defines the interface for journal persistence. The journal
// is history only: it is written during sync and read by the API, and
// never feeds back into the cache.
type Repository interface {
	InsertCycle(ctx context.Context, cycle Cycle) (int64, error)
	InsertChanges(ctx context.Context, cycleID int64, changes []Change) error
	ListCycles(ctx context.Context, filters CycleFilters) ([]Cycle, error)
	ListChanges(ctx context.Context, filters ChangeFilters) ([]Change, error)
}
