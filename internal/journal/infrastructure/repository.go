package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"citysync-v0/internal/journal/domain"
)

// Repository implements the journal repository interface using SQLite
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite journal repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertCycle stores a cycle summary and returns its row id
func (r *Repository) InsertCycle(ctx context.Context, cycle domain.Cycle) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
insert into cycles (started_at, duration_ms, mode, total, new_count, changed_count, removed_count, unchanged_count, skipped_count, fetch_error)
values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cycle.StartedAt,
		cycle.Duration.Milliseconds(),
		cycle.Mode,
		cycle.Total,
		cycle.New,
		cycle.Changed,
		cycle.Removed,
		cycle.Unchanged,
		cycle.Skipped,
		cycle.FetchError,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertChanges stores the classified changes of one cycle
func (r *Repository) InsertChanges(ctx context.Context, cycleID int64, changes []domain.Change) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
insert into changes (cycle_id, key, kind, observed_at) values (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ch := range changes {
		if _, err := stmt.ExecContext(ctx, cycleID, ch.Key, ch.Kind, ch.ObservedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListCycles queries cycle summaries with optional filters
func (r *Repository) ListCycles(ctx context.Context, filters domain.CycleFilters) ([]domain.Cycle, error) {
	limit := int64(100)
	if filters.Limit > 0 {
		limit = int64(filters.Limit)
	}
	offset := int64(filters.Offset)

	var from sql.NullTime
	if filters.From != nil {
		from.Time = *filters.From
		from.Valid = true
	}

	var to sql.NullTime
	if filters.To != nil {
		to.Time = *filters.To
		to.Valid = true
	}

	var mode sql.NullString
	if filters.Mode != nil {
		mode.String = *filters.Mode
		mode.Valid = true
	}

	query := `select id, started_at, duration_ms, mode, total, new_count, changed_count, removed_count, unchanged_count, skipped_count, fetch_error
from cycles
where (started_at >= ?1 or ?1 is null)
  and (started_at <= ?2 or ?2 is null)
  and (mode = ?3 or ?3 is null)
order by started_at desc
limit ?4 offset ?5`

	rows, err := r.db.QueryContext(ctx, query, from, to, mode, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []domain.Cycle
	for rows.Next() {
		var c domain.Cycle
		var durationMs int64
		if err := rows.Scan(
			&c.ID,
			&c.StartedAt,
			&durationMs,
			&c.Mode,
			&c.Total,
			&c.New,
			&c.Changed,
			&c.Removed,
			&c.Unchanged,
			&c.Skipped,
			&c.FetchError,
		); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(durationMs) * time.Millisecond
		cycles = append(cycles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cycles, nil
}

// ListChanges queries journaled changes with optional filters
func (r *Repository) ListChanges(ctx context.Context, filters domain.ChangeFilters) ([]domain.Change, error) {
	limit := int64(100)
	if filters.Limit > 0 {
		limit = int64(filters.Limit)
	}
	offset := int64(filters.Offset)

	var key sql.NullString
	if filters.Key != nil {
		key.String = *filters.Key
		key.Valid = true
	}

	var kind sql.NullString
	if filters.Kind != nil {
		kind.String = *filters.Kind
		kind.Valid = true
	}

	var from sql.NullTime
	if filters.From != nil {
		from.Time = *filters.From
		from.Valid = true
	}

	var to sql.NullTime
	if filters.To != nil {
		to.Time = *filters.To
		to.Valid = true
	}

	query := `select id, cycle_id, key, kind, observed_at
from changes
where (key = ?1 or ?1 is null)
  and (kind = ?2 or ?2 is null)
  and (observed_at >= ?3 or ?3 is null)
  and (observed_at <= ?4 or ?4 is null)
order by observed_at desc, id desc
limit ?5 offset ?6`

	rows, err := r.db.QueryContext(ctx, query, key, kind, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []domain.Change
	for rows.Next() {
		var ch domain.Change
		if err := rows.Scan(&ch.ID, &ch.CycleID, &ch.Key, &ch.Kind, &ch.ObservedAt); err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}
