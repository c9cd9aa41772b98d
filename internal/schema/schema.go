package schema

import "database/sql"

// DDL holds the journal schema. The journal records sync history for
// the API; the runtime cache never reads from it.
const DDL = `
create table if not exists cycles (
	id integer primary key autoincrement,
	started_at timestamp not null,
	duration_ms integer not null,
	mode text not null,
	total integer not null,
	new_count integer not null,
	changed_count integer not null,
	removed_count integer not null,
	unchanged_count integer not null,
	skipped_count integer not null,
	fetch_error text not null default ''
);

create table if not exists changes (
	id integer primary key autoincrement,
	cycle_id integer not null references cycles(id),
	key text not null,
	kind text not null,
	observed_at timestamp not null
);

create index if not exists idx_cycles_started_at on cycles(started_at);
create index if not exists idx_changes_cycle_id on changes(cycle_id);
create index if not exists idx_changes_key on changes(key);
create index if not exists idx_changes_observed_at on changes(observed_at);
`

// Apply creates the schema if it does not exist yet.
func Apply(db *sql.DB) error {
	_, err := db.Exec(DDL)
	return err
}
