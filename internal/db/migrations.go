package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			start_min   INTEGER NOT NULL DEFAULT 0,
			locked      INTEGER NOT NULL DEFAULT 0,
			type        TEXT NOT NULL DEFAULT 'event' CHECK(type IN ('event', 'reminder')),
			urgency     TEXT NOT NULL DEFAULT 'trivial'
			            CHECK(urgency IN ('trivial', 'ongoing', 'attention-needed', 'important', 'critical')),
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(start_date <= end_date)
		);

		CREATE INDEX IF NOT EXISTS idx_events_dates ON events(start_date, end_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	return nil
}
