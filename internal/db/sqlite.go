// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/eventide/internal/event"
)

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ event.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// The path ":memory:" opens a private in-memory database.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const selectColumns = `
	SELECT id, title, description, start_date, end_date, start_time, end_time,
	       locked, type, urgency
	FROM events
`

const orderBy = ` ORDER BY start_date, start_min, id`

// Create stores a new event and sets its ID.
// Missing optional fields get their defaults before the event is validated.
func (s *SQLite) Create(ctx context.Context, e *event.Event) error {
	if err := e.Normalize(); err != nil {
		return err
	}

	id, err := insert(ctx, s.db, e)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// CreateMany stores several events in one transaction and sets their IDs.
func (s *SQLite) CreateMany(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		if err := e.Normalize(); err != nil {
			return fmt.Errorf("event %q: %w", e.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i], err = insert(ctx, tx, e)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	for i, e := range events {
		e.ID = ids[i]
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, e *event.Event) (int64, error) {
	query := `
		INSERT INTO events (
			title, description, start_date, end_date, start_time, end_time,
			start_min, locked, type, urgency
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	startMin, _ := event.ParseTimeOfDay(e.Start)
	result, err := db.ExecContext(ctx, query,
		e.Title,
		e.Description,
		e.StartDate,
		e.EndDate,
		e.Start,
		e.End,
		startMin,
		e.Locked,
		e.Type,
		e.Urgency,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// Get retrieves an event by ID.
func (s *SQLite) Get(ctx context.Context, id int64) (*event.Event, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, event.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}
	return e, nil
}

// Update replaces every stored field of e.ID.
func (s *SQLite) Update(ctx context.Context, e *event.Event) error {
	if err := e.Normalize(); err != nil {
		return err
	}

	query := `
		UPDATE events SET
			title = ?, description = ?, start_date = ?, end_date = ?,
			start_time = ?, end_time = ?, start_min = ?, locked = ?,
			type = ?, urgency = ?, updated_at = ?
		WHERE id = ?
	`
	startMin, _ := event.ParseTimeOfDay(e.Start)
	result, err := s.db.ExecContext(ctx, query,
		e.Title,
		e.Description,
		e.StartDate,
		e.EndDate,
		e.Start,
		e.End,
		startMin,
		e.Locked,
		e.Type,
		e.Urgency,
		time.Now().UTC().Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	return requireRow(result)
}

// Delete removes an event.
func (s *SQLite) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return requireRow(result)
}

// DeleteAll removes every event and returns how many were removed.
func (s *SQLite) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		return 0, fmt.Errorf("clearing events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}

// ListByDate returns the events that occur on date.
func (s *SQLite) ListByDate(ctx context.Context, date string) ([]*event.Event, error) {
	return s.ListByRange(ctx, date, date)
}

// ListByRange returns the events touching the inclusive date range.
func (s *SQLite) ListByRange(ctx context.Context, from, to string) ([]*event.Event, error) {
	if _, err := time.Parse(event.DateLayout, from); err != nil {
		return nil, fmt.Errorf("from: %w", event.ErrInvalidDate)
	}
	if _, err := time.Parse(event.DateLayout, to); err != nil {
		return nil, fmt.Errorf("to: %w", event.ErrInvalidDate)
	}
	return s.query(ctx, selectColumns+` WHERE start_date <= ? AND end_date >= ?`+orderBy, to, from)
}

// ListAll returns every stored event.
func (s *SQLite) ListAll(ctx context.Context) ([]*event.Event, error) {
	return s.query(ctx, selectColumns+orderBy)
}

func (s *SQLite) query(ctx context.Context, query string, args ...any) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*event.Event, error) {
	var (
		e         event.Event
		startDate string
		endDate   string
	)
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&startDate,
		&endDate,
		&e.Start,
		&e.End,
		&e.Locked,
		&e.Type,
		&e.Urgency,
	)
	if err != nil {
		return nil, err
	}
	if e.StartDate, err = normalizeDate(startDate); err != nil {
		return nil, err
	}
	if e.EndDate, err = normalizeDate(endDate); err != nil {
		return nil, err
	}
	return &e, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// normalizeDate returns a stored date as YYYY-MM-DD. Older rows may carry
// the timestamp form SQLite produces for DATE values.
func normalizeDate(s string) (string, error) {
	if _, err := time.Parse(event.DateLayout, s); err == nil {
		return s, nil
	}
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Format(event.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format: %s", s)
}
