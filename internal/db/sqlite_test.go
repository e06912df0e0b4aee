package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/eventide/internal/event"
)

// newTestRepo creates a temporary SQLite repository for testing.
func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func makeEvent(title, startDate, endDate, start, end string) *event.Event {
	return &event.Event{
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
		Start:     start,
		End:       end,
	}
}

func TestCreate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := makeEvent("", "2025-03-10", "2025-03-10", "09:00", "10:30 am")
	e.Description = "weekly sync"
	e.Urgency = event.UrgencyImportant

	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("expected ID to be set")
	}

	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := event.Event{
		ID:          e.ID,
		Title:       event.DefaultTitle,
		Description: "weekly sync",
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-10",
		Start:       "9:00 AM",
		End:         "10:30 AM",
		Type:        event.TypeEvent,
		Urgency:     event.UrgencyImportant,
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Create(context.Background(), makeEvent("x", "2025-03-10", "2025-03-10", "10:00 AM", "9:00 AM"))
	if !errors.Is(err, event.ErrEndBeforeStart) {
		t.Errorf("got error %v, want %v", err, event.ErrEndBeforeStart)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 999)
	if !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("got error %v, want %v", err, event.ErrEventNotFound)
	}
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := makeEvent("Standup", "2025-03-10", "2025-03-10", "9:00 AM", "9:15 AM")
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Start, e.End = "9:30 AM", "9:45 AM"
	e.Locked = true
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Start != "9:30 AM" || got.End != "9:45 AM" || !got.Locked {
		t.Errorf("got %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	e := makeEvent("ghost", "2025-03-10", "2025-03-10", "9:00 AM", "10:00 AM")
	e.ID = 42
	if err := repo.Update(context.Background(), e); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("got error %v, want %v", err, event.ErrEventNotFound)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := makeEvent("Lunch", "2025-03-10", "2025-03-10", "12:00 PM", "1:00 PM")
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("got error %v, want %v", err, event.ErrEventNotFound)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("second delete: got error %v, want %v", err, event.ErrEventNotFound)
	}
}

func TestListByDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	events := []*event.Event{
		makeEvent("afternoon", "2025-03-10", "2025-03-10", "2:00 PM", "3:00 PM"),
		makeEvent("morning", "2025-03-10", "2025-03-10", "9:00 AM", "10:00 AM"),
		makeEvent("trip", "2025-03-08", "2025-03-12", "6:00 PM", "9:00 AM"),
		makeEvent("tomorrow", "2025-03-11", "2025-03-11", "9:00 AM", "10:00 AM"),
		makeEvent("last week", "2025-03-01", "2025-03-03", "9:00 AM", "10:00 AM"),
	}
	if err := repo.CreateMany(ctx, events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.ListByDate(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTitles := []string{"trip", "morning", "afternoon"}
	if len(got) != len(wantTitles) {
		t.Fatalf("got %d events, want %d", len(got), len(wantTitles))
	}
	for i, title := range wantTitles {
		if got[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestListByRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateMany(ctx, []*event.Event{
		makeEvent("a", "2025-03-09", "2025-03-09", "9:00 AM", "10:00 AM"),
		makeEvent("b", "2025-03-10", "2025-03-10", "9:00 AM", "10:00 AM"),
		makeEvent("c", "2025-03-12", "2025-03-14", "9:00 AM", "10:00 AM"),
		makeEvent("d", "2025-03-15", "2025-03-15", "9:00 AM", "10:00 AM"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.ListByRange(ctx, "2025-03-10", "2025-03-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "b" || got[1].Title != "c" {
		t.Errorf("got %v", titles(got))
	}

	if _, err := repo.ListByRange(ctx, "03/10/2025", "2025-03-12"); !errors.Is(err, event.ErrInvalidDate) {
		t.Errorf("got error %v, want %v", err, event.ErrInvalidDate)
	}
}

func TestCreateMany_RollsBackOnInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.CreateMany(ctx, []*event.Event{
		makeEvent("ok", "2025-03-10", "2025-03-10", "9:00 AM", "10:00 AM"),
		makeEvent("bad", "2025-03-10", "2025-03-10", "nope", "10:00 AM"),
	})
	if !errors.Is(err, event.ErrInvalidTimeFormat) {
		t.Fatalf("got error %v, want %v", err, event.ErrInvalidTimeFormat)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected nothing stored, got %v", titles(all))
	}
}

func TestDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateMany(ctx, []*event.Event{
		makeEvent("a", "2025-03-10", "2025-03-10", "9:00 AM", "10:00 AM"),
		makeEvent("b", "2025-03-11", "2025-03-11", "9:00 AM", "10:00 AM"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("got %d deleted, want 2", n)
	}
}

func TestNew_InMemory(t *testing.T) {
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = repo.Close() }()

	ctx := context.Background()
	e := makeEvent("mem", "2025-03-10", "2025-03-10", "9:00 AM", "10:00 AM")
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(ctx, e.ID); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-01-15", "2025-01-15"},
		{"2025-01-15T00:00:00Z", "2025-01-15"},
		{"2025-01-15 00:00:00", "2025-01-15"},
	}
	for _, tt := range tests {
		got, err := normalizeDate(tt.input)
		if err != nil {
			t.Errorf("normalizeDate(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if _, err := normalizeDate("Jan 15"); err == nil {
		t.Error("expected error for unrecognized format")
	}
}

func titles(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}
