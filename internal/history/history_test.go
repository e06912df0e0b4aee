package history

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/javiermolinar/eventide/internal/db"
	"github.com/javiermolinar/eventide/internal/event"
)

func newTestRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// failingRepo fails every write once fail is set.
type failingRepo struct {
	event.Repository
	fail bool
}

var errStore = errors.New("store unavailable")

func (f *failingRepo) Create(ctx context.Context, e *event.Event) error {
	if f.fail {
		return errStore
	}
	return f.Repository.Create(ctx, e)
}

func (f *failingRepo) Update(ctx context.Context, e *event.Event) error {
	if f.fail {
		return errStore
	}
	return f.Repository.Update(ctx, e)
}

func (f *failingRepo) Delete(ctx context.Context, id int64) error {
	if f.fail {
		return errStore
	}
	return f.Repository.Delete(ctx, id)
}

func create(t *testing.T, repo event.Repository, title string) *event.Event {
	t.Helper()
	e := &event.Event{Title: title, StartDate: "2025-03-10", EndDate: "2025-03-10", Start: "9:00 AM", End: "10:00 AM"}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return e
}

func TestRecord_BoundedDropOldest(t *testing.T) {
	l := New(0)
	for i := 0; i < 15; i++ {
		e := &event.Event{ID: int64(i + 1), Title: fmt.Sprintf("e%d", i+1)}
		if err := l.Record(Created(e)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	undo, redo := l.Len()
	if undo != DefaultMaxEntries || redo != 0 {
		t.Fatalf("got %d/%d entries, want %d/0", undo, redo, DefaultMaxEntries)
	}
	top, _ := l.Peek()
	if top.ID() != 15 {
		t.Errorf("got newest %d, want 15", top.ID())
	}
	oldest := l.undo[0]
	if oldest.ID() != 6 {
		t.Errorf("got oldest %d, want 6", oldest.ID())
	}
}

func TestRecord_Invalid(t *testing.T) {
	l := New(10)
	for _, a := range []Action{{Kind: KindCreate}, {Kind: KindUpdate, Old: &event.Event{}}, {Kind: "rename", Event: &event.Event{}}} {
		if err := l.Record(a); !errors.Is(err, ErrInvalidAction) {
			t.Errorf("%+v: got error %v, want %v", a, err, ErrInvalidAction)
		}
	}
}

func TestUndoRedo_Create(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	l := New(10)

	e := create(t, repo, "Standup")
	_ = l.Record(Created(e))

	ch, err := l.Undo(ctx, repo)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if ch.Removed != e.ID {
		t.Errorf("got removed %d, want %d", ch.Removed, e.ID)
	}
	if _, err := repo.Get(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("event still stored after undo: %v", err)
	}

	ch, err = l.Redo(ctx, repo)
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	if ch.Upsert == nil || ch.Upsert.Title != "Standup" {
		t.Fatalf("got change %+v", ch)
	}
	if _, err := repo.Get(ctx, ch.Upsert.ID); err != nil {
		t.Errorf("recreated event not stored: %v", err)
	}

	// The logged action follows the new ID, so undo removes the right row.
	ch2, err := l.Undo(ctx, repo)
	if err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if ch2.Removed != ch.Upsert.ID {
		t.Errorf("got removed %d, want %d", ch2.Removed, ch.Upsert.ID)
	}
}

func TestUndoRedo_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	l := New(10)

	e := create(t, repo, "Review")
	old := e.Clone()
	e.Start, e.End = "11:00 AM", "12:00 PM"
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = l.Record(Updated(old, e))

	if _, err := l.Undo(ctx, repo); err != nil {
		t.Fatalf("undo: %v", err)
	}
	got, _ := repo.Get(ctx, e.ID)
	if got.Start != "9:00 AM" {
		t.Errorf("after undo got start %s, want 9:00 AM", got.Start)
	}

	if _, err := l.Redo(ctx, repo); err != nil {
		t.Fatalf("redo: %v", err)
	}
	got, _ = repo.Get(ctx, e.ID)
	if got.Start != "11:00 AM" {
		t.Errorf("after redo got start %s, want 11:00 AM", got.Start)
	}
}

func TestUndo_DeleteRemapsEarlierActions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	l := New(10)

	e := create(t, repo, "Gym")
	old := e.Clone()
	e.Title = "Gym (legs)"
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = l.Record(Updated(old, e))

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_ = l.Record(Deleted(e))

	ch, err := l.Undo(ctx, repo)
	if err != nil {
		t.Fatalf("undo delete: %v", err)
	}
	newID := ch.Upsert.ID
	if newID == e.ID {
		t.Fatalf("expected a fresh ID")
	}

	// Undoing the update must now target the recreated row.
	ch, err = l.Undo(ctx, repo)
	if err != nil {
		t.Fatalf("undo update: %v", err)
	}
	if ch.Upsert.ID != newID || ch.Upsert.Title != "Gym" {
		t.Errorf("got %+v", ch.Upsert)
	}
	got, err := repo.Get(ctx, newID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Gym" {
		t.Errorf("got title %q, want %q", got.Title, "Gym")
	}
}

func TestRecord_ClearsRedo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	l := New(10)

	_ = l.Record(Created(create(t, repo, "a")))
	if _, err := l.Undo(ctx, repo); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !l.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	_ = l.Record(Created(create(t, repo, "b")))
	if l.CanRedo() {
		t.Error("new action should clear redo")
	}
	if _, err := l.Redo(ctx, repo); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("got error %v, want %v", err, ErrNothingToRedo)
	}
}

func TestUndo_Empty(t *testing.T) {
	l := New(10)
	if _, err := l.Undo(context.Background(), nil); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("got error %v, want %v", err, ErrNothingToUndo)
	}
}

func TestUndo_StoreFailureKeepsStacks(t *testing.T) {
	repo := &failingRepo{Repository: newTestRepo(t)}
	ctx := context.Background()
	l := New(10)

	_ = l.Record(Created(create(t, repo, "a")))
	repo.fail = true

	if _, err := l.Undo(ctx, repo); !errors.Is(err, errStore) {
		t.Fatalf("got error %v, want %v", err, errStore)
	}
	undo, redo := l.Len()
	if undo != 1 || redo != 0 {
		t.Errorf("got %d/%d entries, want 1/0", undo, redo)
	}

	repo.fail = false
	if _, err := l.Undo(ctx, repo); err != nil {
		t.Errorf("retry failed: %v", err)
	}
}

func TestRedo_Bounded(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	l := New(3)

	for i := 0; i < 3; i++ {
		_ = l.Record(Created(create(t, repo, fmt.Sprintf("e%d", i))))
	}
	for l.CanUndo() {
		if _, err := l.Undo(ctx, repo); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	if _, redo := l.Len(); redo != 3 {
		t.Errorf("got %d redo entries, want 3", redo)
	}
}

func TestDescribe(t *testing.T) {
	a := Updated(&event.Event{Title: "old"}, &event.Event{Title: "new"})
	if got := a.Describe(); got != "update: new" {
		t.Errorf("got %q", got)
	}
	if got := (Action{Kind: KindDelete}).Describe(); got != "delete" {
		t.Errorf("got %q", got)
	}
}

func TestReplay_RecordDuringStoreCallDropsRedo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	l := New(10)
	_ = l.Record(Created(create(t, repo, "a")))

	r, err := l.Begin(Backward)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if l.CanUndo() {
		t.Fatal("begin should take the action off the undo stack")
	}

	// A new edit lands while the store call is in flight.
	_ = l.Record(Created(create(t, repo, "b")))

	ch, err := r.Run(ctx, repo)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	l.Finish(r, ch, nil)

	if undo, redo := l.Len(); undo != 1 || redo != 0 {
		t.Errorf("got %d/%d entries, want 1/0", undo, redo)
	}
}

func TestReplay_FailedRunRestoresAction(t *testing.T) {
	repo := &failingRepo{Repository: newTestRepo(t)}
	ctx := context.Background()
	l := New(10)
	_ = l.Record(Created(create(t, repo, "a")))
	_ = l.Record(Created(create(t, repo, "b")))

	r, _ := l.Begin(Backward)
	repo.fail = true
	ch, err := r.Run(ctx, repo)
	if !errors.Is(err, errStore) {
		t.Fatalf("got error %v, want %v", err, errStore)
	}
	got := l.Finish(r, ch, err)

	if top, _ := l.Peek(); top.Describe() != "create: b" || got.Describe() != "create: b" {
		t.Errorf("top of undo = %q, want %q", top.Describe(), "create: b")
	}
}
