package restclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/javiermolinar/eventide/internal/api"
	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/db"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/llm"
)

type echoOptimizer struct{}

// Optimize shifts every event by one hour.
func (echoOptimizer) Optimize(_ context.Context, events []*event.Event, _ event.Mask) (*llm.OptimizeResult, error) {
	out := make([]*event.Event, len(events))
	for i, e := range events {
		c := e.Clone()
		c.Start, c.End = "10:00 AM", "11:00 AM"
		out[i] = c
	}
	return &llm.OptimizeResult{Schedule: out}, nil
}

type fixedSummarizer string

func (s fixedSummarizer) Summarize(context.Context, []*event.Event) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	repo, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	srv, err := api.New(config.ServerConfig{}, api.Deps{
		Repo:       repo,
		Optimizer:  echoOptimizer{},
		Summarizer: fixedSummarizer("Busy morning."),
	}, nil)
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, WithHTTPClient(ts.Client()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func makeEvent(title, date, start, end string) *event.Event {
	return &event.Event{Title: title, StartDate: date, EndDate: date, Start: start, End: end}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "://x"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestClient_CRUD(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	e := makeEvent("Standup", "2025-03-10", "9:00 AM", "9:15 AM")
	if err := c.Create(ctx, e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.ID == 0 {
		t.Fatal("Create() should set the ID")
	}

	got, err := c.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Standup" || got.Urgency != event.UrgencyTrivial {
		t.Errorf("Get() = %+v", got)
	}

	got.Title = "Daily standup"
	got.Urgency = event.UrgencyImportant
	if err := c.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ = c.Get(ctx, e.ID)
	if got.Title != "Daily standup" || got.Urgency != event.UrgencyImportant {
		t.Errorf("after Update() = %+v", got)
	}

	if err := c.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrEventNotFound", err)
	}
	if err := c.Delete(ctx, e.ID); !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrEventNotFound", err)
	}
}

func TestClient_DeleteLocked(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	e := &event.Event{Title: "Board meeting", StartDate: "2025-03-10", EndDate: "2025-03-10", Start: "2:00 PM", End: "3:00 PM", Locked: true}
	if err := c.Create(ctx, e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := c.Delete(ctx, e.ID); !errors.Is(err, event.ErrLocked) {
		t.Fatalf("Delete(locked) error = %v, want ErrLocked", err)
	}
	if _, err := c.Get(ctx, e.ID); err != nil {
		t.Errorf("locked event gone after rejected delete: %v", err)
	}
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for _, e := range []*event.Event{
		makeEvent("a", "2025-03-10", "9:00 AM", "10:00 AM"),
		makeEvent("b", "2025-03-11", "9:00 AM", "10:00 AM"),
		makeEvent("c", "2025-03-20", "9:00 AM", "10:00 AM"),
	} {
		if err := c.Create(ctx, e); err != nil {
			t.Fatalf("Create(%q) error = %v", e.Title, err)
		}
	}

	tests := []struct {
		name string
		list func() ([]*event.Event, error)
		want int
	}{
		{"by date", func() ([]*event.Event, error) { return c.ListByDate(ctx, "2025-03-11") }, 1},
		{"by range", func() ([]*event.Event, error) { return c.ListByRange(ctx, "2025-03-10", "2025-03-12") }, 2},
		{"all", func() ([]*event.Event, error) { return c.ListAll(ctx) }, 3},
		{"empty day", func() ([]*event.Event, error) { return c.ListByDate(ctx, "2025-04-01") }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.list()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestClient_ValidationError(t *testing.T) {
	c := newTestClient(t)

	e := makeEvent("bad", "2025-03-10", "10:00 AM", "9:00 AM")
	if err := c.Create(context.Background(), e); !errors.Is(err, event.ErrEndBeforeStart) {
		t.Errorf("Create() error = %v, want ErrEndBeforeStart before any request", err)
	}

	_, err := c.ListByRange(context.Background(), "2025-03-12", "2025-03-10")
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadRequest {
		t.Errorf("ListByRange() error = %v, want 400 StatusError", err)
	}
}

func TestClient_OptimizeAndSummarize(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res, err := c.Optimize(ctx, nil, event.Mask{})
	if err != nil {
		t.Fatalf("Optimize(empty) error = %v", err)
	}
	if res.Message != llm.MessageEmpty {
		t.Errorf("Optimize(empty) message = %q", res.Message)
	}

	in := []*event.Event{makeEvent("a", "2025-03-10", "9:00 AM", "10:00 AM")}
	in[0].ID = 1
	res, err = c.Optimize(ctx, in, event.Mask{event.FieldTimes: true})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if len(res.Schedule) != 1 || res.Schedule[0].Start != "10:00 AM" {
		t.Errorf("Optimize() schedule = %+v", res.Schedule)
	}

	summary, err := c.Summarize(ctx, in)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "Busy morning." {
		t.Errorf("Summarize() = %q", summary)
	}
}
