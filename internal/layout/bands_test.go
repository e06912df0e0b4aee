package layout

import (
	"testing"

	"github.com/javiermolinar/eventide/internal/event"
)

func multiDay(id int64, startDate, endDate string) *event.Event {
	e := makeEvent(id, "9:00 AM", "5:00 PM")
	e.StartDate, e.EndDate = startDate, endDate
	return e
}

func TestBands(t *testing.T) {
	dates := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}

	tests := []struct {
		name      string
		event     *event.Event
		wantStart int
		wantEnd   int
		wantLeft  float64
		wantWidth float64
	}{
		{name: "inside", event: multiDay(1, "2025-03-11", "2025-03-12"), wantStart: 1, wantEnd: 2, wantLeft: 25, wantWidth: 50},
		{name: "starts before", event: multiDay(2, "2025-03-01", "2025-03-11"), wantStart: 0, wantEnd: 1, wantLeft: 0, wantWidth: 50},
		{name: "ends after", event: multiDay(3, "2025-03-12", "2025-04-01"), wantStart: 2, wantEnd: 3, wantLeft: 50, wantWidth: 50},
		{name: "covers everything", event: multiDay(4, "2025-02-01", "2025-04-01"), wantStart: 0, wantEnd: 3, wantLeft: 0, wantWidth: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bands([]*event.Event{tt.event}, dates)
			if len(got) != 1 {
				t.Fatalf("got %d bands, want 1", len(got))
			}
			b := got[0]
			if b.StartColumn != tt.wantStart || b.EndColumn != tt.wantEnd {
				t.Errorf("got columns %d-%d, want %d-%d", b.StartColumn, b.EndColumn, tt.wantStart, tt.wantEnd)
			}
			if !approx(b.LeftPercent, tt.wantLeft) || !approx(b.WidthPercent, tt.wantWidth) {
				t.Errorf("got left/width %.2f/%.2f, want %.2f/%.2f", b.LeftPercent, b.WidthPercent, tt.wantLeft, tt.wantWidth)
			}
		})
	}
}

func TestBands_ArrivalOrderAndFiltering(t *testing.T) {
	dates := []string{"2025-03-10", "2025-03-11"}
	events := []*event.Event{
		multiDay(9, "2025-03-10", "2025-03-11"),
		makeEvent(2, "9:00 AM", "10:00 AM"),
		multiDay(1, "2025-04-01", "2025-04-03"),
		multiDay(5, "2025-03-09", "2025-03-10"),
	}

	got := Bands(events, dates)
	if len(got) != 2 {
		t.Fatalf("got %d bands, want 2", len(got))
	}
	if got[0].Event.ID != 9 || got[0].Index != 0 {
		t.Errorf("first band: got event %d index %d", got[0].Event.ID, got[0].Index)
	}
	if got[1].Event.ID != 5 || got[1].Index != 1 {
		t.Errorf("second band: got event %d index %d", got[1].Event.ID, got[1].Index)
	}
}

func TestBands_GapInCustomDates(t *testing.T) {
	dates := []string{"2025-03-01", "2025-03-20"}
	got := Bands([]*event.Event{multiDay(1, "2025-03-05", "2025-03-07")}, dates)
	if len(got) != 0 {
		t.Errorf("event between displayed dates should not get a band, got %+v", got)
	}
}

func TestBands_NoDates(t *testing.T) {
	if got := Bands([]*event.Event{multiDay(1, "2025-03-05", "2025-03-07")}, nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
