package integration

import (
	"context"
	"testing"
	"time"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
)

// Events are stored by calendar date, so a week computed in any zone must
// find events created on the local date of that zone.
func TestWeekRange_FarFromUTC(t *testing.T) {
	zones := []*time.Location{
		time.FixedZone("UTC+14", 14*3600),
		time.FixedZone("UTC-11", -11*3600),
	}

	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			repo := openRepo(t)
			ctx := context.Background()

			// Late evening, when the UTC date already differs.
			now := time.Date(2025, 3, 12, 23, 30, 0, 0, loc)
			today := dateutil.Format(now)
			if today != "2025-03-12" {
				t.Fatalf("local date = %s, want 2025-03-12", today)
			}

			e, err := event.New("Late review", today, "", "5:00 PM", "6:00 PM")
			if err != nil {
				t.Fatal(err)
			}
			if err := repo.Create(ctx, e); err != nil {
				t.Fatal(err)
			}

			monday, sunday := dateutil.WeekRange(now)
			if got := dateutil.Format(monday); got != "2025-03-10" {
				t.Errorf("week starts %s, want 2025-03-10", got)
			}
			events, err := repo.ListByRange(ctx, dateutil.Format(monday), dateutil.Format(sunday))
			if err != nil {
				t.Fatalf("ListByRange() error = %v", err)
			}
			if len(events) != 1 || events[0].StartDate != today {
				t.Errorf("ListByRange() = %v, want the event on %s", events, today)
			}
		})
	}
}

func TestWeekDates_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// DST starts on Sunday 2025-03-09 in New York.
	monday, _ := dateutil.WeekRange(time.Date(2025, 3, 5, 12, 0, 0, 0, loc))
	dates, err := dateutil.WeekDates(dateutil.Format(monday))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08", "2025-03-09"}
	for i, d := range want {
		if dates[i] != d {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], d)
		}
	}
}
