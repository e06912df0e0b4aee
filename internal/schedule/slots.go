package schedule

import (
	"time"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
)

// Slot is a free span of a day in minutes since midnight.
type Slot struct {
	Date  string
	Start int
	End   int
}

// FreeSlot finds the first gap of at least duration minutes on date,
// inside w and not before from. Busy time comes from the single-day
// events of that date. The start is rounded up to the window interval.
func FreeSlot(events []*event.Event, date string, w event.Window, duration, from int, log event.Logger) (Slot, bool) {
	if duration <= 0 {
		duration = w.Interval
	}
	cursor := roundUp(max(from, w.Start), w.Interval)

	for _, s := range layout.ResolveDay(events, date, log) {
		if s.EndMin <= cursor {
			continue
		}
		if s.StartMin-cursor >= duration {
			break
		}
		cursor = roundUp(max(cursor, s.EndMin), w.Interval)
	}

	if cursor+duration > w.End {
		return Slot{}, false
	}
	return Slot{Date: date, Start: cursor, End: cursor + duration}, true
}

// NextFreeSlot searches date and the following days, up to a week, for
// the first gap of duration minutes. On the current day of now the search
// starts at the current time.
func (s *Schedule) NextFreeSlot(date string, duration int, now time.Time) (Slot, bool) {
	day, err := time.ParseInLocation(event.DateLayout, date, now.Location())
	if err != nil {
		return Slot{}, false
	}
	today := now.Format(event.DateLayout)
	nowMin := now.Hour()*60 + now.Minute()

	events := s.Events()
	for range 7 {
		d := day.Format(event.DateLayout)
		if d >= today {
			from := 0
			if d == today {
				from = nowMin
			}
			if slot, ok := FreeSlot(events, d, s.cfg.Window, duration, from, s.log); ok {
				return slot, true
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return Slot{}, false
}

// roundUp rounds m up to the next multiple of interval.
func roundUp(m, interval int) int {
	if interval <= 0 {
		return m
	}
	if r := m % interval; r != 0 {
		return m + interval - r
	}
	return m
}
