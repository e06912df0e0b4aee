package layout

import (
	"sort"

	"github.com/javiermolinar/eventide/internal/event"
)

// Band is a multi-day event stacked above the day columns.
type Band struct {
	Event        *event.Event
	Index        int // arrival order, drives the vertical offset
	StartColumn  int
	EndColumn    int
	LeftPercent  float64
	WidthPercent float64
}

// Bands places the multi-day events across the displayed dates, one band
// per event in arrival order. Columns are clamped to the displayed dates.
// dates must be sorted. Events that touch none of the displayed dates are
// left out.
func Bands(events []*event.Event, dates []string) []Band {
	n := len(dates)
	if n == 0 {
		return nil
	}

	var out []Band
	for _, e := range events {
		if e == nil || !e.IsMultiDay() {
			continue
		}
		startCol := sort.SearchStrings(dates, e.StartDate)
		endCol := sort.SearchStrings(dates, e.EndDate)
		if endCol == n || dates[endCol] != e.EndDate {
			endCol--
		}
		if startCol >= n || endCol < 0 || startCol > endCol {
			continue
		}
		out = append(out, Band{
			Event:        e,
			Index:        len(out),
			StartColumn:  startCol,
			EndColumn:    endCol,
			LeftPercent:  float64(startCol) / float64(n) * 100,
			WidthPercent: float64(endCol-startCol+1) / float64(n) * 100,
		})
	}
	return out
}
