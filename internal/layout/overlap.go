// Package layout computes the visual arrangement of events on a time grid.
//
// Everything here is a pure function of its inputs: the event set is read,
// never mutated, and layout values are recomputed on every render.
package layout

import (
	"sort"

	"github.com/javiermolinar/eventide/internal/event"
)

// Placement is the horizontal share of an event within its overlap cluster.
type Placement struct {
	OverlapCount  int // size of the cluster
	PositionIndex int // 0-based lane within the cluster
}

// Slot is a single-day event with its minute offsets and resolved placement.
type Slot struct {
	Event    *event.Event
	StartMin int
	EndMin   int
	Placement
}

// Overlaps reports whether two slots intersect as half-open intervals.
func (s Slot) Overlaps(o Slot) bool {
	return s.StartMin < o.EndMin && s.EndMin > o.StartMin
}

// Resolve groups a day's events into overlap clusters and assigns each
// event its lane.
//
// Events are sorted by start minute, keeping input order on ties. The
// earliest unassigned event seeds a cluster that collects every unassigned
// event intersecting the seed. Two events that only overlap through the
// seed therefore share a cluster.
//
// Multi-day events are skipped. Events with missing or unparseable fields
// are logged and skipped; they stay in the caller's event set.
func Resolve(events []*event.Event, log event.Logger) []Slot {
	if log == nil {
		log = event.NopLogger()
	}

	pool := make([]Slot, 0, len(events))
	for _, e := range events {
		s, ok := toSlot(e, log)
		if !ok {
			continue
		}
		pool = append(pool, s)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].StartMin < pool[j].StartMin
	})

	out := make([]Slot, 0, len(pool))
	for len(pool) > 0 {
		seed := pool[0]
		cluster := []Slot{seed}
		rest := pool[:0:0]
		for _, s := range pool[1:] {
			if s.Overlaps(seed) {
				cluster = append(cluster, s)
			} else {
				rest = append(rest, s)
			}
		}
		for i := range cluster {
			cluster[i].Placement = Placement{OverlapCount: len(cluster), PositionIndex: i}
		}
		out = append(out, cluster...)
		pool = rest
	}
	return out
}

// ResolveDay resolves the single-day events that fall on date.
func ResolveDay(events []*event.Event, date string, log event.Logger) []Slot {
	var day []*event.Event
	for _, e := range events {
		if e != nil && e.StartDate == date && e.EndDate == date {
			day = append(day, e)
		}
	}
	return Resolve(day, log)
}

func toSlot(e *event.Event, log event.Logger) (Slot, bool) {
	if e == nil {
		log.Warnw("skipping nil event")
		return Slot{}, false
	}
	if e.StartDate == "" || e.EndDate == "" || e.Start == "" || e.End == "" {
		log.Warnw("skipping event with missing fields", "id", e.ID, "title", e.Title)
		return Slot{}, false
	}
	if e.IsMultiDay() {
		return Slot{}, false
	}
	start, end, err := e.Minutes()
	if err != nil {
		log.Warnw("skipping event with invalid time", "id", e.ID, "start", e.Start, "end", e.End, "error", err)
		return Slot{}, false
	}
	if end <= start {
		log.Warnw("skipping event that ends before it starts", "id", e.ID, "start", e.Start, "end", e.End)
		return Slot{}, false
	}
	return Slot{Event: e, StartMin: start, EndMin: end}, true
}
