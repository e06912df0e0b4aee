package layout

import (
	"math"

	"github.com/javiermolinar/eventide/internal/event"
)

// ReminderMinutes is the fixed visual duration of a reminder.
const ReminderMinutes = 15

// Axis is the displayed hour span of a day column. It may be wider than
// the interactive grid window.
type Axis struct {
	StartHour int
	EndHour   int
}

// AxisFor returns the whole-hour axis that contains w.
func AxisFor(w event.Window) Axis {
	return Axis{
		StartHour: w.Start / 60,
		EndHour:   int(math.Ceil(float64(w.End) / 60)),
	}
}

// Minutes returns the axis length in minutes.
func (a Axis) Minutes() int {
	return (a.EndHour - a.StartHour) * 60
}

// HourLabels returns the "H:00 AM/PM" labels from StartHour to EndHour inclusive.
func (a Axis) HourLabels() []string {
	labels := make([]string, 0, a.EndHour-a.StartHour+1)
	for h := a.StartHour; h <= a.EndHour; h++ {
		labels = append(labels, event.FormatHour(h))
	}
	return labels
}

// Geometry is the percentage box of an event within its day column.
type Geometry struct {
	TopPercent    float64
	HeightPercent float64
	LeftPercent   float64
	WidthPercent  float64
	ClipTop       bool // event starts before the grid window
	ClipBottom    bool // event ends after the grid window
	Visible       bool
}

// Project maps a resolved slot onto the column geometry for the grid
// window w drawn on axis.
func Project(s Slot, w event.Window, axis Axis) Geometry {
	total := float64(axis.Minutes())
	if total <= 0 {
		return Geometry{}
	}

	lo := max(w.Start, axis.StartHour*60)
	hi := min(w.End, axis.EndHour*60)
	visibleStart := max(s.StartMin, lo)
	visibleEnd := min(s.EndMin, hi)
	visibleDuration := max(0, visibleEnd-visibleStart)

	g := Geometry{
		ClipTop:    s.StartMin < w.Start,
		ClipBottom: s.EndMin > w.End,
	}
	if visibleDuration == 0 {
		return g
	}

	count := max(1, s.OverlapCount)
	g.Visible = true
	g.TopPercent = float64(visibleStart-axis.StartHour*60) / total * 100
	if s.Event != nil && s.Event.IsReminder() {
		g.HeightPercent = min(ReminderMinutes/total*100, 100-g.TopPercent)
	} else {
		g.HeightPercent = float64(visibleDuration) / total * 100
	}
	g.LeftPercent = float64(s.PositionIndex) / float64(count) * 100
	g.WidthPercent = 100 / float64(count)
	return g
}
