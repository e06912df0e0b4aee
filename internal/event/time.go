package event

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of the wall-clock day.
const MinutesPerDay = 24 * 60

// DefaultInterval is the snapping granularity used when none is configured.
const DefaultInterval = 15

// ErrInvalidWindow is returned when a grid window does not start before it ends.
var ErrInvalidWindow = errors.New("grid start must be before grid end")

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])?$`)

// ParseTimeOfDay converts "H:MM" or "H:MM AM/PM" to minutes since midnight.
// Without a meridiem the hour is read on a 24-hour clock and "24:00" is
// accepted as the end of the day. With a meridiem 12 AM is midnight and
// 12 PM is noon.
func ParseTimeOfDay(s string) (int, error) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if m[3] == "" {
		if hour > 24 || (hour == 24 && minute != 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		return hour*60 + minute, nil
	}

	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	pm := strings.EqualFold(m[3], "PM")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return hour*60 + minute, nil
}

// FormatMinutes converts minutes since midnight to "H:MM AM/PM".
// Values are clamped to [0, 1440]; 1440 formats as "12:00 AM".
func FormatMinutes(minutes int) string {
	minutes = max(0, min(minutes, MinutesPerDay))
	hour := minutes / 60
	period := "PM"
	if hour < 12 || hour == 24 {
		period = "AM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minutes%60, period)
}

// FormatHour returns the "H:00 AM/PM" label for an hour of the day.
func FormatHour(hour int) string {
	return FormatMinutes(hour * 60)
}

// SnapToInterval rounds minutes to the nearest multiple of interval,
// rounding halves up. A non-positive interval returns minutes unchanged.
func SnapToInterval(minutes, interval int) int {
	if interval <= 0 {
		return minutes
	}
	return floorDiv(2*minutes+interval, 2*interval) * interval
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MinutesOr parses s and falls back to midnight when it is malformed.
// The failure is reported to log.
func MinutesOr(s string, log Logger) int {
	m, err := ParseTimeOfDay(s)
	if err != nil {
		if log != nil {
			log.Warnw("invalid time of day, using midnight", "value", s, "error", err)
		}
		return 0
	}
	return m
}

// Window is the interactive time range of a day grid, in minutes since midnight.
type Window struct {
	Start    int
	End      int
	Interval int // snapping granularity in minutes
}

// NewWindow builds a Window from two time-of-day strings.
// A non-positive interval falls back to DefaultInterval.
func NewWindow(start, end string, interval int) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, fmt.Errorf("grid start: %w", err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, fmt.Errorf("grid end: %w", err)
	}
	// "12:00 AM" as a window end means the end of the day.
	if e == 0 && s > 0 {
		e = MinutesPerDay
	}
	if s >= e {
		return Window{}, ErrInvalidWindow
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Window{Start: s, End: e, Interval: interval}, nil
}

// Minutes returns the length of the window.
func (w Window) Minutes() int {
	return w.End - w.Start
}

// Clamp limits m to the window bounds.
func (w Window) Clamp(m int) int {
	return max(w.Start, min(m, w.End))
}

// String returns the window as "start - end".
func (w Window) String() string {
	return FormatMinutes(w.Start) + " - " + FormatMinutes(w.End)
}
