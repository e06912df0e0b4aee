// Package dateutil provides date parsing and the displayed-date lists of the grid views.
package dateutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Layout is the ISO calendar date format.
const Layout = "2006-01-02"

// MaxRangeDays is the longest range the range view will display.
const MaxRangeDays = 14

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrRangeTooLong       = fmt.Errorf("range cannot exceed %d days", MaxRangeDays)
	ErrNoDates            = errors.New("at least one date must be displayed")
	ErrInvalidViewMode    = errors.New("view mode must be single, week, range or custom")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange represents a validated date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate can be empty (defaults to today) or in YYYY-MM-DD format.
// endDate can be empty (defaults to startDate) or in YYYY-MM-DD format.
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseDate(endDate)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// Days returns the number of days in the range, inclusive.
func (r *DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Dates returns every date of the range as YYYY-MM-DD strings.
func (r *DateRange) Dates() []string {
	var out []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, Format(d))
	}
	return out
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// Format returns t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the current date as YYYY-MM-DD.
func Today() string {
	return Format(time.Now())
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return "", ErrInvalidDateFormat
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive.
// Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	if strings.HasPrefix(input, "next-") {
		weekdayName := strings.TrimPrefix(input, "next-")
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	result, err := time.Parse(Layout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// ViewMode selects which dates a grid displays.
type ViewMode string

const (
	ViewSingle ViewMode = "single"
	ViewWeek   ViewMode = "week"
	ViewRange  ViewMode = "range"
	ViewCustom ViewMode = "custom"
)

// ViewModes lists the modes in the order the TUI cycles through them.
var ViewModes = []ViewMode{ViewSingle, ViewWeek, ViewRange, ViewCustom}

// ParseViewMode validates a view mode name. Empty means single.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ViewSingle, nil
	case ViewSingle, ViewWeek, ViewRange, ViewCustom:
		return m, nil
	default:
		return "", ErrInvalidViewMode
	}
}

// Next returns the mode after m in ViewModes.
func (m ViewMode) Next() ViewMode {
	for i, v := range ViewModes {
		if v == m {
			return ViewModes[(i+1)%len(ViewModes)]
		}
	}
	return ViewSingle
}

// WeekDates returns seven consecutive dates starting at anchor.
func WeekDates(anchor string) ([]string, error) {
	start, err := time.Parse(Layout, anchor)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	out := make([]string, 7)
	for i := range out {
		out[i] = Format(start.AddDate(0, 0, i))
	}
	return out, nil
}

// RangeDates returns every date from start to end inclusive.
// Ranges longer than MaxRangeDays are rejected.
func RangeDates(start, end string) ([]string, error) {
	if start == "" || end == "" {
		return nil, ErrInvalidDateFormat
	}
	r, err := NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if r.Days() > MaxRangeDays {
		return nil, ErrRangeTooLong
	}
	return r.Dates(), nil
}

// CustomDates validates, sorts and de-duplicates a hand-picked date list.
func CustomDates(dates []string) ([]string, error) {
	seen := make(map[string]bool, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if _, err := time.Parse(Layout, d); err != nil {
			return nil, ErrInvalidDateFormat
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, ErrNoDates
	}
	sort.Strings(out)
	return out, nil
}

// DisplayDates builds the date list for a view mode.
// anchor is the selected date; end is used by ViewRange; custom by ViewCustom.
func DisplayDates(mode ViewMode, anchor, end string, custom []string) ([]string, error) {
	switch mode {
	case ViewSingle, "":
		if _, err := time.Parse(Layout, anchor); err != nil {
			return nil, ErrInvalidDateFormat
		}
		return []string{anchor}, nil
	case ViewWeek:
		return WeekDates(anchor)
	case ViewRange:
		return RangeDates(anchor, end)
	case ViewCustom:
		return CustomDates(custom)
	default:
		return nil, ErrInvalidViewMode
	}
}

// MonthGrid returns the 6x7 calendar page for a month, weeks starting on Sunday.
// Leading and trailing cells belong to the neighbouring months.
func MonthGrid(year int, month time.Month) [6][7]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	var grid [6][7]time.Time
	for w := 0; w < 6; w++ {
		for d := 0; d < 7; d++ {
			grid[w][d] = start.AddDate(0, 0, w*7+d)
		}
	}
	return grid
}
