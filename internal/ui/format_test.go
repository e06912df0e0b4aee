package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/eventide/internal/event"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{15, "15m"},
		{60, "1h"},
		{90, "1h30m"},
		{600, "10h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		endDate    string
		want       int
	}{
		{name: "same day", start: "9:00 AM", end: "10:30 AM", want: 90},
		{name: "until midnight", start: "11:00 PM", end: "12:00 AM", want: 60},
		{name: "multi-day", start: "9:00 AM", end: "9:00 AM", endDate: "2025-03-11", want: 24 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endDate := tt.endDate
			if endDate == "" {
				endDate = day
			}
			e := &event.Event{StartDate: day, EndDate: endDate, Start: tt.start, End: tt.end}
			if got := DurationMinutes(e); got != tt.want {
				t.Errorf("DurationMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "42", want: 42},
		{in: "#7", want: 7},
		{in: " 3 ", want: 3},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.Local) // Monday
	tests := []struct {
		in   string
		want string
	}{
		{"", "2025-03-10"},
		{"today", "2025-03-10"},
		{"tomorrow", "2025-03-11"},
		{"2025-12-24", "2025-12-24"},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in, now)
		if err != nil {
			t.Errorf("parseDate(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := parseDate("someday", now); err == nil {
		t.Error("parseDate accepted an unknown date")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("a busy morning with three overlapping meetings", 16)
	want := []string{"a busy morning", "with three", "overlapping", "meetings"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrap() = %q, want %q", got, want)
	}
	if wrap("   ", 10) != nil {
		t.Error("wrap of blank text should be nil")
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"日本語", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTimeSpan(t *testing.T) {
	single := &event.Event{StartDate: day, EndDate: day, Start: "9:00 AM", End: "10:00 AM"}
	if got := timeSpan(single, false); got != " 9:00 AM-10:00 AM" {
		t.Errorf("timeSpan(single) = %q", got)
	}
	if got := timeSpan(single, true); !strings.HasPrefix(got, day+" ") {
		t.Errorf("timeSpan(single, withDate) = %q", got)
	}
	multi := &event.Event{StartDate: day, EndDate: "2025-03-12", Start: "9:00 AM", End: "5:00 PM"}
	if got := timeSpan(multi, false); got != "2025-03-10 9:00 AM → 2025-03-12 5:00 PM" {
		t.Errorf("timeSpan(multi) = %q", got)
	}
}

func TestWriteCells(t *testing.T) {
	cells := strings.Split("..........", "")
	writeCells(cells, 2, 5, "Standup")
	if got := strings.Join(cells, ""); got != "..Stan…..." {
		t.Errorf("writeCells() = %q", got)
	}

	cells = strings.Split("......", "")
	writeCells(cells, 0, 4, "日本語")
	if got := strings.Join(cells, ""); got != "日…..." {
		t.Errorf("writeCells(wide) = %q", got)
	}
}
