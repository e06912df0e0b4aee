package event

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "midnight", input: "12:00 AM", want: 0},
		{name: "noon", input: "12:00 PM", want: 720},
		{name: "9am", input: "9:00 AM", want: 540},
		{name: "padded hour", input: "09:30 AM", want: 570},
		{name: "lowercase meridiem", input: "5:15 pm", want: 1035},
		{name: "no space before meridiem", input: "11:59PM", want: 1439},
		{name: "24h clock", input: "17:45", want: 1065},
		{name: "24h midnight", input: "0:00", want: 0},
		{name: "end of day", input: "24:00", want: 1440},
		{name: "surrounding spaces", input: "  8:05 AM ", want: 485},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeOfDay_Errors(t *testing.T) {
	inputs := []string{
		"",
		"9",
		"9:0 AM",
		"9:60 AM",
		"13:00 PM",
		"0:30 AM",
		"25:00",
		"24:30",
		"123:00",
		"nine o'clock",
		"9:00 XM",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimeOfDay(in)
			if !errors.Is(err, ErrInvalidTimeFormat) {
				t.Errorf("ParseTimeOfDay(%q) error = %v, want %v", in, err, ErrInvalidTimeFormat)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "12:00 AM"},
		{5, "12:05 AM"},
		{540, "9:00 AM"},
		{719, "11:59 AM"},
		{720, "12:00 PM"},
		{765, "12:45 PM"},
		{1035, "5:15 PM"},
		{1439, "11:59 PM"},
		{1440, "12:00 AM"},
		{-30, "12:00 AM"},
		{2000, "12:00 AM"},
	}

	for _, tt := range tests {
		got := FormatMinutes(tt.input)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		got, err := ParseTimeOfDay(FormatMinutes(m))
		if err != nil {
			t.Fatalf("minute %d: unexpected error: %v", m, err)
		}
		if got != m {
			t.Fatalf("parse(format(%d)) = %d", m, got)
		}
	}
}

func TestParseFormatStable(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"09:05 am", "9:05 AM"},
		{"9:05AM", "9:05 AM"},
		{"13:30", "1:30 PM"},
		{"12:00 pm", "12:00 PM"},
	}

	for _, tt := range tests {
		m, err := ParseTimeOfDay(tt.input)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tt.input, err)
		}
		if got := FormatMinutes(m); got != tt.want {
			t.Errorf("FormatMinutes(ParseTimeOfDay(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSnapToInterval(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		interval int
		want     int
	}{
		{name: "exact", minutes: 30, interval: 15, want: 30},
		{name: "round down", minutes: 22, interval: 15, want: 15},
		{name: "round up", minutes: 23, interval: 15, want: 30},
		{name: "half rounds up", minutes: 15, interval: 30, want: 30},
		{name: "negative round toward zero", minutes: -22, interval: 15, want: -15},
		{name: "negative half rounds up", minutes: -15, interval: 30, want: 0},
		{name: "negative past half", minutes: -16, interval: 30, want: -30},
		{name: "zero interval", minutes: 22, interval: 0, want: 22},
		{name: "one minute interval", minutes: 22, interval: 1, want: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapToInterval(tt.minutes, tt.interval)
			if got != tt.want {
				t.Errorf("SnapToInterval(%d, %d) = %d, want %d", tt.minutes, tt.interval, got, tt.want)
			}
		})
	}
}

type recordingLogger struct {
	msgs []string
}

func (r *recordingLogger) Warnw(msg string, _ ...any) {
	r.msgs = append(r.msgs, msg)
}

func TestMinutesOr(t *testing.T) {
	log := &recordingLogger{}

	if got := MinutesOr("10:30 AM", log); got != 630 {
		t.Errorf("got %d, want 630", got)
	}
	if len(log.msgs) != 0 {
		t.Errorf("expected no warnings, got %v", log.msgs)
	}

	if got := MinutesOr("garbage", log); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if len(log.msgs) != 1 {
		t.Errorf("expected one warning, got %d", len(log.msgs))
	}
}

func TestNewWindow(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		w, err := NewWindow("8:00 AM", "6:00 PM", 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Start != 480 || w.End != 1080 || w.Interval != 30 {
			t.Errorf("got %+v", w)
		}
		if w.Minutes() != 600 {
			t.Errorf("got minutes %d, want 600", w.Minutes())
		}
	})

	t.Run("interval falls back", func(t *testing.T) {
		w, err := NewWindow("8:00 AM", "6:00 PM", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Interval != DefaultInterval {
			t.Errorf("got interval %d, want %d", w.Interval, DefaultInterval)
		}
	})

	t.Run("midnight end", func(t *testing.T) {
		w, err := NewWindow("6:00 AM", "12:00 AM", 15)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.End != MinutesPerDay {
			t.Errorf("got end %d, want %d", w.End, MinutesPerDay)
		}
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := NewWindow("6:00 PM", "8:00 AM", 15)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("got error %v, want %v", err, ErrInvalidWindow)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := NewWindow("soon", "8:00 AM", 15)
		if !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidTimeFormat)
		}
	})
}

func TestWindowClamp(t *testing.T) {
	w := Window{Start: 480, End: 1080, Interval: 15}
	if got := w.Clamp(100); got != 480 {
		t.Errorf("Clamp(100) = %d, want 480", got)
	}
	if got := w.Clamp(2000); got != 1080 {
		t.Errorf("Clamp(2000) = %d, want 1080", got)
	}
	if got := w.Clamp(600); got != 600 {
		t.Errorf("Clamp(600) = %d, want 600", got)
	}
}
