// Package event defines the core domain types for eventide.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTitle is used when an event is saved without a title.
const DefaultTitle = "Untitled Event"

// DateLayout is the calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// Validation errors.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTimeFormat = errors.New("time must be in H:MM or H:MM AM/PM format")
	ErrEndBeforeStart    = errors.New("end must be after start")
	ErrInvalidType       = errors.New("type must be 'event' or 'reminder'")
	ErrInvalidUrgency    = errors.New("urgency must be one of trivial, ongoing, attention-needed, important, critical")
)

// Domain errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrLocked        = errors.New("event is locked")
)

// Type distinguishes regular events from reminders.
type Type string

const (
	TypeEvent    Type = "event"
	TypeReminder Type = "reminder"
)

// Valid returns true if the type is a known value.
func (t Type) Valid() bool {
	return t == TypeEvent || t == TypeReminder
}

// Urgency is an ordered badge level. It has no scheduling effect.
type Urgency string

const (
	UrgencyTrivial         Urgency = "trivial"
	UrgencyOngoing         Urgency = "ongoing"
	UrgencyAttentionNeeded Urgency = "attention-needed"
	UrgencyImportant       Urgency = "important"
	UrgencyCritical        Urgency = "critical"
)

// Urgencies lists every urgency from least to most urgent.
var Urgencies = []Urgency{
	UrgencyTrivial,
	UrgencyOngoing,
	UrgencyAttentionNeeded,
	UrgencyImportant,
	UrgencyCritical,
}

// Rank returns the position of u in Urgencies, or -1 if u is unknown.
func (u Urgency) Rank() int {
	for i, v := range Urgencies {
		if v == u {
			return i
		}
	}
	return -1
}

// Valid returns true if the urgency is a known value.
func (u Urgency) Valid() bool {
	return u.Rank() >= 0
}

// Color returns the badge color name for the urgency.
func (u Urgency) Color() string {
	switch u {
	case UrgencyOngoing:
		return "blue"
	case UrgencyAttentionNeeded:
		return "orange"
	case UrgencyImportant:
		return "red"
	case UrgencyCritical:
		return "purple"
	default:
		return "black"
	}
}

// Event is a calendar entry. Times are wall-clock strings in "H:MM AM/PM" form.
type Event struct {
	ID          int64   `json:"id,omitempty"`
	StartDate   string  `json:"startDate"` // "YYYY-MM-DD"
	EndDate     string  `json:"endDate"`   // "YYYY-MM-DD"
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Start       string  `json:"start"` // "H:MM AM/PM"
	End         string  `json:"end"`   // "H:MM AM/PM"
	Locked      bool    `json:"locked"`
	Type        Type    `json:"type"`
	Urgency     Urgency `json:"urgency"`
}

// New creates a new Event with validation and defaults applied.
// startDate and endDate must be in YYYY-MM-DD format; an empty endDate
// means a single-day event. start and end accept any form ParseTimeOfDay
// accepts and are stored normalized.
func New(title, startDate, endDate, start, end string) (*Event, error) {
	if endDate == "" {
		endDate = startDate
	}
	e := &Event{
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
		Start:     start,
		End:       end,
	}
	if err := e.Normalize(); err != nil {
		return nil, err
	}
	return e, nil
}

// ApplyDefaults fills the optional fields that are empty.
func (e *Event) ApplyDefaults() {
	if strings.TrimSpace(e.Title) == "" {
		e.Title = DefaultTitle
	}
	if e.Type == "" {
		e.Type = TypeEvent
	}
	if e.Urgency == "" {
		e.Urgency = UrgencyTrivial
	}
}

// Normalize applies defaults, validates the event and rewrites its times
// in canonical "H:MM AM/PM" form.
func (e *Event) Normalize() error {
	e.ApplyDefaults()
	if err := e.Validate(); err != nil {
		return err
	}
	start, _ := ParseTimeOfDay(e.Start)
	end, _ := ParseTimeOfDay(e.End)
	e.Start = FormatMinutes(start)
	e.End = FormatMinutes(end)
	return nil
}

// Validate checks the required fields and the date and time ordering.
func (e *Event) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"startDate", e.StartDate},
		{"endDate", e.EndDate},
		{"start", e.Start},
		{"end", e.End},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	startDate, err := time.Parse(DateLayout, e.StartDate)
	if err != nil {
		return fmt.Errorf("startDate: %w", ErrInvalidDate)
	}
	endDate, err := time.Parse(DateLayout, e.EndDate)
	if err != nil {
		return fmt.Errorf("endDate: %w", ErrInvalidDate)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("endDate: %w", ErrEndBeforeStart)
	}

	start, end, err := e.Minutes()
	if err != nil {
		return err
	}
	if e.StartDate == e.EndDate && end <= start {
		return ErrEndBeforeStart
	}

	if e.Type != "" && !e.Type.Valid() {
		return ErrInvalidType
	}
	if e.Urgency != "" && !e.Urgency.Valid() {
		return ErrInvalidUrgency
	}
	return nil
}

// Minutes returns start and end as minutes since midnight. On a single-day
// event an end of "12:00 AM" after a later start is the end of the day.
func (e *Event) Minutes() (start, end int, err error) {
	start, err = ParseTimeOfDay(e.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}
	end, err = ParseTimeOfDay(e.End)
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	if end == 0 && start > 0 && !e.IsMultiDay() {
		end = MinutesPerDay
	}
	return start, end, nil
}

// IsMultiDay returns true if the event spans more than one calendar date.
func (e *Event) IsMultiDay() bool {
	return e.StartDate != e.EndDate
}

// IsReminder returns true for reminder entries.
func (e *Event) IsReminder() bool {
	return e.Type == TypeReminder
}

// OccursOn returns true if date falls within [StartDate, EndDate].
// Dates compare lexically because of their fixed-width format.
func (e *Event) OccursOn(date string) bool {
	return e.StartDate <= date && date <= e.EndDate
}

// Intersects returns true if the event touches any date in [from, to].
func (e *Event) Intersects(from, to string) bool {
	return e.StartDate <= to && e.EndDate >= from
}

// Clone returns a copy of the event.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// StartTime returns the event start as a local time.Time.
func (e *Event) StartTime(loc *time.Location) (time.Time, error) {
	return dateTime(e.StartDate, e.Start, loc)
}

// EndTime returns the event end as a local time.Time.
func (e *Event) EndTime(loc *time.Location) (time.Time, error) {
	return dateTime(e.EndDate, e.End, loc)
}

func dateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	m, err := ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(m) * time.Minute), nil
}

// Equal reports whether two events carry the same persisted fields.
func (e *Event) Equal(o *Event) bool {
	if e == nil || o == nil {
		return e == o
	}
	return *e == *o
}
