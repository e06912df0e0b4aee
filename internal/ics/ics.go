// Package ics converts events to and from iCalendar files.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/eventide/internal/event"
)

const (
	productID = "-//eventide//eventide//EN"
	uidPrefix = "eventide-"

	floatingLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
	dateLayout     = "20060102"
)

// Calendar extension properties carrying the fields iCalendar has no slot for.
const (
	PropertyUrgency = ical.ComponentProperty("X-EVENTIDE-URGENCY")
	PropertyLocked  = ical.ComponentProperty("X-EVENTIDE-LOCKED")
	PropertyType    = ical.ComponentProperty("X-EVENTIDE-TYPE")
)

// ErrEmptyCalendar is returned when a file holds no usable VEVENT.
var ErrEmptyCalendar = errors.New("calendar has no importable events")

// Export writes events as a VCALENDAR. Times are written as floating local
// times, the way they are stored.
func Export(w io.Writer, events []*event.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range events {
		start, err := e.StartTime(time.Local)
		if err != nil {
			return fmt.Errorf("event %d: %w", e.ID, err)
		}
		end, err := e.EndTime(time.Local)
		if err != nil {
			return fmt.Errorf("event %d: %w", e.ID, err)
		}

		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		ve := cal.AddEvent(uidPrefix + strconv.FormatInt(e.ID, 10))
		ve.SetDtStampTime(now)
		ve.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		ve.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(PropertyUrgency, string(e.Urgency))
		ve.SetProperty(PropertyType, string(e.Type))
		ve.SetProperty(PropertyLocked, strings.ToUpper(strconv.FormatBool(e.Locked)))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// Parse reads the VEVENTs of a calendar. Events that cannot be represented
// are skipped and logged.
func Parse(r io.Reader, log event.Logger) ([]*event.Event, error) {
	if log == nil {
		log = event.NopLogger()
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var out []*event.Event
	for _, ve := range cal.Events() {
		e, err := fromVEvent(ve)
		if err != nil {
			log.Warnw("Skipping calendar entry", "uid", ve.Id(), "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Import parses r and stores every event as a new one. It returns the
// created events.
func Import(ctx context.Context, repo event.Repository, r io.Reader, log event.Logger) ([]*event.Event, error) {
	events, err := Parse(r, log)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEmptyCalendar
	}
	for _, e := range events {
		if err := repo.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("creating %q: %w", e.Title, err)
		}
	}
	return events, nil
}

func fromVEvent(ve *ical.VEvent) (*event.Event, error) {
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return nil, errors.New("missing DTSTART")
	}
	start, allDay, err := parseTime(dtStart)
	if err != nil {
		return nil, fmt.Errorf("DTSTART: %w", err)
	}

	var end time.Time
	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if end, _, err = parseTime(dtEnd); err != nil {
			return nil, fmt.Errorf("DTEND: %w", err)
		}
	} else if allDay {
		end = start.AddDate(0, 0, 1)
	} else {
		end = start.Add(30 * time.Minute)
	}
	if !end.After(start) {
		return nil, event.ErrEndBeforeStart
	}

	e := &event.Event{
		Title:     text(ve, ical.ComponentPropertySummary),
		StartDate: start.Format(event.DateLayout),
		Start:     event.FormatMinutes(start.Hour()*60 + start.Minute()),
	}
	e.Description = text(ve, ical.ComponentPropertyDescription)

	// An end at midnight closes the previous day.
	endMin := end.Hour()*60 + end.Minute()
	if endMin == 0 {
		end = end.AddDate(0, 0, -1)
		endMin = event.MinutesPerDay
	}
	e.EndDate = end.Format(event.DateLayout)
	startMin := start.Hour()*60 + start.Minute()
	if endMin == event.MinutesPerDay && (e.EndDate != e.StartDate || startMin == 0) {
		endMin = event.MinutesPerDay - 1
	}
	e.End = event.FormatMinutes(endMin)

	if p := ve.GetProperty(PropertyUrgency); p != nil {
		if u := event.Urgency(strings.ToLower(p.Value)); u.Valid() {
			e.Urgency = u
		}
	}
	if p := ve.GetProperty(PropertyType); p != nil {
		if t := event.Type(strings.ToLower(p.Value)); t.Valid() {
			e.Type = t
		}
	}
	if p := ve.GetProperty(PropertyLocked); p != nil {
		e.Locked = strings.EqualFold(p.Value, "TRUE")
	}

	if err := e.Normalize(); err != nil {
		return nil, err
	}
	return e, nil
}

// parseTime reads a DATE or DATE-TIME property in local time.
func parseTime(p *ical.IANAProperty) (t time.Time, allDay bool, err error) {
	v := strings.TrimSpace(p.Value)
	loc := time.Local
	if tz, ok := p.ICalParameters["TZID"]; ok && len(tz) > 0 {
		if loc, err = time.LoadLocation(tz[0]); err != nil {
			return time.Time{}, false, fmt.Errorf("unknown TZID %q", tz[0])
		}
	}

	switch {
	case strings.HasSuffix(v, "Z"):
		t, err = time.Parse(utcLayout, v)
	case strings.Contains(v, "T"):
		t, err = time.ParseInLocation(floatingLayout, v, loc)
	default:
		t, err = time.ParseInLocation(dateLayout, v, time.Local)
		allDay = true
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return t.In(time.Local), allDay, nil
}

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func text(ve *ical.VEvent, prop ical.ComponentProperty) string {
	p := ve.GetProperty(prop)
	if p == nil {
		return ""
	}
	return textUnescaper.Replace(p.Value)
}
