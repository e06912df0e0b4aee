package event

import (
	"fmt"
	"strings"
)

// Field is a group of event attributes an optimizer may be allowed to change.
type Field string

// Fields accepted in an optimization mask.
const (
	FieldTimes       Field = "times"
	FieldDates       Field = "dates"
	FieldLocked      Field = "locked"
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldUrgency     Field = "urgency"
)

// Fields lists every mask field in prompt order.
var Fields = []Field{FieldTimes, FieldDates, FieldLocked, FieldName, FieldDescription, FieldUrgency}

var fieldPhrases = map[Field]string{
	FieldTimes:       "start and end times",
	FieldDates:       "startDate and endDate",
	FieldLocked:      "locked status",
	FieldName:        "name",
	FieldDescription: "description",
	FieldUrgency:     "urgency",
}

// Mask is a set of fields an optimizer may modify.
type Mask map[Field]bool

// ParseMask builds a Mask from field names. Unknown names are an error.
func ParseMask(names []string) (Mask, error) {
	m := Mask{}
	for _, n := range names {
		f := Field(strings.ToLower(strings.TrimSpace(n)))
		if _, ok := fieldPhrases[f]; !ok {
			return nil, fmt.Errorf("unknown modification %q", n)
		}
		m[f] = true
	}
	return m, nil
}

// Allows reports whether f may be modified.
func (m Mask) Allows(f Field) bool {
	return m[f]
}

// Names returns the allowed field names in Fields order.
func (m Mask) Names() []string {
	var out []string
	for _, f := range Fields {
		if m[f] {
			out = append(out, string(f))
		}
	}
	return out
}

// Describe renders the mask as the sentence given to the optimizer.
func (m Mask) Describe() string {
	var parts []string
	for _, f := range Fields {
		if m[f] {
			parts = append(parts, fieldPhrases[f])
		}
	}
	if len(parts) == 0 {
		return "The user does not allow any modifications."
	}
	return "The user allows you to modify: " + strings.Join(parts, ", ") + "."
}

// Apply returns a copy of proposed where every field the mask does not
// allow is taken from original. A locked original is returned unchanged
// unless the mask allows the locked field.
func (m Mask) Apply(original, proposed *Event) *Event {
	out := original.Clone()
	if original.Locked && !m[FieldLocked] {
		return out
	}
	if m[FieldTimes] {
		out.Start, out.End = proposed.Start, proposed.End
	}
	if m[FieldDates] {
		out.StartDate, out.EndDate = proposed.StartDate, proposed.EndDate
	}
	if m[FieldLocked] {
		out.Locked = proposed.Locked
	}
	if m[FieldName] {
		out.Title = proposed.Title
	}
	if m[FieldDescription] {
		out.Description = proposed.Description
	}
	if m[FieldUrgency] {
		out.Urgency = proposed.Urgency
	}
	return out
}
