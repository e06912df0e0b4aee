package api

import (
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
)

type messageResponse struct {
	Message string `json:"message"`
}

type scheduleResponse struct {
	Schedule []*event.Event `json:"schedule"`
}

type createResponse struct {
	Message   string       `json:"message"`
	ID        int64        `json:"id"`
	EventInfo *event.Event `json:"eventInfo"`
}

// eventFields is the editable shape of an event. Pointers distinguish
// absent keys from empty values.
type eventFields struct {
	Title       *string `json:"title" validate:"required"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	Start       string  `json:"start" validate:"required"`
	End         string  `json:"end" validate:"required"`
	Locked      *bool   `json:"locked"`
	Type        string  `json:"type" validate:"omitempty,oneof=event reminder"`
	Urgency     string  `json:"urgency" validate:"omitempty,oneof=trivial ongoing attention-needed important critical"`
}

// eventRequest accepts the fields flat or wrapped in "eventInfo".
type eventRequest struct {
	eventFields
	EventInfo *eventFields `json:"eventInfo"`
}

func (r *eventRequest) fields() *eventFields {
	if r.EventInfo != nil {
		return r.EventInfo
	}
	return &r.eventFields
}

func (f *eventFields) toEvent(id int64) *event.Event {
	e := &event.Event{
		ID:          id,
		Description: f.Description,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		Start:       f.Start,
		End:         f.End,
		Type:        event.Type(f.Type),
		Urgency:     event.Urgency(f.Urgency),
	}
	if f.Title != nil {
		e.Title = *f.Title
	}
	if f.Locked != nil {
		e.Locked = *f.Locked
	}
	return e
}

type optimizeRequest struct {
	Schedule             []*event.Event `json:"schedule"`
	AllowedModifications []string       `json:"allowed_modifications"`
}

type summarizeRequest struct {
	Schedule []*event.Event `json:"schedule"`
}

type summaryResponse struct {
	Message string `json:"message,omitempty"`
	Summary string `json:"summary"`
}

type windowJSON struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Interval int    `json:"interval"`
}

type blockJSON struct {
	Event         *event.Event `json:"event"`
	OverlapCount  int          `json:"overlapCount"`
	PositionIndex int          `json:"positionIndex"`
	Top           float64      `json:"top"`
	Height        float64      `json:"height"`
	Left          float64      `json:"left"`
	Width         float64      `json:"width"`
	ClipTop       bool         `json:"clipTop"`
	ClipBottom    bool         `json:"clipBottom"`
	Small         bool         `json:"small"`
}

type columnJSON struct {
	Date   string      `json:"date"`
	Blocks []blockJSON `json:"blocks"`
}

type bandJSON struct {
	Event       *event.Event `json:"event"`
	Index       int          `json:"index"`
	StartColumn int          `json:"startColumn"`
	EndColumn   int          `json:"endColumn"`
	Left        float64      `json:"left"`
	Width       float64      `json:"width"`
}

type layoutResponse struct {
	Dates      []string     `json:"dates"`
	Window     windowJSON   `json:"window"`
	HourLabels []string     `json:"hourLabels"`
	Columns    []columnJSON `json:"columns"`
	Bands      []bandJSON   `json:"bands"`
	BandsPx    float64      `json:"bandsPx"`
	SidePanel  []int64      `json:"sidePanel"`
}

func newLayoutResponse(g layout.Grid) layoutResponse {
	resp := layoutResponse{
		Dates: g.Dates,
		Window: windowJSON{
			Start:    event.FormatMinutes(g.Window.Start),
			End:      event.FormatMinutes(g.Window.End),
			Interval: g.Window.Interval,
		},
		HourLabels: g.HourLabels,
		Columns:    make([]columnJSON, 0, len(g.Columns)),
		Bands:      make([]bandJSON, 0, len(g.Bands)),
		BandsPx:    g.BandsPx,
		SidePanel:  make([]int64, 0, len(g.SidePanel)),
	}
	for _, c := range g.Columns {
		col := columnJSON{Date: c.Date, Blocks: make([]blockJSON, 0, len(c.Blocks))}
		for _, b := range c.Blocks {
			col.Blocks = append(col.Blocks, blockJSON{
				Event:         b.Event,
				OverlapCount:  b.OverlapCount,
				PositionIndex: b.PositionIndex,
				Top:           b.TopPercent,
				Height:        b.HeightPercent,
				Left:          b.LeftPercent,
				Width:         b.WidthPercent,
				ClipTop:       b.ClipTop,
				ClipBottom:    b.ClipBottom,
				Small:         b.Small,
			})
		}
		resp.Columns = append(resp.Columns, col)
	}
	for _, b := range g.Bands {
		resp.Bands = append(resp.Bands, bandJSON{
			Event:       b.Event,
			Index:       b.Index,
			StartColumn: b.StartColumn,
			EndColumn:   b.EndColumn,
			Left:        b.LeftPercent,
			Width:       b.WidthPercent,
		})
	}
	for _, e := range g.SidePanel {
		resp.SidePanel = append(resp.SidePanel, e.ID)
	}
	return resp
}
