// Package drag implements direct manipulation of events on the time grid.
//
// A gesture is an explicit Session value: pointer-down begins it, every
// pointer move updates its provisional times and pointer-up commits it.
// Sessions never mutate the event they were started from.
package drag

import (
	"errors"
	"math"
	"sync"

	"github.com/javiermolinar/eventide/internal/event"
)

// Drag errors.
var (
	ErrNotResizable  = errors.New("reminders cannot be resized")
	ErrMultiDay      = errors.New("multi-day events cannot be dragged on the time grid")
	ErrInvalidEvent  = errors.New("event times cannot be parsed")
	ErrInvalidResult = errors.New("drag produced an invalid time range")
	ErrAlreadyActive = errors.New("event is already being dragged")
	ErrNotActive     = errors.New("drag session is not active")
	ErrInvalidScale  = errors.New("grid pixel height must be positive")
)

// Mode is the state of a drag session.
type Mode int

const (
	Idle Mode = iota
	Moving
	ResizingTop
	ResizingBottom
)

func (m Mode) String() string {
	switch m {
	case Moving:
		return "moving"
	case ResizingTop:
		return "resizing-top"
	case ResizingBottom:
		return "resizing-bottom"
	default:
		return "idle"
	}
}

// Handle is the part of a block the pointer went down on.
type Handle int

const (
	HandleMiddle Handle = iota
	HandleTop
	HandleBottom
)

// Mode returns the session mode a handle starts.
func (h Handle) Mode() Mode {
	switch h {
	case HandleTop:
		return ResizingTop
	case HandleBottom:
		return ResizingBottom
	default:
		return Moving
	}
}

// HandleAt classifies a pointer offset within a block of the given height.
// The top and bottom edge zones are edge units tall. Reminders only move.
func HandleAt(offset, height, edge float64, reminder bool) Handle {
	if reminder || height <= 2*edge {
		return HandleMiddle
	}
	switch {
	case offset < edge:
		return HandleTop
	case offset >= height-edge:
		return HandleBottom
	default:
		return HandleMiddle
	}
}

// Scale relates pointer units to minutes: PixelHeight units cover Minutes.
type Scale struct {
	Minutes     int
	PixelHeight float64
}

// MinutesPerPixel returns the conversion ratio.
func (s Scale) MinutesPerPixel() float64 {
	return float64(s.Minutes) / s.PixelHeight
}

// Controller starts drag sessions and keeps one gesture per event.
type Controller struct {
	mu     sync.Mutex
	window event.Window
	scale  Scale
	active map[int64]*Session
}

// NewController creates a controller for a grid window drawn at scale.
func NewController(w event.Window, scale Scale) *Controller {
	return &Controller{
		window: w,
		scale:  scale,
		active: make(map[int64]*Session),
	}
}

// SetScale updates the pixel scale used by sessions started afterwards.
func (c *Controller) SetScale(scale Scale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = scale
}

// Window returns the grid window.
func (c *Controller) Window() event.Window {
	return c.window
}

// Active returns the in-progress session for an event.
func (c *Controller) Active(id int64) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.active[id]
	return s, ok
}

// Begin starts a gesture on e at pointer position originY.
// Locked events are rejected with event.ErrLocked before any state changes.
func (c *Controller) Begin(e *event.Event, h Handle, originY float64) (*Session, error) {
	if e.Locked {
		return nil, event.ErrLocked
	}
	if e.IsMultiDay() {
		return nil, ErrMultiDay
	}
	mode := h.Mode()
	if e.IsReminder() && mode != Moving {
		return nil, ErrNotResizable
	}
	start, end, err := e.Minutes()
	if err != nil || end <= start {
		return nil, ErrInvalidEvent
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scale.PixelHeight <= 0 {
		return nil, ErrInvalidScale
	}
	if _, busy := c.active[e.ID]; busy {
		return nil, ErrAlreadyActive
	}

	s := &Session{
		mode:      mode,
		original:  e.Clone(),
		window:    c.window,
		ratio:     c.scale.MinutesPerPixel(),
		originY:   originY,
		origStart: start,
		origEnd:   end,
		start:     start,
		end:       end,
		release: func(s *Session) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.active[e.ID] == s {
				delete(c.active, e.ID)
			}
		},
	}
	c.active[e.ID] = s
	return s, nil
}

// Session is one drag gesture on one event.
type Session struct {
	mode     Mode
	original *event.Event
	window   event.Window
	ratio    float64 // minutes per pointer unit
	originY  float64

	origStart, origEnd int
	start, end         int // provisional
	invalid            bool

	release func(*Session)
}

// Mode returns the current state; Idle once the session is committed.
func (s *Session) Mode() Mode {
	return s.mode
}

// Original returns the event as it was when the gesture began.
func (s *Session) Original() *event.Event {
	return s.original
}

// Provisional returns the current uncommitted start and end minutes.
func (s *Session) Provisional() (start, end int) {
	return s.start, s.end
}

// Preview returns a copy of the event carrying the provisional times, for
// live feedback through the layout engine.
func (s *Session) Preview() *event.Event {
	p := s.original.Clone()
	if !s.invalid {
		p.Start = event.FormatMinutes(s.start)
		p.End = event.FormatMinutes(s.end)
	}
	return p
}

// Update applies a pointer move to y. Moves are applied in delivery order
// and only the last one matters at commit.
func (s *Session) Update(y float64) {
	if s.mode == Idle {
		return
	}
	raw := (y - s.originY) * s.ratio
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		s.invalid = true
		s.start, s.end = s.origStart, s.origEnd
		return
	}
	s.invalid = false

	w := s.window
	step := max(1, w.Interval)
	// The dragged edge lands on the grid even when the event started off it.
	snap := func(edge int) int {
		return event.SnapToInterval(int(math.Round(float64(edge)+raw)), step)
	}

	switch s.mode {
	case Moving:
		duration := s.origEnd - s.origStart
		if duration > w.Minutes() {
			s.start, s.end = s.origStart, s.origEnd
			return
		}
		start := max(w.Start, min(snap(s.origStart), w.End-duration))
		s.start, s.end = start, start+duration
	case ResizingTop:
		start := max(snap(s.origStart), w.Start)
		s.start = min(start, s.origEnd-step)
		s.end = s.origEnd
	case ResizingBottom:
		end := min(snap(s.origEnd), w.End)
		s.start = s.origStart
		s.end = max(end, s.origStart+step)
	}
	s.start = max(0, min(s.start, event.MinutesPerDay))
	s.end = max(0, min(s.end, event.MinutesPerDay))
}

// Result is the outcome of a committed gesture.
type Result struct {
	Event   *event.Event // copy with the committed times
	Changed bool
}

// Commit ends the gesture. On an invalid final state the provisional times
// are reset to the original ones and ErrInvalidResult is returned.
func (s *Session) Commit() (Result, error) {
	if s.mode == Idle {
		return Result{}, ErrNotActive
	}
	s.mode = Idle
	if s.release != nil {
		s.release(s)
	}

	if s.invalid || s.end <= s.start {
		s.start, s.end = s.origStart, s.origEnd
		s.invalid = false
		return Result{}, ErrInvalidResult
	}

	e := s.original.Clone()
	e.Start = event.FormatMinutes(s.start)
	e.End = event.FormatMinutes(s.end)
	return Result{
		Event:   e,
		Changed: s.start != s.origStart || s.end != s.origEnd,
	}, nil
}
