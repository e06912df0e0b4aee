package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/drag"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
	"github.com/javiermolinar/eventide/internal/logging"
	"github.com/javiermolinar/eventide/internal/schedule"
	"github.com/javiermolinar/eventide/internal/tui/commands"
	"github.com/javiermolinar/eventide/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeDrag         // a mouse gesture is in progress
	ModePrompt       // typing the title of a new event
	ModePreview      // reviewing an optimization
	ModeSummary      // reading a summary
)

// newEventMinutes is the duration of events added from the grid.
const newEventMinutes = 30

// statusDuration is how long a status message stays visible.
const statusDuration = 3 * time.Second

// Model is the main TUI model.
type Model struct {
	// Dependencies
	sched      *schedule.Schedule
	config     *config.Config
	optimizer  schedule.Optimizer
	summarizer commands.Summarizer
	log        *logging.Logger
	now        func() time.Time

	styles *Styles
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	// Displayed dates
	viewMode dateutil.ViewMode
	anchor   string
	custom   []string
	dates    []string
	loading  bool

	// Selection: focused column and selected event
	column   int
	selected int64

	mode       Mode
	session    *drag.Session
	dragOrigin float64
	preview    *schedule.Preview
	mask       event.Mask
	summary    string

	width  int
	height int

	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithOptimizer enables the optimization preview.
func WithOptimizer(opt schedule.Optimizer) ModelOption {
	return func(m *Model) { m.optimizer = opt }
}

// WithSummarizer enables schedule summaries.
func WithSummarizer(sum commands.Summarizer) ModelOption {
	return func(m *Model) { m.summarizer = sum }
}

// WithLogger sets the logger. The TUI owns the terminal, so it should
// write to a file.
func WithLogger(log *logging.Logger) ModelOption {
	return func(m *Model) { m.log = log }
}

// WithClock overrides the current time.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// WithAnchor sets the first displayed date.
func WithAnchor(date string) ModelOption {
	return func(m *Model) { m.anchor = date }
}

// New creates a new TUI model over repo.
func New(repo event.Repository, cfg *config.Config, opts ...ModelOption) (*Model, error) {
	lc, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	mode, err := dateutil.ParseViewMode(cfg.View.Mode)
	if err != nil {
		return nil, err
	}

	t, err := theme.Resolve(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}

	// Small blocks are those under two rows; the pixel height follows the
	// terminal size.
	lc.SmallEventPx = 2
	lc.PixelHeight = 0

	prompt := textinput.New()
	prompt.Placeholder = event.DefaultTitle
	prompt.CharLimit = 120
	prompt.Prompt = "New event: "

	m := &Model{
		config:   cfg,
		styles:   NewStyles(t),
		keys:     newKeyMap(),
		help:     help.New(),
		prompt:   prompt,
		viewMode: mode,
		mask:     event.Mask{event.FieldTimes: true},
		log:      logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sched = schedule.New(repo, lc, m.log.WithComponent("tui"))
	if m.anchor == "" {
		m.anchor = dateutil.Format(m.now())
	}
	m.prompt.PromptStyle = m.styles.PromptStyle
	m.prompt.TextStyle = m.styles.PromptStyle

	if m.dates, err = m.displayDates(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init loads the displayed dates.
func (m Model) Init() tea.Cmd {
	return commands.Load(m.sched, m.dates)
}

// Run starts the TUI.
func Run(repo event.Repository, cfg *config.Config, opts ...ModelOption) error {
	model, err := New(repo, cfg, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// displayDates builds the date list of the current view mode around the anchor.
func (m *Model) displayDates() ([]string, error) {
	switch m.viewMode {
	case dateutil.ViewRange:
		end, err := dateutil.AddDays(m.anchor, dateutil.MaxRangeDays-1)
		if err != nil {
			return nil, err
		}
		return dateutil.DisplayDates(m.viewMode, m.anchor, end, nil)
	case dateutil.ViewCustom:
		if len(m.custom) == 0 {
			return []string{m.anchor}, nil
		}
		return dateutil.DisplayDates(m.viewMode, m.anchor, "", m.custom)
	default:
		return dateutil.DisplayDates(m.viewMode, m.anchor, "", nil)
	}
}

// reload recomputes the displayed dates and fetches their events.
func (m Model) reload() (Model, tea.Cmd) {
	dates, err := m.displayDates()
	if err != nil {
		return m.withError(err), nil
	}
	m.dates = dates
	m.column = min(m.column, len(dates)-1)
	m.loading = true
	return m, commands.Load(m.sched, dates)
}

// grid returns the layout to draw: the proposed schedule while previewing,
// the drag preview during a gesture, the loaded set otherwise.
func (m Model) grid() layout.Grid {
	switch {
	case m.mode == ModePreview && m.preview != nil:
		return m.preview.Proposed
	case m.session != nil:
		return m.sched.LayoutWith(m.session.Preview())
	default:
		return m.sched.Layout()
	}
}

func (m Model) frame(g layout.Grid) frame {
	return newFrame(m.width, m.height, g)
}

// resize propagates the grid body height to the schedule so drags and
// small-block detection use rows as their unit.
func (m Model) resize() {
	f := m.frame(m.sched.Layout())
	m.sched.SetDragScale(float64(f.rows))
}

func (m Model) withStatus(msg string) Model {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = m.now().Add(statusDuration)
	return m
}

func (m Model) withError(err error) Model {
	m.log.Warnw("TUI action failed", "error", err)
	m.statusMsg = fmt.Sprintf("Error: %v", err)
	m.statusErr = true
	m.statusTime = m.now().Add(statusDuration + 2*time.Second)
	return m
}

// selectedEvent returns the selected loaded event.
func (m Model) selectedEvent() (*event.Event, bool) {
	if m.selected == 0 {
		return nil, false
	}
	return m.sched.Get(m.selected)
}
