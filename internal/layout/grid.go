package layout

import (
	"github.com/javiermolinar/eventide/internal/event"
)

// Default pixel metrics of the grid view.
const (
	DefaultSmallEventPx = 78
	DefaultBandHeightPx = 23
)

// Config describes how a grid is drawn.
type Config struct {
	Window       event.Window
	Axis         Axis    // zero value means AxisFor(Window)
	PixelHeight  float64 // rendered height of a day column, 0 disables small-event detection
	SmallEventPx float64 // blocks shorter than this go to the side panel
	BandHeightPx float64 // height of one multi-day band row
}

// Block is a positioned single-day event.
type Block struct {
	Slot
	Geometry
	Small bool // rendered too short to show its details inline
}

// HeightPx returns the rendered block height for a column of pixelHeight.
func (b Block) HeightPx(pixelHeight float64) float64 {
	return b.HeightPercent / 100 * pixelHeight
}

// Column holds the blocks of one displayed date.
type Column struct {
	Date   string
	Blocks []Block
}

// Grid is the full layout of a set of displayed dates.
type Grid struct {
	Dates      []string
	Window     event.Window
	Axis       Axis
	HourLabels []string
	Columns    []Column
	Bands      []Band
	BandsPx    float64        // total height of the band area
	SidePanel  []*event.Event // small events, in column then lane order
}

// Build lays out events over the displayed dates. dates must be sorted.
func Build(events []*event.Event, dates []string, cfg Config, log event.Logger) Grid {
	axis := cfg.Axis
	if axis.Minutes() <= 0 {
		axis = AxisFor(cfg.Window)
	}
	smallPx := cfg.SmallEventPx
	if smallPx <= 0 {
		smallPx = DefaultSmallEventPx
	}
	bandPx := cfg.BandHeightPx
	if bandPx <= 0 {
		bandPx = DefaultBandHeightPx
	}

	g := Grid{
		Dates:      dates,
		Window:     cfg.Window,
		Axis:       axis,
		HourLabels: axis.HourLabels(),
		Columns:    make([]Column, 0, len(dates)),
	}

	for _, date := range dates {
		col := Column{Date: date}
		for _, s := range ResolveDay(events, date, log) {
			geo := Project(s, cfg.Window, axis)
			if !geo.Visible {
				continue
			}
			b := Block{Slot: s, Geometry: geo}
			if cfg.PixelHeight > 0 && b.HeightPx(cfg.PixelHeight) < smallPx {
				b.Small = true
				g.SidePanel = append(g.SidePanel, s.Event)
			}
			col.Blocks = append(col.Blocks, b)
		}
		g.Columns = append(g.Columns, col)
	}

	g.Bands = Bands(events, dates)
	g.BandsPx = float64(len(g.Bands)) * bandPx
	return g
}

// Find returns the block of the event with the given ID.
func (g Grid) Find(id int64) (Block, bool) {
	for _, c := range g.Columns {
		for _, b := range c.Blocks {
			if b.Event.ID == id {
				return b, true
			}
		}
	}
	return Block{}, false
}

// BlockAt returns the topmost block under a point of column col, where y
// is a percentage of the column height and x a percentage of its width.
func (g Grid) BlockAt(col int, x, y float64) (Block, bool) {
	if col < 0 || col >= len(g.Columns) {
		return Block{}, false
	}
	blocks := g.Columns[col].Blocks
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if y >= b.TopPercent && y < b.TopPercent+b.HeightPercent &&
			x >= b.LeftPercent && x < b.LeftPercent+b.WidthPercent {
			return b, true
		}
	}
	return Block{}, false
}
