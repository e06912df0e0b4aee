package tui

import (
	"math"

	"github.com/javiermolinar/eventide/internal/layout"
)

const (
	timeColWidth  = 9 // "12:00 PM" plus a gap
	minColWidth   = 8
	sidePanelW    = 30
	sidePanelMinW = 90 // terminal width from which the side panel is shown
	headerLines   = 2  // title and day headers
	footerLines   = 2  // status and help
)

// frame maps the grid's percentage geometry onto terminal cells.
//
// Each day column is one separator cell followed by colW content cells.
// Rows cover the day axis top to bottom; one row is one pointer unit for
// drag sessions.
type frame struct {
	width, height int
	columns       int
	colW          int
	bandsTop      int
	bandRows      int
	gridTop       int
	rows          int
	sideX         int // 0 when the side panel is hidden
	sideW         int
}

// newFrame computes the frame for a terminal size and a grid.
func newFrame(width, height int, g layout.Grid) frame {
	f := frame{width: width, height: height, columns: max(1, len(g.Columns))}

	avail := width - timeColWidth
	if width >= sidePanelMinW {
		f.sideW = sidePanelW
		avail -= sidePanelW
	}
	f.colW = max(minColWidth, avail/f.columns-1)
	if f.sideW > 0 {
		f.sideX = timeColWidth + f.columns*(f.colW+1)
	}

	f.bandsTop = headerLines
	f.bandRows = len(g.Bands)
	f.gridTop = f.bandsTop + f.bandRows
	f.rows = max(1, height-f.gridTop-footerLines)
	return f
}

// columnX returns the first content cell of column col.
func (f frame) columnX(col int) int {
	return timeColWidth + col*(f.colW+1) + 1
}

// rowOf converts a vertical percentage to a row index.
func (f frame) rowOf(percent float64) int {
	return int(math.Round(percent / 100 * float64(f.rows)))
}

// rowSpan returns the first row and the row count of a block. Every
// visible block covers at least one row.
func (f frame) rowSpan(b layout.Block) (top, height int) {
	top = min(f.rowOf(b.TopPercent), f.rows-1)
	bottom := f.rowOf(b.TopPercent + b.HeightPercent)
	return top, max(1, bottom-top)
}

// cellSpan returns the first content cell and the cell count of a block
// within its column.
func (f frame) cellSpan(b layout.Block) (left, width int) {
	left = int(b.LeftPercent / 100 * float64(f.colW))
	right := int(math.Round((b.LeftPercent + b.WidthPercent) / 100 * float64(f.colW)))
	left = min(left, f.colW-1)
	return left, max(1, min(right, f.colW)-left)
}

// bandSpan returns the first cell and width of a band across columns.
func (f frame) bandSpan(b layout.Band) (x, width int) {
	x = f.columnX(b.StartColumn)
	end := f.columnX(b.EndColumn) + f.colW
	return x, end - x
}

// hit is a pointer position resolved against the grid.
type hit struct {
	column int
	row    int
	inGrid bool
	block  layout.Block
	onItem bool
}

// locate resolves a terminal cell against the grid body.
func (f frame) locate(g layout.Grid, x, y int) hit {
	h := hit{column: -1, row: y - f.gridTop}
	if h.row < 0 || h.row >= f.rows || x < timeColWidth {
		return h
	}
	rel := x - timeColWidth
	col, cell := rel/(f.colW+1), rel%(f.colW+1)-1
	if col >= len(g.Columns) || cell < 0 {
		return h
	}
	h.column = col
	h.inGrid = true

	for i := len(g.Columns[col].Blocks) - 1; i >= 0; i-- {
		b := g.Columns[col].Blocks[i]
		top, height := f.rowSpan(b)
		left, width := f.cellSpan(b)
		if h.row >= top && h.row < top+height && cell >= left && cell < left+width {
			h.block = b
			h.onItem = true
			break
		}
	}
	return h
}

// minutesPerRow returns how many axis minutes one row covers.
func (f frame) minutesPerRow(axis layout.Axis) float64 {
	return float64(axis.Minutes()) / float64(f.rows)
}
