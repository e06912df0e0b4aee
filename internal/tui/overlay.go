package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter splices box over the middle of base, a width by height
// screen. Lines of base left and right of the box are kept.
func overlayCenter(base, box string, width, height int) string {
	if box == "" || width <= 0 || height <= 0 {
		return base
	}
	boxLines := strings.Split(strings.TrimRight(box, "\n"), "\n")
	boxW := 0
	for _, l := range boxLines {
		boxW = max(boxW, lipgloss.Width(l))
	}
	boxW = min(boxW, width)
	if len(boxLines) > height {
		boxLines = boxLines[:height]
	}

	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)

	lines := normalizeLines(base, width, height)
	for i, l := range boxLines {
		row := top + i
		if lipgloss.Width(l) > boxW {
			l = ansi.Cut(l, 0, boxW)
		}
		if w := lipgloss.Width(l); w < boxW {
			l += strings.Repeat(" ", boxW-w)
		}
		lines[row] = ansi.Cut(lines[row], 0, left) + l + ansi.ResetStyle + ansi.Cut(lines[row], left+boxW, width)
	}
	return strings.Join(lines, "\n")
}

// normalizeLines returns exactly height lines of exactly width cells.
func normalizeLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i, l := range lines {
		w := lipgloss.Width(l)
		switch {
		case w > width:
			lines[i] = ansi.Cut(l, 0, width)
		case w < width:
			lines[i] = l + strings.Repeat(" ", width-w)
		}
	}
	return lines
}
