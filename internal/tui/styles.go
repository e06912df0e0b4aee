// Package tui provides the terminal user interface for eventide.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorCurrent     lipgloss.Color
	colorWarning     lipgloss.Color

	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style
	SeparatorStyle      lipgloss.Style
	EmptyCellStyle      lipgloss.Style
	HourLineStyle       lipgloss.Style

	// Band row background and label
	BandStyle lipgloss.Style

	// Selected block overrides the urgency shade
	SelectedStyle lipgloss.Style
	// Block under an active drag
	DragStyle lipgloss.Style
	// Changed block in an optimization preview
	ChangedStyle lipgloss.Style

	SidePanelStyle      lipgloss.Style
	SidePanelTitleStyle lipgloss.Style
	SidePanelMutedStyle lipgloss.Style

	BannerStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	LockedStyle lipgloss.Style

	PromptStyle lipgloss.Style

	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalBodyStyle  lipgloss.Style
	ModalHintStyle  lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{palette: palette}

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorCurrent = palette.Current
	s.colorWarning = palette.Warning

	base := lipgloss.NewStyle().Background(s.colorBg)

	s.TitleStyle = base.Bold(true).Foreground(s.colorAccent)
	s.DayHeaderStyle = base.Bold(true).Align(lipgloss.Center).Foreground(s.colorFg)
	s.DayHeaderTodayStyle = s.DayHeaderStyle.Foreground(s.colorCurrent)
	s.TimeColumnStyle = base.Foreground(s.colorFgMuted)
	s.SeparatorStyle = base.Foreground(s.colorBgSelection)
	s.EmptyCellStyle = base
	s.HourLineStyle = base.Foreground(s.colorBgHighlight)

	s.BandStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorFg)

	s.SelectedStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)
	s.DragStyle = lipgloss.NewStyle().
		Background(s.colorCurrent).
		Foreground(palette.TextOnCurrent).
		Bold(true)
	s.ChangedStyle = lipgloss.NewStyle().
		Background(s.colorAccent).
		Foreground(palette.TextOnAccent)

	s.SidePanelStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)
	s.SidePanelTitleStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorAccent).
		Bold(true)
	s.SidePanelMutedStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Foreground(s.colorFgMuted)

	s.BannerStyle = lipgloss.NewStyle().
		Background(s.colorAccent).
		Foreground(palette.TextOnAccent).
		Bold(true).
		Padding(0, 1)
	s.StatusStyle = base.Foreground(s.colorCurrent)
	s.ErrorStyle = base.Foreground(s.colorWarning).Bold(true)
	s.HelpStyle = base.Foreground(s.colorFgMuted)
	s.LockedStyle = lipgloss.NewStyle().Foreground(s.colorWarning)

	s.PromptStyle = base.Foreground(s.colorFg)

	s.ModalStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.Modal.Border).
		BorderBackground(palette.Modal.Bg).
		Padding(1, 2)
	s.ModalTitleStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Border).
		Bold(true)
	s.ModalBodyStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Text)
	s.ModalHintStyle = lipgloss.NewStyle().
		Background(palette.Modal.Bg).
		Foreground(palette.Modal.Muted)

	return s
}

// blockStyle returns the style of an event block: urgency shade, muted in
// the past, alternate shade for odd lanes.
func (s *Styles) blockStyle(u event.Urgency, past, alt bool) lipgloss.Style {
	c := s.palette.Block(u)
	bg := c.Bg
	switch {
	case past && alt:
		bg = c.PastBgAlt
	case past:
		bg = c.PastBg
	case alt:
		bg = c.BgAlt
	}
	return lipgloss.NewStyle().Background(bg).Foreground(c.Text)
}

// badgeStyle returns the foreground style of an urgency marker.
func (s *Styles) badgeStyle(u event.Urgency) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.palette.Block(u).Badge)
}
