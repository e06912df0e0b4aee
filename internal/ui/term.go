package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/eventide/internal/event"
)

// Color definitions for consistent styling across the UI.
var (
	// Urgency badges follow the grid palette: black, blue, orange, red, purple.
	urgencyColors = map[event.Urgency]*color.Color{
		event.UrgencyTrivial:         color.New(color.FgWhite, color.Faint),
		event.UrgencyOngoing:         color.New(color.FgBlue),
		event.UrgencyAttentionNeeded: color.New(color.FgYellow),
		event.UrgencyImportant:       color.New(color.FgRed, color.Bold),
		event.UrgencyCritical:        color.New(color.FgMagenta, color.Bold),
	}

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Success messages: green
	colorOK = color.New(color.FgGreen)

	// Reminders and warnings: yellow to make them pop
	colorAlert = color.New(color.FgYellow, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatUrgency formats text in the color of urgency u.
func formatUrgency(u event.Urgency, s string) string {
	c, ok := urgencyColors[u]
	if !ok {
		c = urgencyColors[event.UrgencyTrivial]
	}
	return c.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatOK formats a success message.
func formatOK(s string) string {
	return colorOK.Sprint(s)
}

// formatAlert formats text that needs attention.
func formatAlert(s string) string {
	return colorAlert.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
