// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/eventide/internal/event"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Auto picks a dark or light theme from the terminal background.
const Auto = "auto"

// DefaultName is the fallback theme.
const DefaultName = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Bands, side panel
	BgSelection string `toml:"bg_selection"` // Selected block
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Hour labels, past dates
	Accent      string `toml:"accent"`       // Title, borders
	Current     string `toml:"current"`      // Today marker, drag preview
	Warning     string `toml:"warning"`      // Locked marker, status errors

	// Urgency badge colors
	Trivial         string `toml:"trivial"`
	Ongoing         string `toml:"ongoing"`
	AttentionNeeded string `toml:"attention_needed"`
	Important       string `toml:"important"`
	Critical        string `toml:"critical"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Urgency returns the badge color of u, or the trivial color when u is unknown.
func (t *Theme) Urgency(u event.Urgency) string {
	switch u {
	case event.UrgencyOngoing:
		return t.Ongoing
	case event.UrgencyAttentionNeeded:
		return t.AttentionNeeded
	case event.UrgencyImportant:
		return t.Important
	case event.UrgencyCritical:
		return t.Critical
	default:
		return t.Trivial
	}
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	return parse(name, data)
}

// LoadFile loads a custom theme file. Missing colors are taken from the
// built-in theme named by its "base" key, or mocha.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var head struct {
		Base string `toml:"base"`
	}
	if err := toml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing theme file %s: %w", path, err)
	}
	t, err := Load(head.Base)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parsing theme file %s: %w", path, err)
	}
	if t.Name == "" || t.Name == head.Base || (head.Base == "" && t.Name == DefaultName) {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Resolve turns a configured theme value into a theme: a built-in name,
// "auto", or a path to a custom .toml file.
func Resolve(value string) (*Theme, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(value), ".toml"):
		return LoadFile(value)
	case strings.EqualFold(value, Auto):
		if termenv.HasDarkBackground() {
			return Load(DefaultName)
		}
		return Load("latte")
	default:
		return Load(value)
	}
}

func parse(name string, data []byte) (*Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()
	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.Trivial = coalesce(t.Trivial, t.FgMuted)
	t.Ongoing = coalesce(t.Ongoing, t.Accent)
	t.AttentionNeeded = coalesce(t.AttentionNeeded, t.Warning)
	t.Important = coalesce(t.Important, t.Warning)
	t.Critical = coalesce(t.Critical, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available. "auto" and
// custom .toml paths are accepted too.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	if name == Auto || strings.HasSuffix(name, ".toml") {
		return true
	}
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
