package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/eventide/internal/event"
)

// Palette holds the colors the grid paints with, derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	// Block colors keyed by urgency.
	Blocks map[event.Urgency]BlockColors

	TextOnAccent  lipgloss.Color
	TextOnCurrent lipgloss.Color

	Modal ModalColors
}

// BlockColors are the shades used to paint one urgency's event blocks.
type BlockColors struct {
	Badge     lipgloss.Color // urgency marker
	Bg        lipgloss.Color
	BgAlt     lipgloss.Color // adjacent lanes in the same cluster
	PastBg    lipgloss.Color
	PastBgAlt lipgloss.Color
	Text      lipgloss.Color
}

// ModalColors are used by the summary and form overlays.
type ModalColors struct {
	Bg     lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

// NewPalette derives a Palette from t. A nil theme uses the default.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	bg := mustRGB(t.Bg)
	light := bg.luminance() > 0.55

	blocks := make(map[event.Urgency]BlockColors, len(event.Urgencies))
	for _, u := range event.Urgencies {
		badge := t.Urgency(u)
		base, past := blockShades(badge, t.Bg, light)
		blocks[u] = BlockColors{
			Badge:     lipgloss.Color(badge),
			Bg:        lipgloss.Color(base),
			BgAlt:     lipgloss.Color(alternateShade(base, light)),
			PastBg:    lipgloss.Color(past),
			PastBgAlt: lipgloss.Color(alternateShade(past, light)),
			Text:      lipgloss.Color(readableOn(base, t.Fg, t.Bg)),
		}
	}

	modalBg := coalesce(t.BgHighlight, t.Bg)
	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		Blocks: blocks,

		TextOnAccent:  lipgloss.Color(readableOn(t.Accent, t.Bg, t.Fg)),
		TextOnCurrent: lipgloss.Color(readableOn(t.Current, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:     lipgloss.Color(modalBg),
			Border: lipgloss.Color(t.Accent),
			Text:   lipgloss.Color(t.Fg),
			Muted:  lipgloss.Color(t.FgMuted),
		},
	}
}

// Block returns the colors for urgency u, falling back to trivial.
func (p *Palette) Block(u event.Urgency) BlockColors {
	if c, ok := p.Blocks[u]; ok {
		return c
	}
	return p.Blocks[event.UrgencyTrivial]
}

// blockShades returns the block background for a badge color and its
// muted variant for past events. Dark themes darken the badge; light
// themes wash it out towards the background.
func blockShades(badge, bg string, light bool) (base, past string) {
	if light {
		return blend(badge, bg, 0.75), blend(badge, bg, 0.88)
	}
	c, ok := parseRGB(badge)
	if !ok {
		return badge, badge
	}
	return c.scale(0.50, 40).String(), c.scale(0.30, 30).String()
}

// alternateShade nudges hex away from its neighbours' shade.
func alternateShade(hex string, light bool) string {
	if light {
		return blend(hex, "#000000", 0.10)
	}
	return blend(hex, "#ffffff", 0.30)
}

// readableOn picks whichever of a and b contrasts more with bg.
func readableOn(bg, a, b string) string {
	if contrast(bg, a) >= contrast(bg, b) {
		return a
	}
	return b
}

func contrast(x, y string) float64 {
	lx, ly := mustRGB(x).luminance(), mustRGB(y).luminance()
	if lx < ly {
		lx, ly = ly, lx
	}
	return (lx + 0.05) / (ly + 0.05)
}

// blend mixes a towards b by ratio. Malformed colors leave a unchanged.
func blend(a, b string, ratio float64) string {
	ca, okA := parseRGB(a)
	cb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	return rgb{
		r: ca.r*(1-ratio) + cb.r*ratio,
		g: ca.g*(1-ratio) + cb.g*ratio,
		b: ca.b*(1-ratio) + cb.b*ratio,
	}.String()
}

// rgb is a color with 0-255 channels.
type rgb struct{ r, g, b float64 }

// parseRGB parses "#rrggbb".
func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{r: float64(v >> 16 & 0xff), g: float64(v >> 8 & 0xff), b: float64(v & 0xff)}, true
}

// mustRGB parses hex, treating malformed colors as black.
func mustRGB(hex string) rgb {
	c, _ := parseRGB(hex)
	return c
}

func (c rgb) String() string {
	return fmt.Sprintf("#%02x%02x%02x", int(c.r), int(c.g), int(c.b))
}

// scale multiplies every channel by f, keeping each at least floor.
func (c rgb) scale(f, floor float64) rgb {
	ch := func(v float64) float64 { return math.Max(floor, math.Trunc(v*f)) }
	return rgb{r: ch(c.r), g: ch(c.g), b: ch(c.b)}
}

// luminance is the WCAG relative luminance.
func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}
