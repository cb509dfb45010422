// Package palette resolves node, border and connector colors from a style.
//
// Colors are CSS color strings ("#2EA395", "rgb(10, 20, 30)", "teal").
// Label colors follow the YIQ brightness rule: labels on fills with a YIQ
// value of 128 or more are black, all others white.
package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

const (
	Black       = "black"
	White       = "white"
	Transparent = "transparent"
)

// yiqThreshold splits light from dark fills.
const yiqThreshold = 128

// Parse parses a CSS color.
func Parse(s string) (colorful.Color, float64, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return colorful.Color{}, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}, c.A, nil
}

// RGBA converts a CSS color to an image color.
func RGBA(s string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// YIQ returns the perceived brightness of a color on a 0-255 scale.
func YIQ(s string) (float64, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	r, g, b, _ := c.RGBA255()
	return (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000, nil
}

// Contrast returns the label color for text drawn on fill.
func Contrast(fill string) (string, error) {
	yiq, err := YIQ(fill)
	if err != nil {
		return "", err
	}
	if yiq >= yiqThreshold {
		return Black, nil
	}
	return White, nil
}

// Hex normalizes a CSS color to "#rrggbb".
func Hex(s string) (string, error) {
	c, _, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.Clamped().Hex(), nil
}

// Darken lowers the lightness of a color by amount (0..1) in HSL space.
func Darken(s string, amount float64) (string, error) {
	c, _, err := Parse(s)
	if err != nil {
		return "", err
	}
	h, sat, l := c.Hsl()
	return colorful.Hsl(h, sat, max(l-amount, 0)).Clamped().Hex(), nil
}

// =============================================================================
// Palette
// =============================================================================

// Palette maps nodes to colors under a style.
type Palette struct {
	style config.Style
}

// New validates every color of style and returns its palette.
func New(style config.Style) (*Palette, error) {
	colors := []string{style.TreeColor, style.Background}
	if !style.NoBorder && !style.BorderSameAsText {
		colors = append(colors, style.BorderColor)
	}
	if !style.NoLine && !style.LineSameAsBorder {
		colors = append(colors, style.LineColor)
	}
	colors = append(colors, style.Highlights...)
	for _, c := range colors {
		if _, _, err := Parse(c); err != nil {
			return nil, err
		}
	}
	return &Palette{style: style}, nil
}

// Style returns the style the palette was built from.
func (p *Palette) Style() config.Style { return p.style }

// Background returns the canvas color.
func (p *Palette) Background() string { return p.style.Background }

// Fill returns the circle color for a node with highlight h. Palette indexes
// outside the configured highlights fall back to the tree color, as do custom
// colors that fail to parse.
func (p *Palette) Fill(h *tree.Highlight) string {
	if h == nil {
		return p.style.TreeColor
	}
	switch h.Kind {
	case tree.HighlightGlobal:
		if h.Index >= 0 && h.Index < len(p.style.Highlights) {
			return p.style.Highlights[h.Index]
		}
	case tree.HighlightCustom:
		if _, _, err := Parse(h.Color); err == nil {
			return h.Color
		}
	}
	return p.style.TreeColor
}

// Text returns the label color for a node with highlight h.
func (p *Palette) Text(h *tree.Highlight) string {
	c, err := Contrast(p.Fill(h))
	if err != nil {
		return White
	}
	return c
}

// Border returns the circle outline color for a node with highlight h.
func (p *Palette) Border(h *tree.Highlight) string {
	switch {
	case p.style.NoBorder:
		return Transparent
	case p.style.BorderSameAsText:
		return p.Text(h)
	default:
		return p.style.BorderColor
	}
}

// Line returns the connector color. When lines follow the border they use the
// border of an unhighlighted node.
func (p *Palette) Line() string {
	switch {
	case p.style.NoLine:
		return Transparent
	case p.style.LineSameAsBorder:
		return p.Border(nil)
	default:
		return p.style.LineColor
	}
}
