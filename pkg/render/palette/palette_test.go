package palette

import (
	"image/color"
	"testing"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

func TestContrast(t *testing.T) {
	tests := []struct {
		fill string
		want string
	}{
		{"#ffffff", Black},
		{"#000000", White},
		{"#2EA395", White}, // yiq 126.4
		{"#C20F0F", White},
		{"#808080", Black}, // yiq exactly 128
		{"#7f7f7f", White},
		{"yellow", Black},
	}
	for _, tt := range tests {
		got, err := Contrast(tt.fill)
		if err != nil {
			t.Fatalf("Contrast(%q) error = %v", tt.fill, err)
		}
		if got != tt.want {
			t.Errorf("Contrast(%q) = %q, want %q", tt.fill, got, tt.want)
		}
	}

	if _, err := Contrast("not-a-color"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Contrast(invalid) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestRGBAAndHex(t *testing.T) {
	c, err := RGBA("#2EA395")
	if err != nil {
		t.Fatal(err)
	}
	if want := (color.NRGBA{R: 0x2e, G: 0xa3, B: 0x95, A: 0xff}); c != want {
		t.Errorf("RGBA() = %v, want %v", c, want)
	}

	h, err := Hex("rgb(46, 163, 149)")
	if err != nil {
		t.Fatal(err)
	}
	if h != "#2ea395" {
		t.Errorf("Hex() = %q, want %q", h, "#2ea395")
	}
}

func TestDarken(t *testing.T) {
	got, err := Darken("#ffffff", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#808080" {
		t.Errorf("Darken() = %q, want %q", got, "#808080")
	}
	if got, _ := Darken("#000000", 0.5); got != "#000000" {
		t.Errorf("Darken(black) = %q, want black", got)
	}
}

func TestPaletteFill(t *testing.T) {
	p, err := New(config.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		h    *tree.Highlight
		want string
	}{
		{"none", nil, config.DefaultTreeColor},
		{"global", tree.Global(1), "#C20F0F"},
		{"global out of range", tree.Global(9), config.DefaultTreeColor},
		{"custom", tree.Custom("#091E39"), "#091E39"},
		{"custom invalid", tree.Custom("nope"), config.DefaultTreeColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Fill(tt.h); got != tt.want {
				t.Errorf("Fill() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaletteBorderAndLine(t *testing.T) {
	style := config.DefaultStyle()

	p, _ := New(style)
	if p.Border(nil) != config.DefaultBorderColor || p.Line() != config.DefaultBorderColor {
		t.Errorf("defaults: border %q, line %q", p.Border(nil), p.Line())
	}

	style.BorderSameAsText = true
	style.LineSameAsBorder = true
	p, _ = New(style)
	if got := p.Border(tree.Custom("#000000")); got != White {
		t.Errorf("Border(black fill) = %q, want white", got)
	}
	if got := p.Line(); got != White {
		t.Errorf("Line() = %q, want white (contrast of tree color)", got)
	}

	style.NoBorder = true
	style.NoLine = true
	p, _ = New(style)
	if p.Border(nil) != Transparent || p.Line() != Transparent {
		t.Errorf("disabled: border %q, line %q", p.Border(nil), p.Line())
	}
}

func TestNewRejectsBadColors(t *testing.T) {
	style := config.DefaultStyle()
	style.Highlights = []string{"#fff", "garbage"}
	if _, err := New(style); err == nil {
		t.Error("New() accepted an invalid highlight color")
	}
}
