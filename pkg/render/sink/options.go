package sink

import (
	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	palette *palette.Palette
	scale   float64
	quality int
	fontTTF []byte
}

// WithPalette sets the colors. The default is [config.DefaultStyle].
func WithPalette(p *palette.Palette) Option {
	return func(r *renderer) {
		if p != nil {
			r.palette = p
		}
	}
}

// WithScale multiplies the raster canvas size. Vector outputs ignore it.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithQuality sets the JPEG quality (1-100).
func WithQuality(q int) Option {
	return func(r *renderer) {
		if q >= 1 && q <= 100 {
			r.quality = q
		}
	}
}

// WithFont replaces the raster label font with TrueType/OpenType data.
func WithFont(ttf []byte) Option {
	return func(r *renderer) { r.fontTTF = ttf }
}

func newRenderer(opts ...Option) *renderer {
	r := &renderer{quality: 90}
	for _, opt := range opts {
		opt(r)
	}
	if r.palette == nil {
		// The default style is known to be valid.
		r.palette, _ = palette.New(config.DefaultStyle())
	}
	if r.scale == 0 {
		r.scale = r.palette.Style().Scale
	}
	return r
}

func (r *renderer) style() config.Style { return r.palette.Style() }
