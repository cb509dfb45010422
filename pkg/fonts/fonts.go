// Package fonts provides the label font for raster rendering.
//
// The Go Regular font ships with golang.org/x/image, so raster exports work
// without any system fonts installed. Parsed fonts are cached; faces are
// cheap to create per size.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/arbor/pkg/errors"
)

// FontFamily is the CSS font-family used for SVG labels.
const FontFamily = "sans-serif"

var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed built-in font.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a face of the given size in points at 72 DPI, so one point
// equals one canvas unit. A nil ttf selects the built-in font.
func Face(ttf []byte, size float64) (font.Face, error) {
	var (
		f   *opentype.Font
		err error
	)
	if ttf == nil {
		f, err = Regular()
	} else {
		f, err = opentype.Parse(ttf)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font")
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create font face")
	}
	return face, nil
}
