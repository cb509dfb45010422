package sink

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"math"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/fonts"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// RenderPNG renders res as a PNG image.
func RenderPNG(res layout.Result, opts ...Option) ([]byte, error) {
	dc, err := draw(res, newRenderer(opts...))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

// RenderJPEG renders res as a JPEG image. JPEG has no alpha channel, so the
// background is always painted.
func RenderJPEG(res layout.Result, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	dc, err := draw(res, r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode JPEG")
	}
	return buf.Bytes(), nil
}

func draw(res layout.Result, r *renderer) (*gg.Context, error) {
	st := r.style()
	w := int(math.Ceil(res.Width * r.scale))
	h := int(math.Ceil(res.Height * r.scale))
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	face, err := fonts.Face(r.fontTTF, st.FontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	bg, err := colorOf(r.palette.Background())
	if err != nil {
		return nil, err
	}
	dc.SetColor(bg)
	dc.Clear()

	// Discs are painted over the connectors, which hides the inner part of
	// center-to-center lines the same way the SVG mask does.
	if line := r.palette.Line(); line != palette.Transparent && st.LineWidth > 0 {
		c, err := colorOf(line)
		if err != nil {
			return nil, err
		}
		dc.SetColor(c)
		dc.SetLineWidth(st.LineWidth)
		for _, e := range res.Edges {
			dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
			dc.Stroke()
		}
	}

	for _, n := range res.Nodes {
		fill, err := colorOf(r.palette.Fill(n.Highlight))
		if err != nil {
			return nil, err
		}
		dc.DrawCircle(n.X, n.Y, res.NodeRadius)
		dc.SetColor(fill)
		dc.Fill()

		if border := r.palette.Border(n.Highlight); border != palette.Transparent && st.BorderWidth > 0 {
			c, err := colorOf(border)
			if err != nil {
				return nil, err
			}
			dc.DrawCircle(n.X, n.Y, res.NodeRadius)
			dc.SetColor(c)
			dc.SetLineWidth(st.BorderWidth)
			dc.Stroke()
		}

		text, err := colorOf(r.palette.Text(n.Highlight))
		if err != nil {
			return nil, err
		}
		dc.SetColor(text)
		dc.DrawStringAnchored(n.Text, n.X, n.Y, 0.5, 0.35)
	}
	return dc, nil
}

func colorOf(s string) (color.Color, error) {
	c, err := palette.RGBA(s)
	if err != nil {
		return nil, err
	}
	return c, nil
}
