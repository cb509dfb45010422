package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/arbor/pkg/layout"
)

const nodeMaskID = "node-mask"

// RenderSVG renders res as an SVG document.
func RenderSVG(res layout.Result, opts ...Option) []byte {
	r := newRenderer(opts...)
	st := r.style()

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := px(res.Width), px(res.Height)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))

	radius := px(res.NodeRadius)
	canvas.Def()
	canvas.Mask(nodeMaskID, 0, 0, w, h)
	canvas.Rect(0, 0, w, h, "fill:white")
	for _, n := range res.Nodes {
		canvas.Circle(px(n.X), px(n.Y), radius, "fill:black")
	}
	canvas.MaskEnd()
	canvas.DefEnd()

	canvas.Rect(0, 0, w, h, "fill:"+r.palette.Background())

	line := r.palette.Line()
	if line != "transparent" && st.LineWidth > 0 {
		lineStyle := fmt.Sprintf("stroke:%s;stroke-width:%g", line, st.LineWidth)
		canvas.Gid("edges")
		for _, e := range res.Edges {
			attrs := []string{lineStyle}
			if e.Masked {
				attrs = append(attrs, fmt.Sprintf(`mask="url(#%s)"`, nodeMaskID))
			}
			canvas.Line(px(e.X1), px(e.Y1), px(e.X2), px(e.Y2), attrs...)
		}
		canvas.Gend()
	}

	canvas.Gid("nodes")
	for _, n := range res.Nodes {
		canvas.Group(fmt.Sprintf(`class="tree-node" data-id="%d"`, n.ID))
		circle := "fill:" + r.palette.Fill(n.Highlight)
		if border := r.palette.Border(n.Highlight); border != "transparent" && st.BorderWidth > 0 {
			circle += fmt.Sprintf(";stroke:%s;stroke-width:%g", border, st.BorderWidth)
		}
		canvas.Circle(px(n.X), px(n.Y), radius, circle)
		canvas.Text(px(n.X), px(n.Y), n.Text, fmt.Sprintf(
			"fill:%s;font-size:%gpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:central",
			r.palette.Text(n.Highlight), st.FontSize))
		canvas.Gend()
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

// px rounds a canvas coordinate to whole pixels, as svgo takes ints.
func px(v float64) int { return int(math.Round(v)) }
