package sink

import (
	"context"
	"strings"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
)

// Format is an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatJPEG, FormatJSON, FormatDOT}

// ParseFormat validates a format name. "jpg" is accepted for JPEG.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	if f == "jpg" {
		return FormatJPEG, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Ext returns the file extension of the format, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Render renders res in the given format.
func Render(ctx context.Context, res layout.Result, f Format, opts ...Option) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch f {
	case FormatSVG:
		return RenderSVG(res, opts...), nil
	case FormatPNG:
		return RenderPNG(res, opts...)
	case FormatJPEG:
		return RenderJPEG(res, opts...)
	case FormatJSON:
		return RenderJSON(res, opts...)
	case FormatDOT:
		return []byte(ToDOT(res, opts...)), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported output format %q", f)
	}
}
