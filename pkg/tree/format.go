package tree

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/arbor/pkg/errors"
)

// Format names a tree serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension. Unknown extensions
// fall back to JSON, the editor's native format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q (use json or yaml)", s)
	}
}

// Decode parses data in the given format. See [DecodeJSON].
func Decode(data []byte, format Format, ids *IDGenerator) (*Node, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data, ids)
	case FormatYAML:
		return DecodeYAML(data, ids)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", format)
	}
}

// Encode writes root in the given format.
func Encode(root *Node, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(root)
	case FormatYAML:
		return EncodeYAML(root)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", format)
	}
}
