package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Parse decodes a tree document. Ids are regenerated from 0.
func Parse(data []byte, format tree.Format) (*tree.Node, error) {
	return tree.Decode(data, format, tree.NewIDGenerator(0))
}

// ReadTree reads and decodes the tree document at path. The format follows
// the file extension; "-" reads JSON from stdin.
func ReadTree(path string) (*tree.Node, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return Parse(data, tree.FormatJSON)
	}
	if path == "" {
		return nil, invalidInput("no input file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(data, tree.FormatFromPath(path))
}
