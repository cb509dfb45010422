package layout

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/arbor/pkg/errors"
)

// Defaults match the editor's original canvas constants.
const (
	DefaultNodeRadius             = 50.0
	DefaultVerticalSpacing        = 150.0
	DefaultHorizontalSpacing      = 150.0
	DefaultVerticalMargin         = 50.0
	DefaultHorizontalMargin       = 50.0
	DefaultMaxCollisionIterations = 50
)

// Config holds the spacing parameters of a layout pass.
type Config struct {
	NodeRadius             float64 `json:"node_radius" toml:"node_radius" validate:"gt=0"`
	VerticalSpacing        float64 `json:"vertical_spacing" toml:"vertical_spacing" validate:"gt=0"`
	HorizontalSpacing      float64 `json:"horizontal_spacing" toml:"horizontal_spacing" validate:"gt=0"`
	VerticalMargin         float64 `json:"vertical_margin" toml:"vertical_margin" validate:"gte=0"`
	HorizontalMargin       float64 `json:"horizontal_margin" toml:"horizontal_margin" validate:"gte=0"`
	MaxCollisionIterations int     `json:"max_collision_iterations" toml:"max_collision_iterations" validate:"gte=1"`
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		NodeRadius:             DefaultNodeRadius,
		VerticalSpacing:        DefaultVerticalSpacing,
		HorizontalSpacing:      DefaultHorizontalSpacing,
		VerticalMargin:         DefaultVerticalMargin,
		HorizontalMargin:       DefaultHorizontalMargin,
		MaxCollisionIterations: DefaultMaxCollisionIterations,
	}
}

var validate = validator.New()

// Validate checks that all spacing values are usable.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout config")
	}
	return nil
}

// rootY is the y of the root's center: top margin plus the root's radius.
func (c Config) rootY() float64 {
	return c.VerticalMargin + c.NodeRadius
}

// RowY returns the y coordinate every node at depth takes after layout.
func (c Config) RowY(depth int) float64 {
	return c.rootY() + float64(depth)*c.VerticalSpacing
}
