// Package config loads arbor's user configuration.
//
// Configuration lives in a TOML file with two sections: [layout] holds the
// spacing parameters handed to the layout engine and [style] the colors and
// strokes used by the renderers. Missing keys keep their defaults, so an
// empty file is a valid configuration.
//
//	[layout]
//	horizontal_spacing = 120
//
//	[style]
//	tree_color = "#2EA395"
//	highlights = ["#3FB116", "#C20F0F", "#2175C4"]
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
)

const (
	appName  = "arbor"
	fileName = "config.toml"
)

// Default style values.
const (
	DefaultTreeColor       = "#2EA395"
	DefaultBorderColor     = "#ffffff"
	DefaultBackground      = "#2a2a2a"
	DefaultCustomHighlight = "#091E39"
	DefaultBorderWidth     = 2.0
	DefaultLineWidth       = 2.0
	DefaultScale           = 1.0
	DefaultFontSize        = 24.0
)

// DefaultHighlights is the default global highlight palette.
var DefaultHighlights = []string{"#3FB116", "#C20F0F", "#2175C4"}

// Config is the full user configuration.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Style  Style         `toml:"style"`
}

// Style controls how a laid-out tree is drawn.
type Style struct {
	TreeColor   string `toml:"tree_color" json:"tree_color" validate:"required"`
	Background  string `toml:"background" json:"background" validate:"required"`
	BorderColor string `toml:"border_color" json:"border_color"`
	LineColor   string `toml:"line_color" json:"line_color"`

	// BorderSameAsText draws each node border in its label's contrast color.
	BorderSameAsText bool `toml:"border_same_as_text" json:"border_same_as_text"`
	// LineSameAsBorder draws connectors in the border color.
	LineSameAsBorder bool `toml:"line_same_as_border" json:"line_same_as_border"`
	NoBorder         bool `toml:"no_border" json:"no_border"`
	NoLine           bool `toml:"no_line" json:"no_line"`

	BorderWidth float64 `toml:"border_width" json:"border_width" validate:"gte=0"`
	LineWidth   float64 `toml:"line_width" json:"line_width" validate:"gte=0"`
	FontSize    float64 `toml:"font_size" json:"font_size" validate:"gt=0"`

	// Scale multiplies the canvas size of raster exports.
	Scale float64 `toml:"scale" json:"scale" validate:"gt=0,lte=10"`

	Highlights      []string `toml:"highlights" json:"highlights" validate:"dive,required"`
	CustomHighlight string   `toml:"custom_highlight" json:"custom_highlight"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Style:  DefaultStyle(),
	}
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	return Style{
		TreeColor:       DefaultTreeColor,
		Background:      DefaultBackground,
		BorderColor:     DefaultBorderColor,
		LineColor:       DefaultBorderColor,
		BorderWidth:     DefaultBorderWidth,
		LineWidth:       DefaultLineWidth,
		FontSize:        DefaultFontSize,
		Scale:           DefaultScale,
		Highlights:      append([]string(nil), DefaultHighlights...),
		CustomHighlight: DefaultCustomHighlight,
	}
}

var validate = validator.New()

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	return ValidateStyle(c.Style)
}

// ValidateStyle checks a style on its own, e.g. one sent with an API request.
func ValidateStyle(s Style) error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid style config")
	}
	return nil
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", keys[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration at path. An empty path means [Path]; a
// missing default file yields [Default].
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Path returns the default config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}
