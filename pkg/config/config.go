// Package config holds the settings for a single run: the size
// of the canvas, the frame rate, the colours used by the
// compositor and the initial sprite layout. Settings come from
// defaults, an optional YAML file and command line flags, in
// increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/alien8/internal/sprite"
	"github.com/thelolagemann/alien8/pkg/utils"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid is wrapped by every validation error.
	ErrInvalid = errors.New("invalid config")
	// ErrInvalidColour is returned when a colour can't be parsed.
	ErrInvalidColour = errors.New("invalid colour")
)

const (
	// MaxDimension is the largest width or height accepted.
	MaxDimension = 4096
	// MaxSpeed is the largest speed multiplier accepted.
	MaxSpeed = 16
)

// Config holds the settings for a single run.
type Config struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	FrameRate float64 `yaml:"fps"`
	Speed     float64 `yaml:"speed"`
	Title     string  `yaml:"title"`
	Driver    string  `yaml:"driver"`

	Background Colour `yaml:"background"`
	Highlight  Colour `yaml:"highlight"`
	// Backdrop is an optional BMP or PNG image drawn in place
	// of the background colour.
	Backdrop string `yaml:"backdrop,omitempty"`

	// Player is the index of the sprite moved by input.
	Player  int             `yaml:"player"`
	Sprites []sprite.Sprite `yaml:"sprites"`

	// Stats is the path a frame time plot is written to on exit.
	Stats            string `yaml:"stats,omitempty"`
	Screenshots      string `yaml:"screenshots"`
	ScreenshotFormat string `yaml:"screenshot_format"`

	Debug bool `yaml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Width:            320,
		Height:           180,
		FrameRate:        60,
		Speed:            1,
		Title:            "Alien 8",
		Driver:           "auto",
		Background:       Colour{R: 0, G: 0, B: 255, A: 255},
		Highlight:        Colour{R: 255, G: 255, B: 255, A: 255},
		Player:           0,
		Sprites:          []sprite.Sprite{{X: 0, Y: 0}},
		Screenshots:      "screenshots",
		ScreenshotFormat: "png",
	}
}

// Load returns the default configuration overlaid with the
// YAML file at path. Compressed files are decompressed first.
func Load(path string) (*Config, error) {
	data, err := utils.LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse returns the default configuration overlaid with the
// given YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// an empty document leaves the defaults untouched
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, err
	}

	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var result *multierror.Error

	invalid := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
	}

	if c.Width <= 0 || c.Width > MaxDimension {
		invalid("width %d must be between 1 and %d", c.Width, MaxDimension)
	}
	if c.Height <= 0 || c.Height > MaxDimension {
		invalid("height %d must be between 1 and %d", c.Height, MaxDimension)
	}
	if c.FrameRate <= 0 {
		invalid("fps %v must be positive", c.FrameRate)
	}
	if c.Speed <= 0 || c.Speed > MaxSpeed {
		invalid("speed %v must be greater than 0 and at most %d", c.Speed, MaxSpeed)
	}
	if c.Driver == "" {
		invalid("driver must not be empty")
	}
	if len(c.Sprites) > 0 && (c.Player < 0 || c.Player >= len(c.Sprites)) {
		invalid("player %d does not refer to one of the %d sprites", c.Player, len(c.Sprites))
	}
	switch strings.ToLower(c.ScreenshotFormat) {
	case "png", "bmp":
	default:
		invalid("screenshot format %q must be png or bmp", c.ScreenshotFormat)
	}

	return result.ErrorOrNil()
}
