package config

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"
)

// Colour is an RGBA colour written as "#rrggbb" or "#rrggbbaa".
// The alpha channel defaults to 0xff when omitted.
type Colour color.RGBA

// ParseColour parses a hex colour string. The leading '#' is
// optional.
func ParseColour(s string) (Colour, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return Colour{}, fmt.Errorf("%w: %q", ErrInvalidColour, s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return Colour{}, fmt.Errorf("%w: %q", ErrInvalidColour, s)
	}

	c := Colour{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// RGBA returns the colour as a color.RGBA.
func (c Colour) RGBA() color.RGBA {
	return color.RGBA(c)
}

// String implements fmt.Stringer and flag.Value.
func (c *Colour) String() string {
	if c == nil {
		return ""
	}
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Set implements flag.Value.
func (c *Colour) Set(s string) error {
	parsed, err := ParseColour(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Colour) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.Set(s)
}

// MarshalYAML implements yaml.Marshaler.
func (c Colour) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}
