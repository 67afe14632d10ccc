package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/thelolagemann/alien8/internal/sprite"
)

// Flags binds the configuration to a flag.FlagSet. Flags that are
// set explicitly take precedence over the config file.
type Flags struct {
	fs     *flag.FlagSet
	path   string
	values *Config
}

// RegisterFlags registers the configuration flags with fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, values: Default()}
	v := f.values

	fs.StringVar(&f.path, "config", "", "A YAML config file to load")
	fs.IntVar(&v.Width, "width", v.Width, "The width of the canvas in pixels")
	fs.IntVar(&v.Height, "height", v.Height, "The height of the canvas in pixels")
	fs.Float64Var(&v.FrameRate, "fps", v.FrameRate, "The number of frames produced per second")
	fs.Float64Var(&v.Speed, "speed", v.Speed, "The speed to run the game at")
	fs.StringVar(&v.Title, "title", v.Title, "The title of the window")
	fs.StringVar(&v.Driver, "driver", v.Driver, "The display driver to use. Can be auto, glfw, sdl, fyne or web")
	fs.Var(&v.Background, "background", "The background colour (#rrggbb)")
	fs.Var(&v.Highlight, "highlight", "The colour sprites are painted with (#rrggbb)")
	fs.StringVar(&v.Backdrop, "backdrop", v.Backdrop, "A BMP or PNG image to draw behind the sprites")
	fs.IntVar(&v.Player, "player", v.Player, "The index of the sprite moved by the arrow keys")
	fs.Var(&spriteList{sprites: &v.Sprites}, "sprite", "A sprite position as x,y. May be repeated")
	fs.StringVar(&v.Stats, "stats", v.Stats, "Write a frame time plot to this file on exit")
	fs.StringVar(&v.Screenshots, "screenshots", v.Screenshots, "The folder screenshots are written to")
	fs.StringVar(&v.ScreenshotFormat, "screenshot-format", v.ScreenshotFormat, "The screenshot format. Can be png or bmp")
	fs.BoolVar(&v.Debug, "debug", v.Debug, "Enable debug logging")

	return f
}

// Config returns the configuration after the flag set has been
// parsed: defaults, then the config file (if any), then any flag
// set on the command line.
func (f *Flags) Config() (*Config, error) {
	cfg := Default()
	if f.path != "" {
		var err error
		if cfg, err = Load(f.path); err != nil {
			return nil, err
		}
	}

	f.fs.Visit(func(fl *flag.Flag) {
		if apply, ok := overrides[fl.Name]; ok {
			apply(cfg, f.values)
		}
	})

	return cfg, nil
}

var overrides = map[string]func(dst, src *Config){
	"width":             func(dst, src *Config) { dst.Width = src.Width },
	"height":            func(dst, src *Config) { dst.Height = src.Height },
	"fps":               func(dst, src *Config) { dst.FrameRate = src.FrameRate },
	"speed":             func(dst, src *Config) { dst.Speed = src.Speed },
	"title":             func(dst, src *Config) { dst.Title = src.Title },
	"driver":            func(dst, src *Config) { dst.Driver = src.Driver },
	"background":        func(dst, src *Config) { dst.Background = src.Background },
	"highlight":         func(dst, src *Config) { dst.Highlight = src.Highlight },
	"backdrop":          func(dst, src *Config) { dst.Backdrop = src.Backdrop },
	"player":            func(dst, src *Config) { dst.Player = src.Player },
	"sprite":            func(dst, src *Config) { dst.Sprites = append([]sprite.Sprite(nil), src.Sprites...) },
	"stats":             func(dst, src *Config) { dst.Stats = src.Stats },
	"screenshots":       func(dst, src *Config) { dst.Screenshots = src.Screenshots },
	"screenshot-format": func(dst, src *Config) { dst.ScreenshotFormat = src.ScreenshotFormat },
	"debug":             func(dst, src *Config) { dst.Debug = src.Debug },
}

// spriteList is a repeatable flag of x,y sprite positions. The
// first use replaces the default layout.
type spriteList struct {
	sprites *[]sprite.Sprite
	set     bool
}

func (s *spriteList) String() string {
	if s == nil || s.sprites == nil {
		return ""
	}
	parts := make([]string, len(*s.sprites))
	for i, sp := range *s.sprites {
		parts[i] = fmt.Sprintf("%d,%d", sp.X, sp.Y)
	}
	return strings.Join(parts, " ")
}

func (s *spriteList) Set(v string) error {
	sp, err := ParseSprite(v)
	if err != nil {
		return err
	}
	if !s.set {
		*s.sprites = nil
		s.set = true
	}
	*s.sprites = append(*s.sprites, sp)
	return nil
}

// ParseSprite parses a sprite position written as "x,y".
func ParseSprite(v string) (sprite.Sprite, error) {
	xs, ys, ok := strings.Cut(v, ",")
	if !ok {
		return sprite.Sprite{}, fmt.Errorf("%w: sprite %q must be x,y", ErrInvalid, v)
	}

	x, err := strconv.ParseUint(strings.TrimSpace(xs), 10, 8)
	if err != nil {
		return sprite.Sprite{}, fmt.Errorf("%w: sprite %q: %v", ErrInvalid, v, err)
	}
	y, err := strconv.ParseUint(strings.TrimSpace(ys), 10, 8)
	if err != nil {
		return sprite.Sprite{}, fmt.Errorf("%w: sprite %q: %v", ErrInvalid, v, err)
	}

	return sprite.Sprite{X: uint8(x), Y: uint8(y)}, nil
}
