// Command render runs the game without a display and writes the
// final frame to an image, for checking layouts and colours.
//
//	render -sprite 4,4 -sprite 40,20 -frames 30 -hold down,right -out frame.png
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thelolagemann/alien8/internal/compositor"
	"github.com/thelolagemann/alien8/internal/game"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/config"
	"github.com/thelolagemann/alien8/pkg/log"
	"github.com/thelolagemann/alien8/pkg/utils"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	frames := flag.Int("frames", 1, "Number of frames to run, 0 writes the initial layout")
	hold := flag.String("hold", "", "Comma separated directions held for every frame (left, right, up, down)")
	out := flag.String("out", "frame.png", "The image to write, .png or .bmp")
	flag.Parse()

	cfg, err := flags.Config()
	if err != nil {
		log.Fatal(err.Error())
	}
	logger := log.New(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err.Error())
	}
	if *frames < 0 {
		logger.Fatal(fmt.Sprintf("invalid frame count %d", *frames))
	}

	intents, err := parseIntents(*hold)
	if err != nil {
		logger.Fatal(err.Error())
	}

	opts := []compositor.Opt{
		compositor.WithBackground(cfg.Background.RGBA()),
		compositor.WithHighlight(cfg.Highlight.RGBA()),
	}
	if cfg.Backdrop != "" {
		backdrop, err := utils.LoadImage(cfg.Backdrop)
		if err != nil {
			logger.Fatal(err.Error())
		}
		opts = append(opts, compositor.WithBackdrop(backdrop))
	}

	g, err := game.New(
		game.WithSize(cfg.Width, cfg.Height),
		game.WithSprites(cfg.Sprites...),
		game.WithPlayer(cfg.Player),
		game.WithCompositorOpts(opts...),
		game.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal(err.Error())
	}

	for _, i := range intents {
		g.Press(i)
	}
	for i := 0; i < *frames; i++ {
		g.Frame()
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal(err.Error())
	}
	defer f.Close()

	format := strings.TrimPrefix(filepath.Ext(*out), ".")
	if err := utils.EncodeImage(f, g.Image(), format); err != nil {
		logger.Fatal(err.Error())
	}
	logger.Infof("wrote frame %d to %s", *frames, *out)
}

func parseIntents(s string) ([]input.Intent, error) {
	if s == "" {
		return nil, nil
	}
	var intents []input.Intent
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		found := false
		for i := input.Left; i <= input.Down; i++ {
			if strings.ToLower(input.Name(i)) == name {
				intents = append(intents, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown direction %q", name)
		}
	}
	return intents, nil
}
