package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"

	"github.com/thelolagemann/alien8/internal/compositor"
	"github.com/thelolagemann/alien8/internal/game"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/config"
	"github.com/thelolagemann/alien8/pkg/display"
	"github.com/thelolagemann/alien8/pkg/display/event"
	_ "github.com/thelolagemann/alien8/pkg/display/fyne"
	_ "github.com/thelolagemann/alien8/pkg/display/glfw"
	_ "github.com/thelolagemann/alien8/pkg/display/sdl"
	_ "github.com/thelolagemann/alien8/pkg/display/web"
	"github.com/thelolagemann/alien8/pkg/log"
	"github.com/thelolagemann/alien8/pkg/stats"
	"github.com/thelolagemann/alien8/pkg/utils"
)

func main() {
	if len(display.InstalledDrivers) == 0 {
		log.Fatal("No display drivers installed. Please compile with at least one display driver")
	}

	flags := config.RegisterFlags(flag.CommandLine)
	pprof := flag.String("pprof", "", "Address to serve pprof on, e.g. localhost:6060")
	display.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Config()
	if err != nil {
		log.Fatal(err.Error())
	}
	logger := log.New(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err.Error())
	}

	if *pprof != "" {
		go func() {
			if err := http.ListenAndServe(*pprof, nil); err != nil {
				logger.Errorf("pprof: %s", err)
			}
		}()
	}

	compositorOpts := []compositor.Opt{
		compositor.WithBackground(cfg.Background.RGBA()),
		compositor.WithHighlight(cfg.Highlight.RGBA()),
	}
	if cfg.Backdrop != "" {
		backdrop, err := utils.LoadImage(cfg.Backdrop)
		if err != nil {
			logger.Fatal(err.Error())
		}
		logger.Debugf("loaded backdrop %s (%dx%d)", cfg.Backdrop, backdrop.Rect.Dx(), backdrop.Rect.Dy())
		compositorOpts = append(compositorOpts, compositor.WithBackdrop(backdrop))
	}

	// keep ten seconds worth of frame times
	frameTimes := stats.NewRecorder(int(cfg.FrameRate * cfg.Speed * 10))

	g, err := game.New(
		game.WithSize(cfg.Width, cfg.Height),
		game.WithSprites(cfg.Sprites...),
		game.WithPlayer(cfg.Player),
		game.WithCompositorOpts(compositorOpts...),
		game.FrameRate(cfg.FrameRate),
		game.Speed(cfg.Speed),
		game.WithTitle(cfg.Title),
		game.WithScreenshots(cfg.Screenshots, cfg.ScreenshotFormat),
		game.WithLogger(logger),
		game.WithFrameTimes(frameTimes),
	)
	if err != nil {
		logger.Fatal(err.Error())
	}

	driver := display.GetDriver(cfg.Driver)

	// check to make sure the driver is valid
	if driver == nil {
		logger.Fatal("invalid display driver " + cfg.Driver)
	}

	// attach game to driver
	driver.Initialize(g)

	// create framebuffer
	fb := make(chan []byte, 60)

	// create various channels
	events := make(chan event.Event, 60)
	pressed := make(chan input.Intent, 10)
	released := make(chan input.Intent, 10)

	// start game in a goroutine
	g.Run(fb, events, pressed, released)

	if err := driver.Start(fb, events, pressed, released); err != nil {
		logger.Errorf("display driver: %s", err)
	}
	g.SendCommand(display.Close)
	if err := driver.Stop(); err != nil {
		logger.Errorf("stopping display driver: %s", err)
	}

	if cfg.Stats != "" {
		if err := frameTimes.WritePlot(cfg.Stats); err != nil {
			logger.Errorf("writing frame times: %s", err)
		} else {
			logger.Infof("frame times written to %s", cfg.Stats)
		}
	}
}
