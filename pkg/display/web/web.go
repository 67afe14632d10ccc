// Package web provides a display driver that streams frames to
// browsers over a websocket. Unchanged frames are skipped, small
// changes are sent as patches of the changed pixels, and payloads
// may be compressed with brotli. Recently sent payloads are kept
// in xxhash keyed caches mirrored by the clients, so a repeated
// frame costs three bytes.
package web

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/display"
	"github.com/thelolagemann/alien8/pkg/display/event"
)

func init() {
	driver := &webDriver{}
	display.Install("web", driver, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &driver.addr,
			Type:        "string",
			Description: "Address to listen for websocket connections on",
		},
		{
			Name:        "compression",
			Default:     false,
			Value:       &driver.compression,
			Type:        "bool",
			Description: "Compress frames with brotli",
		},
		{
			Name:        "compression-level",
			Default:     7,
			Value:       &driver.compressionLevel,
			Type:        "int",
			Description: "Brotli quality level (0-11)",
		},
		{
			Name:        "frame-patching",
			Default:     true,
			Value:       &driver.framePatching,
			Type:        "bool",
			Description: "Send the changed pixels instead of a full frame when few have changed",
		},
		{
			Name:        "frame-patch-ratio",
			Default:     50,
			Value:       &driver.framePatchRatio,
			Type:        "int",
			Description: "Largest patch to send, as a percentage of a full frame",
		},
		{
			Name:        "frame-skipping",
			Default:     true,
			Value:       &driver.frameSkipping,
			Type:        "bool",
			Description: "Don't send frames that haven't changed",
		},
		{
			Name:        "frame-caching",
			Default:     true,
			Value:       &driver.frameCaching,
			Type:        "bool",
			Description: "Send repeated frames and patches as a reference to the client's cache",
		},
		{
			Name:        "cache-size",
			Default:     16,
			Value:       &driver.cacheSize,
			Type:        "int",
			Description: "Number of frames and patches each client caches",
		},
	})
}

type webDriver struct {
	addr             string
	compression      bool
	compressionLevel int
	framePatching    bool
	framePatchRatio  int
	frameSkipping    bool
	frameCaching     bool
	cacheSize        int

	game   display.Game
	server *http.Server
}

func (w *webDriver) Initialize(game display.Game) {
	w.game = game
}

// Start serves clients until the game quits or the server fails.
func (w *webDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- input.Intent) error {
	width, height := w.game.Size()
	addr := w.addr
	if addr == "" {
		addr = ":8090"
	}

	h := newHub(w.game, display.NewKeyHandler(w.game, pressed, released), settings{
		compression:      w.compression,
		compressionLevel: w.compressionLevel,
		framePatching:    w.framePatching,
		framePatchRatio:  w.framePatchRatio,
		frameSkipping:    w.frameSkipping,
		frameCaching:     w.frameCaching,
	})
	enc := newEncoder(width, height, w.cacheSize, brotli)

	stop := make(chan struct{})
	defer close(stop)
	go h.run(stop)

	mux := http.NewServeMux()
	mux.Handle("/", h)
	w.server = &http.Server{Addr: addr, Handler: mux}

	errs := make(chan error, 1)
	go func() {
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	for {
		select {
		case frame := <-frames:
			msgs, err := enc.encode(frame, h.current())
			for _, msg := range msgs {
				h.publish(msg)
			}
			if err != nil {
				continue // drop the frame, the next one will catch up
			}
		case c := <-h.joined:
			msgs, err := enc.sync(h.current())
			if err != nil {
				continue
			}
			for _, msg := range msgs {
				h.sendTo(c, msg)
			}
		case e := <-evts:
			switch e.Type {
			case event.Title:
				h.publish(append([]byte{Title}, e.Data.(string)...))
			case event.FrameTime:
				h.publish(frameTimes(e.Data.([]time.Duration)))
			case event.Quit:
				return nil
			}
		case err := <-errs:
			w.game.SendCommand(display.Close)
			return fmt.Errorf("web: listening on %s: %w", addr, err)
		}
	}
}

// Stop shuts the http server down.
func (w *webDriver) Stop() error {
	if w.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return w.server.Shutdown(ctx)
}

// frameTimes builds a FrameTimes message holding the average
// and worst frame time in microseconds.
func frameTimes(times []time.Duration) []byte {
	var sum, worst time.Duration
	for _, t := range times {
		sum += t
		if t > worst {
			worst = t
		}
	}
	var avg time.Duration
	if len(times) > 0 {
		avg = sum / time.Duration(len(times))
	}

	msg := binary.LittleEndian.AppendUint32([]byte{FrameTimes}, uint32(avg.Microseconds()))
	return binary.LittleEndian.AppendUint32(msg, uint32(worst.Microseconds()))
}

func brotli(data []byte, level int) ([]byte, error) {
	return cbrotli.Encode(data, cbrotli.WriterOptions{Quality: level})
}
