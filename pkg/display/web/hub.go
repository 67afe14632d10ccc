package web

import (
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/alien8/pkg/display"
)

// hub keeps track of the connected clients and the settings they
// share, and fans messages out to them.
type hub struct {
	game display.Game
	keys *display.KeyHandler

	clients              map[*client]bool
	broadcast            chan []byte
	register, unregister chan *client
	// joined receives clients once registered, so that the
	// driver can bring them up to date.
	joined  chan *client
	unicast chan message
	done    chan struct{}

	settings  settings
	currentID uint8

	mu sync.Mutex
}

func newHub(game display.Game, keys *display.KeyHandler, s settings) *hub {
	return &hub{
		game:       game,
		keys:       keys,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		joined:     make(chan *client, 16),
		unicast:    make(chan message, 16),
		done:       make(chan struct{}),
		settings:   s,
	}
}

// ServeHTTP upgrades the connection to a websocket and starts the
// client's pumps.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // upgrader has already replied with an error
	}

	c := h.newClient(conn)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// run handles registration and broadcasting until stop is closed.
func (h *hub) run(stop <-chan struct{}) {
	defer close(h.done)

	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			c.send <- h.clientInfo()
			select {
			case h.joined <- c:
			default:
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case m := <-h.unicast:
			if _, ok := h.clients[m.to]; ok {
				select {
				case m.to.send <- m.data:
				default:
				}
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// client can't keep up
					close(c.send)
					delete(h.clients, c)
				}
			}
		case <-t.C:
			h.sendAll(h.serverInfo())
		case <-stop:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

// sendAll sends msg to every client. It must only be called from
// run.
func (h *hub) sendAll(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// publish queues msg for every client, dropping it once the hub
// has stopped.
func (h *hub) publish(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// message is a message for a single client.
type message struct {
	to   *client
	data []byte
}

// sendTo queues msg for c alone.
func (h *hub) sendTo(c *client, msg []byte) {
	select {
	case h.unicast <- message{to: c, data: msg}:
	case <-h.done:
	}
}

// apply changes one of the shared settings.
func (h *hub) apply(setting Setting, value uint8) {
	h.mu.Lock()
	switch setting {
	case Compression:
		h.settings.compression = value == 1
	case CompressionLevel:
		h.settings.compressionLevel = int(value)
	case FramePatching:
		h.settings.framePatching = value == 1
	case FrameSkipping:
		h.settings.frameSkipping = value == 1
	case FramePatchRatio:
		h.settings.framePatchRatio = int(value)
	case FrameCaching:
		h.settings.frameCaching = value == 1
	}
	h.mu.Unlock()
}

// current returns a copy of the shared settings.
func (h *hub) current() settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// info returns a byte describing the game and hub settings,
// constructed as follows:
//
//	Bit 0: game running
//	Bit 1: compression enabled
//	Bit 2: frame patching enabled
//	Bit 3: frame skipping enabled
//	Bit 4: game paused
//	Bit 5: frame caching enabled
func (h *hub) info() byte {
	s := h.current()
	info := uint8(0)
	status := h.game.Status()
	if status.IsRunning() {
		info |= infoRunning
	}
	if status.IsPaused() {
		info |= infoPaused
	}
	if s.compression {
		info |= infoCompression
	}
	if s.framePatching {
		info |= infoFramePatching
	}
	if s.frameSkipping {
		info |= infoFrameSkipping
	}
	if s.frameCaching {
		info |= infoFrameCaching
	}

	return info
}

// clientInfo builds a ClientInfo message: the info byte, the
// compression level, the patch ratio and the frame dimensions.
func (h *hub) clientInfo() []byte {
	s := h.current()
	width, height := h.game.Size()

	msg := []byte{ClientInfo, h.info(), uint8(s.compressionLevel), uint8(s.framePatchRatio)}
	msg = binary.LittleEndian.AppendUint16(msg, uint16(width))
	return binary.LittleEndian.AppendUint16(msg, uint16(height))
}

// serverInfo builds a ServerInfo message listing every client ID,
// its average latency in milliseconds and how long it has been
// connected in seconds.
func (h *hub) serverInfo() []byte {
	data := []byte{ServerInfo}
	for c := range h.clients {
		data = append(data, c.id)
		data = binary.LittleEndian.AppendUint16(data, uint16(c.latency.Load()))
		data = binary.LittleEndian.AppendUint32(data, uint32(time.Since(c.connectedAt).Seconds()))
	}
	return data
}

func (h *hub) newClient(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentID++

	return &client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, 256),
		id:          h.currentID,
		connectedAt: time.Now(),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
