package web

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/alien8/pkg/display"
)

type client struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte
	id   uint8

	connectedAt time.Time

	// average round trip time in milliseconds
	latency atomic.Uint32
}

// readPump reads messages from the client until the connection
// is closed.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case Key:
			if len(message) < 3 {
				continue
			}
			key := display.Key(message[1])
			if message[2] == 0 {
				c.hub.keys.Release(key)
			} else {
				c.hub.keys.Press(key)
			}
		case PausePlay:
			if len(message) < 2 {
				continue
			}
			if message[1] == 0 {
				c.hub.game.SendCommand(display.Pause)
			} else {
				c.hub.game.SendCommand(display.Resume)
			}
			c.hub.publish(c.hub.clientInfo())
		case Control:
			if len(message) < 3 {
				continue
			}
			c.hub.apply(message[1], message[2])
			c.hub.publish(c.hub.clientInfo())
		case KeepAlive:
		case Closing:
			return
		}
	}
}

// writePump writes queued messages to the client until the hub
// closes the send channel.
func (c *client) writePump() {
	defer func() {
		c.conn.WriteMessage(websocket.CloseMessage, []byte{})
		c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}

		// update average latency
		if conn, ok := c.conn.UnderlyingConn().(*net.TCPConn); ok {
			if rtt, err := roundTrip(conn); err == nil {
				c.latency.Store((c.latency.Load()*9 + uint32(rtt.Milliseconds())) / 10)
			}
		}
	}
}
