package ws

import (
	"time"

	"task_tracker/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 64
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub
	remote string
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
		remote: conn.RemoteAddr().String(),
	}
}

// Run registers the client and blocks until the connection is gone.
func (c *Client) Run() {
	c.Send <- []byte(`{"type":"` + MsgReady + `"}`)

	if !c.hub.Register(c) {
		_ = c.Conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

// the feed is one-way; incoming frames are read only to process control messages
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("feed client read error", "remote", c.remote, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("feed client write error", "remote", c.remote, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
