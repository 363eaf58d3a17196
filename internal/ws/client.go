package ws

import (
	"context"
	"log/slog"
	"time"

	"arcade/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 1024
	sendBuffer     = 256
)

// Client owns the websocket connection of one session. The session loop is the
// only writer to Send; Send is closed once that loop has returned.
type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
	Send     chan []byte
	Session  *Session
	Done     chan struct{}

	log *slog.Logger
}

func NewClient(playerID int64, conn *websocket.Conn) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		Done:     make(chan struct{}),
	}
}

// Run starts both pumps and blocks in the session loop until the peer goes
// away or ctx is cancelled. Pump errors are logged with the attributes
// stored on ctx by logger.NewContext.
func (c *Client) Run(ctx context.Context) {
	c.log = logger.WithContext(ctx)
	go c.writePump()
	go c.readPump()

	c.Session.Run(ctx)

	close(c.Send)
	<-c.Done
}

// read
func (c *Client) readPump() {
	defer func() {
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("ws read error", "error", err)
			}
			return
		}
		c.Session.Deliver(msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("ws write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
