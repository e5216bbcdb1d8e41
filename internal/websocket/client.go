package websocket

import (
	"context"
	"time"

	"github.com/coder/websocket"
)

const (
	writeTimeout  = 10 * time.Second
	pingInterval  = 30 * time.Second
	sendQueueSize = 16
)

// Client is a single websocket connection belonging to one household.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	householdID int64
	userID      int64
	send        chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, householdID, userID int64) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		householdID: householdID,
		userID:      userID,
		send:        make(chan []byte, sendQueueSize),
	}
}

// WritePump delivers queued messages and periodic pings to the peer.
// It runs until the connection drops or ctx is cancelled.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// ReadPump drains inbound frames. Clients never send application data,
// but reading is required for the library to process control frames.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.hub.Unregister(c)
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}
