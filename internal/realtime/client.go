// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package realtime

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds a single websocket write.
const writeWait = 10 * time.Second

// Client adapts a websocket connection to the Subscriber interface. All
// writes come from the hub's run loop, so no write lock is needed.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger
}

// NewClient constructs a client wrapper.
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{conn: conn, logger: logger}
}

// Send writes a message to the websocket connection.
func (c *Client) Send(payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Warn("websocket send failed", "error", err)
		_ = c.conn.Close()
		return err //nolint:wrapcheck // subscriber contract: raw error drops the client
	}
	return nil
}

// Close terminates the connection.
func (c *Client) Close() {
	_ = c.conn.Close()
}

// ReadUntilClose drains inbound frames until the connection drops. Clients
// never send application data; reading is only how the server learns about
// disconnects and answers control frames.
func (c *Client) ReadUntilClose() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Compile-time interface check.
var _ Subscriber = (*Client)(nil)
