// Package ipc carries protocol envelopes between the front end and the
// host process over a websocket. It is a thin framing layer; nothing
// above it sees websocket types.
package ipc

import (
	"context"
	"fmt"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/mkern/scribe/internal/protocol"
)

// Conn is one live connection to the host.
type Conn struct {
	ws *websocket.Conn
}

// Dial connects to the host's IPC endpoint.
func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ipc dial %s: %w", url, err)
	}
	// Dictionary payloads are whole files; lift the default read limit.
	ws.SetReadLimit(32 << 20)
	return &Conn{ws: ws}, nil
}

// Receive blocks until the next inbound envelope arrives.
func (c *Conn) Receive(ctx context.Context) (protocol.Envelope, error) {
	var env protocol.Envelope
	if err := wsjson.Read(ctx, c.ws, &env); err != nil {
		return protocol.Envelope{}, fmt.Errorf("ipc receive: %w", err)
	}
	return env, nil
}

// Send writes one outbound envelope.
func (c *Conn) Send(ctx context.Context, env protocol.Envelope) error {
	if err := wsjson.Write(ctx, c.ws, env); err != nil {
		return fmt.Errorf("ipc send %s: %w", env.Command, err)
	}
	return nil
}

// Close shuts the connection down cleanly.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "shutting down")
}
