package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/domain/command"
	"chat-relay/sink"
)

const (
	pongWait      = 60 * time.Second
	pingInterval  = 54 * time.Second
	writeDeadline = 10 * time.Second
)

// Conn pairs one WebSocket with its delivery sink. The read pump turns
// inbound frames into commands; the write pump drains the sink and
// encodes events back onto the wire.
type Conn struct {
	id         string
	ws         *websocket.Conn
	sink       *sink.ConnectionSink
	dispatcher Dispatcher
	log        *slog.Logger
}

func newConn(id string, ws *websocket.Conn, snk *sink.ConnectionSink,
	dispatcher Dispatcher, log *slog.Logger) *Conn {
	return &Conn{id: id, ws: ws, sink: snk, dispatcher: dispatcher, log: log}
}

// readPump owns the connection teardown: whatever ends the loop, the
// relay gets exactly one Disconnect for this connection.
func (c *Conn) readPump() {
	defer func() {
		c.dispatcher.Dispatch(command.Disconnect{Conn: c.id})
		_ = c.ws.Close()
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected WebSocket error", "conn", c.id, "error", err)
			}
			return
		}

		cmd, err := Decode(c.id, raw)
		if err != nil {
			// A malformed frame is isolated to this connection and
			// never reaches the core.
			c.log.Debug("Rejected inbound frame", "conn", c.id, "error", err)
			continue
		}
		c.dispatcher.Dispatch(cmd)
	}
}

func (c *Conn) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case evt := <-c.sink.Events:
			frame, ok := Encode(evt)
			if !ok {
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.ws.WriteJSON(frame); err != nil {
				c.log.Debug("Write failed, closing connection", "conn", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
