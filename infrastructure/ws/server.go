// Package ws is the WebSocket transport boundary of the relay. It
// upgrades HTTP connections, validates inbound frames, and feeds the
// relay's command mailbox; outbound events arrive through per-connection
// sinks and are encoded back onto the wire.
package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-relay/domain/command"
	"chat-relay/observability"
	"chat-relay/sink"
)

// Dispatcher accepts inbound relay commands.
type Dispatcher interface {
	Dispatch(cmd command.Command)
}

// Server upgrades incoming HTTP requests into relay connections.
type Server struct {
	ctx            context.Context
	log            *slog.Logger
	dispatcher     Dispatcher
	stats          *observability.RelayStats
	bufferSize     int
	maxMessageSize int64
	upgrader       websocket.Upgrader
}

func NewServer(ctx context.Context, log *slog.Logger, dispatcher Dispatcher,
	stats *observability.RelayStats, bufferSize int, maxMessageSize int64) *Server {
	return &Server{
		ctx:            ctx,
		log:            log,
		dispatcher:     dispatcher,
		stats:          stats,
		bufferSize:     bufferSize,
		maxMessageSize: maxMessageSize,
		upgrader: websocket.Upgrader{
			// Any origin may connect, matching the relay's open CORS policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler exposing the relay endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(s.maxMessageSize)

	connID := uuid.NewString()
	snk := sink.NewConnectionSink(s.bufferSize, s.stats, s.log)
	s.dispatcher.Dispatch(command.Connect{Conn: connID, Sink: snk})
	s.log.Info("Client connected", "conn", connID, "remote", r.RemoteAddr)

	c := newConn(connID, conn, snk, s.dispatcher, s.log)
	go c.writePump(s.ctx)
	go c.readPump()
}
