package sink

import (
	"context"
	"log/slog"

	"chat-relay/domain/event"
	"chat-relay/observability"
)

// ConnectionSink buffers events for one transport connection. The write
// side of the connection drains Events and encodes them onto the wire.
type ConnectionSink struct {
	Events chan event.DomainEvent
	stats  *observability.RelayStats
	log    *slog.Logger
}

func NewConnectionSink(bufferSize int, stats *observability.RelayStats, log *slog.Logger) *ConnectionSink {
	return &ConnectionSink{
		Events: make(chan event.DomainEvent, bufferSize),
		stats:  stats,
		log:    log,
	}
}

// Consume is called by the fanout worker. It hands the event to the
// connection's write pump without ever blocking the pipeline: a full
// buffer means the peer is too slow and the event is dropped.
func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.stats.IncrDeliveryDrops()
		s.log.Debug("Connection buffer full, dropping event")
		return nil
	}
}
