package workers

import (
	"context"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain/event"
)

// EventFanout delivers relay events to their audience.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering across senders, durability, or retries. EventFanout is not a
// message broker.
//
// Permanent sinks (disk, projections) are consumed first, so a message
// is persisted before delivery to any connection is attempted. The
// audience was resolved by the relay worker at routing time; a
// connection that vanished since is skipped.
type EventFanout struct {
	Log            *slog.Logger
	Name           contract.WorkerName
	table          contract.ISessionTable
	permanentSinks []contract.EventSink
	events         chan event.DomainEvent
}

func NewEventFanout(log *slog.Logger, table contract.ISessionTable,
	permanentSinks []contract.EventSink, events chan event.DomainEvent) *EventFanout {
	return &EventFanout{
		Log:            log,
		table:          table,
		permanentSinks: permanentSinks,
		events:         events,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.Log.Debug("Context done, stopping fanout")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout pushes one event through every permanent sink and then to each
// connection in its audience. A sink error is logged and never stops
// the remaining deliveries.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, s := range w.permanentSinks {
		if err := s.Consume(ctx, evt); err != nil {
			w.Log.Error("Sink failed to consume event", "error", err)
		}
	}

	for _, connID := range evt.Audience() {
		s, ok := w.table.SinkOf(connID)
		if !ok {
			continue
		}
		if err := s.Consume(ctx, evt); err != nil {
			w.Log.Error("Connection sink failed", "conn", connID, "error", err)
		}
	}
}
