package sink

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/domain/event"
	"chat-relay/observability"
	"chat-relay/repositories"
)

// DiskSink persists sanitized messages. It runs before any connection
// sink in the fanout order, so a message is on disk before delivery is
// attempted. Persistence failures are reported but never block delivery.
type DiskSink struct {
	repository repositories.IMessageRepository
	stats      *observability.RelayStats
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IMessageRepository, stats *observability.RelayStats, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, stats: stats, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.SanitizedMessage:
		if err := d.repository.StoreMessage(toDiskMessage(evt)); err != nil {
			d.stats.IncrStorageErrors()
			return err
		}
		d.stats.IncrMessagesPersisted()
		return nil
	default:
		d.log.Debug(fmt.Sprintf("Not a persisted event : %T", evt))
		return nil
	}
}

func toDiskMessage(event event.SanitizedMessage) repositories.DiskMessage {
	return repositories.DiskMessage{
		ID:       event.ID,
		Username: event.Username,
		Text:     event.Text,
		At:       event.At,
		To:       event.To,
	}
}
