package workers

import (
	"context"
	"log/slog"

	"github.com/abadojack/whatlanggo"

	"chat-relay/domain/event"
	"chat-relay/moderation"
)

// ModerationWorker rewrites routed messages into their sanitized form
// before they reach persistence and delivery. It is the only consumer
// of the raw message channel, which keeps per-sender ordering intact.
type ModerationWorker struct {
	moderator      moderation.Moderator
	moderationChan chan event.DomainEvent
	events         chan<- event.DomainEvent
	log            *slog.Logger
}

func NewModerationWorker(moderator moderation.Moderator,
	moderationChan chan event.DomainEvent,
	events chan<- event.DomainEvent, log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{
		moderator:      moderator,
		moderationChan: moderationChan,
		events:         events,
		log:            log,
	}
}

func (w ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.moderationChan:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			switch evt := e.(type) {
			case event.MessagePosted:
				select {
				case <-ctx.Done():
					w.log.Debug("Stopping worker")
					return ctx.Err()
				case w.events <- w.toSanitizedEvent(evt):
				}
			default:
				w.log.Debug("Unexpected event on moderation channel")
			}
		}
	}
}

func (w ModerationWorker) toSanitizedEvent(evt event.MessagePosted) event.SanitizedMessage {
	info := whatlanggo.Detect(evt.Text)
	langCode := info.Lang.Iso6391()

	sanitized, foundWords := w.moderator.Censor(evt.Text)
	if len(foundWords) > 0 {
		w.log.Warn("Censored message",
			"author", evt.Username,
			"lang", langCode,
			"words", len(foundWords))
	}

	return event.SanitizedMessage{
		ID:       evt.ID,
		Username: evt.Username,
		Text:     sanitized,
		At:       evt.At,
		To:       evt.To,
		Lang:     langCode,
		Conns:    evt.Conns,
	}
}
