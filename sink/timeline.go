package sink

import (
	"context"
	"sync"

	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Timeline keeps an in-memory window of the most recent sanitized
// messages. It is a projection for introspection and tests; the durable
// history lives in the repository.
type Timeline struct {
	mu       sync.Mutex
	limit    int
	messages []domain.Message
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.SanitizedMessage)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, fromEvent(evt))
	if t.limit > 0 && len(t.messages) > t.limit {
		t.messages = t.messages[len(t.messages)-t.limit:]
	}
	return nil
}

// Recent returns a copy of the retained window, oldest first.
func (t *Timeline) Recent() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func fromEvent(event event.SanitizedMessage) domain.Message {
	return domain.Message{
		ID:       event.ID,
		Username: event.Username,
		Text:     event.Text,
		At:       event.At,
		To:       event.To,
	}
}
