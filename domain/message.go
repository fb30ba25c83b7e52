// Package domain contains core concepts of the chat relay.
// This file defines Message events and related rules.
// Messages are immutable and validated at the transport boundary.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
// A nil To means the message is a broadcast; otherwise it is directed
// to a single username and echoed to the sender only.
type Message struct {
	ID       uuid.UUID
	Username string
	Text     string
	At       time.Time // always UTC
	To       *string
}

// Directed reports whether the message targets a single recipient.
func (m Message) Directed() bool {
	return m.To != nil
}
