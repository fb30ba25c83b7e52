// Package event defines the closed set of outbound events produced by
// the relay core. Each event carries the connection ids it must reach,
// resolved by the relay at the moment the triggering mutation happened.
package event

import (
	"time"

	"github.com/google/uuid"

	"chat-relay/domain"
)

// DomainEvent is implemented by every outbound relay event.
// Audience returns the connection ids the event targets. Delivery is
// best effort: a connection gone by delivery time is simply skipped.
type DomainEvent interface {
	Audience() []string
}

// MessagePosted is a routed chat message before moderation. It never
// reaches a client directly; the moderation stage rewrites it into a
// SanitizedMessage.
type MessagePosted struct {
	ID       uuid.UUID
	Username string
	Text     string
	At       time.Time
	To       *string
	Conns    []string
}

func (e MessagePosted) Audience() []string { return e.Conns }

// SanitizedMessage is a chat message ready for persistence and delivery.
type SanitizedMessage struct {
	ID       uuid.UUID
	Username string
	Text     string
	At       time.Time
	To       *string
	Lang     string
	Conns    []string
}

func (e SanitizedMessage) Audience() []string { return e.Conns }

// HistoryServed carries the recent message window sent privately to a
// connection that just registered, oldest first.
type HistoryServed struct {
	Messages []domain.Message
	Conns    []string
}

func (e HistoryServed) Audience() []string { return e.Conns }

// PresenceChanged carries the full online user list in registration order.
type PresenceChanged struct {
	Users []string
	Conns []string
}

func (e PresenceChanged) Audience() []string { return e.Conns }

// PaletteChanged carries the full username to color mapping.
type PaletteChanged struct {
	Colors map[string]string
	Conns  []string
}

func (e PaletteChanged) Audience() []string { return e.Conns }

// TypingStarted notifies every other session that a user is typing.
type TypingStarted struct {
	Username string
	Conns    []string
}

func (e TypingStarted) Audience() []string { return e.Conns }
