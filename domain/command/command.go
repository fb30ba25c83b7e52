// Package command defines the closed set of inbound commands accepted
// by the relay. The transport validates payloads before building these,
// so the core never sees malformed input.
package command

import "chat-relay/contract"

// Command is implemented by every inbound relay command.
type Command interface {
	ConnID() string
}

// Connect announces a new transport connection and its delivery sink.
type Connect struct {
	Conn string
	Sink contract.EventSink
}

func (c Connect) ConnID() string { return c.Conn }

// Register binds a display name to the connection.
type Register struct {
	Conn     string
	Username string
}

func (c Register) ConnID() string { return c.Conn }

// Post routes a chat message. A nil To means broadcast.
type Post struct {
	Conn string
	Text string
	To   *string
}

func (c Post) ConnID() string { return c.Conn }

// Typing signals that the user behind the connection is typing.
type Typing struct {
	Conn string
}

func (c Typing) ConnID() string { return c.Conn }

// Disconnect tears the connection down. It is idempotent.
type Disconnect struct {
	Conn string
}

func (c Disconnect) ConnID() string { return c.Conn }
