package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"chat-relay/domain"
	"chat-relay/domain/command"
	"chat-relay/domain/event"
)

var validate = validator.New()

// Frame is the wire envelope for both directions: an event name and its
// payload. Payload field names are the wire contract.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type registerPayload struct {
	Username string `json:"username" validate:"required,max=32"`
}

type messagePayload struct {
	Text string  `json:"text" validate:"max=4096"`
	To   *string `json:"to" validate:"omitempty,max=32"`
}

// Decode translates one inbound frame into a relay command, validating
// the payload at the boundary so malformed input never reaches the core.
func Decode(connID string, raw []byte) (command.Command, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch frame.Event {
	case "register":
		var p registerPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			return nil, fmt.Errorf("malformed register payload: %w", err)
		}
		if err := validate.Struct(p); err != nil {
			return nil, err
		}
		return command.Register{Conn: connID, Username: p.Username}, nil
	case "message":
		var p messagePayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			return nil, fmt.Errorf("malformed message payload: %w", err)
		}
		if err := validate.Struct(p); err != nil {
			return nil, err
		}
		return command.Post{Conn: connID, Text: p.Text, To: p.To}, nil
	case "typing":
		return command.Typing{Conn: connID}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", frame.Event)
	}
}

type wireMessage struct {
	Username  string  `json:"username"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
	To        *string `json:"to,omitempty"`
}

type outbound struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Encode maps an outbound relay event to its wire frame. The second
// return is false for internal events that never reach a client.
func Encode(e event.DomainEvent) (outbound, bool) {
	switch evt := e.(type) {
	case event.SanitizedMessage:
		return outbound{Event: "message", Payload: wireMessage{
			Username:  evt.Username,
			Text:      evt.Text,
			Timestamp: formatTime(evt.At),
			To:        evt.To,
		}}, true
	case event.HistoryServed:
		messages := lo.Map(evt.Messages, func(m domain.Message, _ int) wireMessage {
			return wireMessage{
				Username:  m.Username,
				Text:      m.Text,
				Timestamp: formatTime(m.At),
				To:        m.To,
			}
		})
		return outbound{Event: "history", Payload: map[string]any{"messages": messages}}, true
	case event.PresenceChanged:
		users := evt.Users
		if users == nil {
			users = []string{}
		}
		return outbound{Event: "user_list", Payload: map[string]any{"users": users}}, true
	case event.PaletteChanged:
		return outbound{Event: "user_colors", Payload: map[string]any{"colors": evt.Colors}}, true
	case event.TypingStarted:
		return outbound{Event: "typing", Payload: map[string]any{"username": evt.Username}}, true
	default:
		return outbound{}, false
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
