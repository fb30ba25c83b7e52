package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatRelaySuite struct {
	BaseWsSuite
}

func TestChatRelaySuite(t *testing.T) {
	suite.Run(t, &testChatRelaySuite{})
}

type wireMessage struct {
	Username  string  `json:"username"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
	To        *string `json:"to,omitempty"`
}

// uniqueName keeps scenarios independent from leftovers of previous runs
// against the same relay instance.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

func (s *testChatRelaySuite) TestBroadcastReachesEveryoneIncludingSender() {
	alice := uniqueName("alice")
	bob := uniqueName("bob")

	a := s.Connect(alice)
	defer a.Close()
	b := s.Connect(bob)
	defer b.Close()

	// Both got their history on registration
	a.Expect("history")
	b.Expect("history")

	text := "hello room " + uuid.New().String()
	a.Send("message", map[string]any{"text": text})

	for _, c := range []*client{a, b} {
		var msg wireMessage
		for {
			f := c.Expect("message")
			c.payloadOf(f, &msg)
			if msg.Text == text {
				break
			}
		}
		s.Require().Equal(alice, msg.Username)
		s.Require().Nil(msg.To)
		_, err := time.Parse(time.RFC3339Nano, msg.Timestamp)
		s.Require().NoError(err)
	}
}

func (s *testChatRelaySuite) TestDirectedMessageStaysPrivate() {
	alice := uniqueName("alice")
	bob := uniqueName("bob")
	clara := uniqueName("clara")

	a := s.Connect(alice)
	defer a.Close()
	b := s.Connect(bob)
	defer b.Close()
	c := s.Connect(clara)
	defer c.Close()

	a.Expect("history")
	b.Expect("history")
	c.Expect("history")

	text := "secret " + uuid.New().String()
	a.Send("message", map[string]any{"text": text, "to": bob})

	// The sender gets the echo, the recipient gets the message
	for _, participant := range []*client{a, b} {
		var msg wireMessage
		for {
			f := participant.Expect("message")
			participant.payloadOf(f, &msg)
			if msg.Text == text {
				break
			}
		}
		s.Require().Equal(alice, msg.Username)
		s.Require().NotNil(msg.To)
		s.Require().Equal(bob, *msg.To)
	}

	// The third participant never sees it
	c.ExpectSilence("message", 1*time.Second)
}

func (s *testChatRelaySuite) TestPresenceListGrowsInRegistrationOrder() {
	alice := uniqueName("alice")
	bob := uniqueName("bob")

	a := s.Connect(alice)
	defer a.Close()
	a.Expect("history")

	b := s.Connect(bob)
	defer b.Close()

	// When bob joins, alice receives a refreshed user list holding both
	var users struct {
		Users []string `json:"users"`
	}
	for {
		f := a.Expect("user_list")
		a.payloadOf(f, &users)
		if contains(users.Users, bob) {
			break
		}
	}
	s.Require().Less(indexOf(users.Users, alice), indexOf(users.Users, bob))

	// And a color map covering both
	var colors struct {
		Colors map[string]string `json:"colors"`
	}
	for {
		f := a.Expect("user_colors")
		a.payloadOf(f, &colors)
		if _, ok := colors.Colors[bob]; ok {
			break
		}
	}
	s.Require().NotEmpty(colors.Colors[alice])
	s.Require().NotEmpty(colors.Colors[bob])
}

func (s *testChatRelaySuite) TestTypingNeverEchoesToSender() {
	alice := uniqueName("alice")
	bob := uniqueName("bob")

	a := s.Connect(alice)
	defer a.Close()
	b := s.Connect(bob)
	defer b.Close()
	a.Expect("history")
	b.Expect("history")

	a.Send("typing", map[string]any{})

	var typing struct {
		Username string `json:"username"`
	}
	f := b.Expect("typing")
	b.payloadOf(f, &typing)
	s.Require().Equal(alice, typing.Username)

	a.ExpectSilence("typing", 1*time.Second)
}

func (s *testChatRelaySuite) TestHistoryReplaysOnRegistration() {
	alice := uniqueName("alice")

	a := s.Connect(alice)
	a.Expect("history")
	text := "for the record " + uuid.New().String()
	a.Send("message", map[string]any{"text": text})

	// Wait for the echo so the message is persisted before reconnecting
	var msg wireMessage
	for {
		f := a.Expect("message")
		a.payloadOf(f, &msg)
		if msg.Text == text {
			break
		}
	}
	a.Close()

	// A fresh registration must receive that message in its history
	again := s.Connect(uniqueName("bob"))
	defer again.Close()

	var history struct {
		Messages []wireMessage `json:"messages"`
	}
	f := again.Expect("history")
	again.payloadOf(f, &history)
	s.Require().True(containsText(history.Messages, text))
}

func contains(values []string, wanted string) bool {
	return indexOf(values, wanted) >= 0
}

func indexOf(values []string, wanted string) int {
	for i, v := range values {
		if v == wanted {
			return i
		}
	}
	return -1
}

func containsText(messages []wireMessage, text string) bool {
	for _, m := range messages {
		if m.Text == text {
			return true
		}
	}
	return false
}
