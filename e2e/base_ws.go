package e2e

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

const frameTimeout = 5 * time.Second

type BaseWsSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR not set, skipping end to end scenarios")
	}
}

// frame mirrors the wire envelope of the relay.
type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// client is one websocket participant of a scenario.
type client struct {
	suite *BaseWsSuite
	name  string
	conn  *websocket.Conn
}

// Connect dials the relay and registers under the given username.
func (s *BaseWsSuite) Connect(username string) *client {
	header := fmt.Sprintf("  ====== %s joins ======", username)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	u := url.URL{Scheme: "ws", Host: s.Config.RelayAddr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err, "Failed to connect to relay at "+u.String())

	c := &client{suite: s, name: username, conn: conn}
	c.Send("register", map[string]any{"username": username})
	return c
}

func (c *client) Close() {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}

func (c *client) Send(event string, payload any) {
	raw, err := json.Marshal(payload)
	c.suite.Require().NoError(err)
	f := frame{Event: event, Payload: raw}
	if c.suite.Config.DebugJSON {
		dump, _ := json.Marshal(f)
		c.suite.T().Logf("[%s] >> %s", c.name, dump)
	}
	c.suite.Require().NoError(c.conn.WriteJSON(f))
}

// Expect reads frames until one with the wanted event name shows up,
// skipping unrelated traffic (presence churn, typing). It fails the
// suite when nothing matches within the frame timeout.
func (c *client) Expect(event string) frame {
	deadline := time.Now().Add(frameTimeout)
	for {
		c.suite.Require().NoError(c.conn.SetReadDeadline(deadline))
		var f frame
		err := c.conn.ReadJSON(&f)
		c.suite.Require().NoError(err, "[%s] waiting for %q", c.name, event)
		if c.suite.Config.DebugJSON {
			dump, _ := json.Marshal(f)
			c.suite.T().Logf("[%s] << %s", c.name, dump)
		}
		if f.Event == event {
			return f
		}
	}
}

// ExpectSilence asserts that no frame with the given event name arrives
// within the grace period.
func (c *client) ExpectSilence(event string, grace time.Duration) {
	deadline := time.Now().Add(grace)
	for {
		_ = c.conn.SetReadDeadline(deadline)
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			return // timed out, nothing came
		}
		c.suite.Require().NotEqual(event, f.Event, "[%s] expected silence", c.name)
	}
}

func (c *client) payloadOf(f frame, out any) {
	c.suite.Require().NoError(json.Unmarshal(f.Payload, out))
}
