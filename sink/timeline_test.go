package sink

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-relay/domain/event"
)

func TestTimeline_KeepsNewestWindow(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(3)
	ctx := context.Background()

	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := timeline.Consume(ctx, event.SanitizedMessage{
			ID:   uuid.New(),
			Text: fmt.Sprintf("message %d", i),
			At:   at.Add(time.Duration(i) * time.Second),
		})
		req.NoError(err)
	}

	recent := timeline.Recent()
	req.Len(recent, 3)
	req.Equal("message 2", recent[0].Text)
	req.Equal("message 4", recent[2].Text)
}

func TestTimeline_IgnoresOtherEvents(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(10)

	req.NoError(timeline.Consume(context.Background(), event.PresenceChanged{Users: []string{"alice"}}))
	req.Empty(timeline.Recent())
}

func TestTimeline_RecentIsACopy(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(10)

	req.NoError(timeline.Consume(context.Background(), event.SanitizedMessage{Text: "hello"}))

	recent := timeline.Recent()
	recent[0].Text = "mutated"
	req.Equal("hello", timeline.Recent()[0].Text)
}
