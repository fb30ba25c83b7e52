package sink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"chat-relay/domain/event"
	"chat-relay/observability"
)

func TestConnectionSink_DropsWhenBufferFull(t *testing.T) {
	req := require.New(t)
	stats := observability.NewRelayStats()
	sink := NewConnectionSink(1, stats, logs.GetLoggerFromLevel(slog.LevelDebug))
	ctx := context.Background()

	// First event fills the buffer
	req.NoError(sink.Consume(ctx, event.TypingStarted{Username: "alice"}))
	// Second one is dropped, never blocking the fanout
	req.NoError(sink.Consume(ctx, event.TypingStarted{Username: "bob"}))

	req.Equal(uint64(1), stats.Read().DeliveryDrops)
	req.Len(sink.Events, 1)

	buffered := <-sink.Events
	typing, ok := buffered.(event.TypingStarted)
	req.True(ok)
	req.Equal("alice", typing.Username)
}
