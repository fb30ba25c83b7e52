package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/mocks"
)

func TestSessionTable_AttachedButUnregistered(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	table := NewSessionTable()

	table.Attach("conn-a", mocks.NewMockEventSink(ctrl))

	// An attached connection is visible but owns no name yet
	req.ElementsMatch([]string{"conn-a"}, table.Connections())
	req.Empty(table.Snapshot())
	req.Empty(table.Sessions())

	_, ok := table.Username("conn-a")
	req.False(ok)

	sink, ok := table.SinkOf("conn-a")
	req.True(ok)
	req.NotNil(sink)
}

func TestSessionTable_RegistrationOrder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	table := NewSessionTable()

	table.Attach("conn-a", mocks.NewMockEventSink(ctrl))
	table.Attach("conn-b", mocks.NewMockEventSink(ctrl))
	table.Attach("conn-c", mocks.NewMockEventSink(ctrl))
	table.Register("conn-b", "bob")
	table.Register("conn-a", "alice")
	table.Register("conn-c", "clara")

	// Snapshot and Sessions follow first-registration order, not attach order
	req.Equal([]string{"bob", "alice", "clara"}, table.Snapshot())
	req.Equal([]string{"conn-b", "conn-a", "conn-c"}, table.Sessions())

	connID, ok := table.Resolve("alice")
	req.True(ok)
	req.Equal("conn-a", connID)
}

func TestSessionTable_DuplicateUsernameSupersedes(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	table := NewSessionTable()

	table.Attach("conn-a", mocks.NewMockEventSink(ctrl))
	table.Attach("conn-b", mocks.NewMockEventSink(ctrl))
	table.Register("conn-a", "alice")

	// When a second connection claims the same name
	table.Register("conn-b", "alice")

	// Then the name resolves to the newcomer
	connID, ok := table.Resolve("alice")
	req.True(ok)
	req.Equal("conn-b", connID)

	// And the superseded connection still sends under the name
	username, ok := table.Username("conn-a")
	req.True(ok)
	req.Equal("alice", username)

	// The name appears once in the presence list
	req.Equal([]string{"alice"}, table.Snapshot())

	// Detaching the superseded connection must not free the name
	_, freed := table.Detach("conn-a")
	req.False(freed)
	req.Equal([]string{"alice"}, table.Snapshot())

	// Detaching the owner does
	username, freed = table.Detach("conn-b")
	req.True(freed)
	req.Equal("alice", username)
	req.Empty(table.Snapshot())
}

func TestSessionTable_Rename(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	table := NewSessionTable()

	table.Attach("conn-a", mocks.NewMockEventSink(ctrl))
	table.Register("conn-a", "alice")
	table.Register("conn-a", "alicia")

	// The old name is released, the new one takes its place
	_, ok := table.Resolve("alice")
	req.False(ok)
	connID, ok := table.Resolve("alicia")
	req.True(ok)
	req.Equal("conn-a", connID)
	req.Equal([]string{"alicia"}, table.Snapshot())
}

func TestSessionTable_DetachUnknownIsNoop(t *testing.T) {
	req := require.New(t)
	table := NewSessionTable()

	username, freed := table.Detach("ghost")
	req.False(freed)
	req.Empty(username)
	req.Empty(table.Connections())
}
