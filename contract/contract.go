//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-relay/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes outbound relay events. Implementations must be
// safe for calls from the fanout goroutine and must not block; a sink
// that cannot keep up drops events rather than stalling the pipeline.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// ISessionTable is the single source of truth for who is online.
// Attach/Detach follow the transport connection lifecycle; Register
// binds a username to an attached connection. All methods are mutually
// exclusive with respect to each other.
type ISessionTable interface {
	// Attach records a live transport connection and its delivery sink.
	Attach(connID string, sink EventSink)
	// Detach removes the connection. It returns the username it freed,
	// or ok=false when the connection never owned one. Detaching an
	// unknown connection is a no-op.
	Detach(connID string) (username string, ok bool)
	// Register binds username to connID. It always succeeds; a prior
	// binding of the same username to another connection is silently
	// superseded, and a prior name held by connID is released.
	Register(connID, username string)
	// Username resolves the name a connection sends under.
	Username(connID string) (string, bool)
	// Resolve returns the connection currently addressable by username.
	Resolve(username string) (connID string, ok bool)
	// SinkOf returns the delivery sink attached to a connection.
	SinkOf(connID string) (EventSink, bool)
	// Snapshot returns online usernames in first-registration order.
	Snapshot() []string
	// Connections returns the ids of every attached connection,
	// registered or not.
	Connections() []string
	// Sessions returns the connection ids of registered sessions in
	// the same order as Snapshot.
	Sessions() []string
}
