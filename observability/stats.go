// Package observability aggregates runtime counters for the relay.
package observability

import "sync/atomic"

// RelayStats tracks relay activity with atomic counters so every
// goroutine (transport, workers, sinks) can report without locking.
type RelayStats struct {
	ConnectionsOpened uint64
	ConnectionsClosed uint64
	Registrations     uint64
	MessagesRouted    uint64
	MessagesPersisted uint64
	TypingEvents      uint64
	DeliveryDrops     uint64
	StorageErrors     uint64
}

func NewRelayStats() *RelayStats {
	return &RelayStats{}
}

func (s *RelayStats) IncrConnectionsOpened() { atomic.AddUint64(&s.ConnectionsOpened, 1) }
func (s *RelayStats) IncrConnectionsClosed() { atomic.AddUint64(&s.ConnectionsClosed, 1) }
func (s *RelayStats) IncrRegistrations()     { atomic.AddUint64(&s.Registrations, 1) }
func (s *RelayStats) IncrMessagesRouted()    { atomic.AddUint64(&s.MessagesRouted, 1) }
func (s *RelayStats) IncrMessagesPersisted() { atomic.AddUint64(&s.MessagesPersisted, 1) }
func (s *RelayStats) IncrTypingEvents()      { atomic.AddUint64(&s.TypingEvents, 1) }
func (s *RelayStats) IncrDeliveryDrops()     { atomic.AddUint64(&s.DeliveryDrops, 1) }
func (s *RelayStats) IncrStorageErrors()     { atomic.AddUint64(&s.StorageErrors, 1) }

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	ConnectionsOpened uint64
	ConnectionsClosed uint64
	Registrations     uint64
	MessagesRouted    uint64
	MessagesPersisted uint64
	TypingEvents      uint64
	DeliveryDrops     uint64
	StorageErrors     uint64
}

func (s *RelayStats) Read() Snapshot {
	return Snapshot{
		ConnectionsOpened: atomic.LoadUint64(&s.ConnectionsOpened),
		ConnectionsClosed: atomic.LoadUint64(&s.ConnectionsClosed),
		Registrations:     atomic.LoadUint64(&s.Registrations),
		MessagesRouted:    atomic.LoadUint64(&s.MessagesRouted),
		MessagesPersisted: atomic.LoadUint64(&s.MessagesPersisted),
		TypingEvents:      atomic.LoadUint64(&s.TypingEvents),
		DeliveryDrops:     atomic.LoadUint64(&s.DeliveryDrops),
		StorageErrors:     atomic.LoadUint64(&s.StorageErrors),
	}
}
