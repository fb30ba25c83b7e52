package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/command"
	"chat-relay/domain/event"
	"chat-relay/observability"
	"chat-relay/repositories"
)

// The placeholder name a connection sends under before registering.
const unknownSender = "Unknown"

var _ contract.Worker = (*RelayWorker)(nil)

// RelayWorker is the connection event state machine. It drains the
// command mailbox serially, so every session table and color mutation
// is ordered and each published presence list reflects the mutation
// that triggered it. Chat messages leave through rawEvents toward
// moderation; everything else goes straight to the delivery channel.
type RelayWorker struct {
	table        contract.ISessionTable
	colors       *domain.ColorAssigner
	history      repositories.IMessageRepository
	commands     chan command.Command
	rawEvents    chan<- event.DomainEvent
	events       chan<- event.DomainEvent
	historyLimit int
	stats        *observability.RelayStats
	log          *slog.Logger
}

func NewRelayWorker(
	table contract.ISessionTable,
	colors *domain.ColorAssigner,
	history repositories.IMessageRepository,
	commands chan command.Command,
	rawEvents, events chan<- event.DomainEvent,
	historyLimit int,
	stats *observability.RelayStats,
	log *slog.Logger) *RelayWorker {
	return &RelayWorker{
		table:        table,
		colors:       colors,
		history:      history,
		commands:     commands,
		rawEvents:    rawEvents,
		events:       events,
		historyLimit: historyLimit,
		stats:        stats,
		log:          log,
	}
}

func (w *RelayWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, cmd)
		}
	}
}

func (w *RelayWorker) handle(ctx context.Context, cmd command.Command) {
	switch c := cmd.(type) {
	case command.Connect:
		w.table.Attach(c.Conn, c.Sink)
		w.stats.IncrConnectionsOpened()
	case command.Register:
		w.register(ctx, c)
	case command.Post:
		w.route(ctx, c)
	case command.Typing:
		w.typing(ctx, c)
	case command.Disconnect:
		w.disconnect(ctx, c)
	}
}

func (w *RelayWorker) register(ctx context.Context, c command.Register) {
	w.table.Register(c.Conn, c.Username)
	w.colors.Assign(c.Username)
	w.stats.IncrRegistrations()
	w.log.Info("User registered", "username", c.Username, "conn", c.Conn)

	w.publishPresence(ctx)
	w.serveHistory(ctx, c.Conn)
}

// route resolves the sender and the delivery targets, then hands the
// message to the moderation stage. A connection that never registered
// still gets its message routed, labeled with a placeholder sender.
// A directed message to an offline name is persisted and echoed to the
// sender only; that is not an error.
func (w *RelayWorker) route(ctx context.Context, c command.Post) {
	username, ok := w.table.Username(c.Conn)
	if !ok {
		username = unknownSender
	}

	var targets []string
	if c.To == nil {
		targets = lo.Uniq(append(w.table.Sessions(), c.Conn))
	} else {
		targets = []string{c.Conn}
		if recipient, online := w.table.Resolve(*c.To); online && recipient != c.Conn {
			targets = append(targets, recipient)
		}
	}

	w.stats.IncrMessagesRouted()
	w.emit(ctx, w.rawEvents, event.MessagePosted{
		ID:       uuid.New(),
		Username: username,
		Text:     c.Text,
		At:       time.Now().UTC(),
		To:       c.To,
		Conns:    targets,
	})
}

// typing is fire-and-forget: no state change, no persistence, and the
// sender never sees its own indicator. Unregistered connections are ignored.
func (w *RelayWorker) typing(ctx context.Context, c command.Typing) {
	username, ok := w.table.Username(c.Conn)
	if !ok {
		w.log.Debug("Typing from unregistered connection ignored", "conn", c.Conn)
		return
	}

	targets := lo.Without(w.table.Sessions(), c.Conn)
	if len(targets) == 0 {
		return
	}
	w.stats.IncrTypingEvents()
	w.emit(ctx, w.events, event.TypingStarted{Username: username, Conns: targets})
}

// disconnect is idempotent; presence is republished only when the
// connection actually owned a username.
func (w *RelayWorker) disconnect(ctx context.Context, c command.Disconnect) {
	username, freed := w.table.Detach(c.Conn)
	w.stats.IncrConnectionsClosed()
	if !freed {
		return
	}
	w.log.Info("User disconnected", "username", username, "conn", c.Conn)
	w.publishPresence(ctx)
}

// publishPresence recomputes the user list and color map from the
// current table state and targets every attached connection. Both
// snapshots are taken here, inside the serialized handler, so they are
// always consistent with the mutation that triggered them.
func (w *RelayWorker) publishPresence(ctx context.Context) {
	conns := w.table.Connections()
	w.emit(ctx, w.events, event.PresenceChanged{Users: w.table.Snapshot(), Conns: conns})
	w.emit(ctx, w.events, event.PaletteChanged{Colors: w.colors.Snapshot(), Conns: conns})
}

// serveHistory hydrates a freshly registered connection with the recent
// message window, oldest first. A store failure is logged and the
// connection simply starts with an empty timeline.
func (w *RelayWorker) serveHistory(ctx context.Context, connID string) {
	disk, err := w.history.Recent(w.historyLimit)
	if err != nil {
		w.stats.IncrStorageErrors()
		w.log.Error("Failed to load history", "conn", connID, "error", err)
		return
	}
	messages := lo.Map(disk, func(item repositories.DiskMessage, _ int) domain.Message {
		return domain.Message{
			ID:       item.ID,
			Username: item.Username,
			Text:     item.Text,
			At:       item.At,
			To:       item.To,
		}
	})
	w.emit(ctx, w.events, event.HistoryServed{Messages: messages, Conns: []string{connID}})
}

func (w *RelayWorker) emit(ctx context.Context, ch chan<- event.DomainEvent, evt event.DomainEvent) {
	select {
	case <-ctx.Done():
	case ch <- evt:
	}
}
