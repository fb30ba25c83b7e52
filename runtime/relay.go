package runtime

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/command"
	"chat-relay/domain/event"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"chat-relay/sink"
)

//go:embed censored/*
var censoredFolder embed.FS

// Relay owns the engine: the command mailbox, the session table and
// color assignments, the moderation pipeline, and the delivery fanout.
// All inbound events enter through Dispatch and are serialized by a
// single relay worker, per the concurrency discipline of the core.
type Relay struct {
	log             *slog.Logger
	supervisor      contract.ISupervisor
	table           contract.ISessionTable
	colors          *domain.ColorAssigner
	repository      repositories.IMessageRepository
	stats           *observability.RelayStats
	commands        chan command.Command
	rawEvents       chan event.DomainEvent
	domainEvents    chan event.DomainEvent
	timeline        *sink.Timeline
	historyLimit    int
	charReplacement rune
	metricInterval  time.Duration
}

func NewRelay(log *slog.Logger, supervisor *workers.Supervisor,
	table contract.ISessionTable, repository repositories.IMessageRepository,
	stats *observability.RelayStats,
	bufferSize, historyLimit int,
	charReplacement rune, metricInterval time.Duration) *Relay {
	return &Relay{
		log:             log,
		supervisor:      supervisor,
		table:           table,
		colors:          domain.NewColorAssigner(),
		repository:      repository,
		stats:           stats,
		commands:        make(chan command.Command, bufferSize),
		rawEvents:       make(chan event.DomainEvent, bufferSize),
		domainEvents:    make(chan event.DomainEvent, bufferSize),
		timeline:        sink.NewTimeline(historyLimit),
		historyLimit:    historyLimit,
		charReplacement: charReplacement,
		metricInterval:  metricInterval,
	}
}

// Dispatch enqueues an inbound command. Chat traffic is dropped when the
// mailbox is full (best effort); lifecycle commands always go through,
// since a lost disconnect would leak the session forever.
func (r *Relay) Dispatch(cmd command.Command) {
	switch cmd.(type) {
	case command.Connect, command.Register, command.Disconnect:
		r.commands <- cmd
	default:
		select {
		case r.commands <- cmd:
		default:
			r.log.Warn(fmt.Sprintf("Command mailbox full, dropping command from %s", cmd.ConnID()))
		}
	}
}

// Timeline exposes the in-memory projection of recent messages.
func (r *Relay) Timeline() *sink.Timeline {
	return r.timeline
}

// Start prepares the moderation automaton and the worker pipeline, then
// runs everything under supervision. It blocks until the supervised
// context is canceled.
func (r *Relay) Start(ctx context.Context) error {
	moderationWorker, err := r.prepareModeration("censored", r.charReplacement)
	if err != nil {
		return err
	}

	relayWorker := workers.NewRelayWorker(
		r.table, r.colors, r.repository,
		r.commands, r.rawEvents, r.domainEvents,
		r.historyLimit, r.stats, r.log)

	permanentSinks := []contract.EventSink{
		sink.NewDiskSink(r.repository, r.stats, r.log),
		r.timeline,
	}
	fanoutWorker := workers.NewEventFanout(r.log, r.table, permanentSinks, r.domainEvents)
	telemetryWorker := workers.NewTelemetryWorker(r.log, r.stats, r.metricInterval)

	r.supervisor.Add(relayWorker, moderationWorker, fanoutWorker, telemetryWorker)

	r.log.Info("Starting relay and all supervised workers")
	r.supervisor.Run(ctx)
	return nil
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func (r *Relay) prepareModeration(path string, charReplacement rune) (contract.Worker, error) {
	loader := NewCensoredLoader(censoredFolder)
	data, err := loader.LoadAll(path)
	if err != nil {
		return nil, err
	}

	r.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	r.log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	moderator, err := moderation.NewModerator(data.Words, charReplacement)
	if err != nil {
		return nil, err
	}

	return workers.NewModerationWorker(moderator, r.rawEvents, r.domainEvents, r.log), nil
}

// Stop initiates a graceful shutdown by canceling the supervised context.
func (r *Relay) Stop() {
	r.log.Info("Requesting relay shutdown")
	r.supervisor.Stop()
}
