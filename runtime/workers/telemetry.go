package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-relay/observability"
)

// TelemetryWorker periodically logs relay counters together with the
// process memory, CPU, and OS status.
type TelemetryWorker struct {
	log      *slog.Logger
	stats    *observability.RelayStats
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, stats *observability.RelayStats, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, stats: stats, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			snap := w.stats.Read()
			w.log.Info("Relay telemetry",
				"connections", snap.ConnectionsOpened-snap.ConnectionsClosed,
				"registrations", snap.Registrations,
				"routed", snap.MessagesRouted,
				"persisted", snap.MessagesPersisted,
				"typing", snap.TypingEvents,
				"delivery_drops", snap.DeliveryDrops,
				"storage_errors", snap.StorageErrors,
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"pid_status", status)
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}

	return memInfo.RSS, cpuPercent, status, nil
}
