package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/MinionBot_Go/internal/activity"
	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/scheduler"
	"github.com/osse101/MinionBot_Go/internal/server"
	"github.com/osse101/MinionBot_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	ActivityService    activity.Service
	Scheduler          *scheduler.Scheduler
	Pool               *worker.Pool
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops application components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Cleanup scheduler (no new periodic jobs)
// 3. Activity service (stop timers, wait for in-flight completions)
// 4. Worker pool (drain queued jobs)
// 5. Event publisher (flush pending retries to the dead letter file)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.ActivityService != nil {
		if err := components.ActivityService.Shutdown(ctx); err != nil {
			slog.Error(LogMsgActivityShutdownFailed, "error", err)
		}
	}

	if components.Pool != nil {
		components.Pool.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Close(); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
