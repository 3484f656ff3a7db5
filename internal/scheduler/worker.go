package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"pipeline_portal_backend/internal/enrich"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"
)

const (
	// refreshTimeout bounds one refresh cycle end to end. CRM paging plus
	// per-contact conversation fetches can be slow on large pipelines.
	refreshTimeout = 10 * time.Minute

	// refreshUniqueWindow collapses duplicate triggers while a refresh is
	// already queued or running.
	refreshUniqueWindow = 5 * time.Minute
)

// Refresher runs one end-to-end refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (enrich.Summary, error)
}

// Worker consumes refresh tasks and re-enqueues them on a cron schedule.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	refresher Refresher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, refresher Refresher, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	queue := cfg.GetAsynqQueueName()

	server := asynq.NewServer(opt, asynq.Config{
		// Refreshes touch a shared rate-limited CRM tenant, so one at a time.
		Concurrency: 1,
		Queues:      map[string]int{queue: 1},
	})

	periodic := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})
	task, err := NewPipelineRefreshTask("cron")
	if err != nil {
		return nil, err
	}
	if _, err := periodic.Register(cfg.GetRefreshCronSpec(), task,
		asynq.Queue(queue),
		asynq.Unique(refreshUniqueWindow),
	); err != nil {
		return nil, fmt.Errorf("register refresh schedule: %w", err)
	}

	w := &Worker{
		server:    server,
		scheduler: periodic,
		mux:       asynq.NewServeMux(),
		refresher: refresher,
		log:       log,
	}
	w.mux.HandleFunc(TaskPipelineRefresh, w.handlePipelineRefresh)
	return w, nil
}

// Run starts the cron enqueuer and the task server, blocking until the
// context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("start refresh scheduler: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.log.Info("shutting down scheduler worker")
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	return w.server.Run(w.mux)
}

func (w *Worker) handlePipelineRefresh(ctx context.Context, t *asynq.Task) error {
	payload, err := ParsePipelineRefreshPayload(t)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	w.log.Info("pipeline refresh started", "requested_by", payload.RequestedBy)
	summary, err := w.refresher.Refresh(ctx)
	if err != nil {
		w.log.Error("pipeline refresh failed", "requested_by", payload.RequestedBy, "error", err)
		return err
	}
	w.log.Info("pipeline refresh finished",
		"requested_by", payload.RequestedBy,
		"leads", summary.Leads,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
