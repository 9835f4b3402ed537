package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/service"
)

// SweepWorker periodically deletes expired and ended impersonation sessions
// that have aged past the retention window.
type SweepWorker struct {
	impSvc    *service.ImpersonationService
	interval  time.Duration
	retention time.Duration
}

// NewSweepWorker constructs a SweepWorker.
func NewSweepWorker(impSvc *service.ImpersonationService, interval, retention time.Duration) *SweepWorker {
	return &SweepWorker{
		impSvc:    impSvc,
		interval:  interval,
		retention: retention,
	}
}

// Start begins the periodic sweep loop and listens for context cancellation.
func (w *SweepWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("Starting impersonation sweep worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Impersonation sweep worker stopped")
			return
		}
	}
}

func (w *SweepWorker) run(ctx context.Context) {
	deleted, err := w.impSvc.Sweep(ctx, w.retention)
	if err != nil {
		log.Error().Err(err).Msg("Impersonation sweep failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Swept stale impersonation sessions")
	}
}
