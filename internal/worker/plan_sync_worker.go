package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/service"
)

// PlanSyncWorker periodically mirrors Stripe products and prices into the
// local subscription plan catalog.
type PlanSyncWorker struct {
	billingSvc *service.BillingService
	interval   time.Duration
}

// NewPlanSyncWorker constructs a PlanSyncWorker.
func NewPlanSyncWorker(billingSvc *service.BillingService, interval time.Duration) *PlanSyncWorker {
	return &PlanSyncWorker{billingSvc: billingSvc, interval: interval}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *PlanSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting plan sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Plan sync worker stopped")
			return
		}
	}
}

func (w *PlanSyncWorker) run(ctx context.Context) {
	start := time.Now()
	count, err := w.billingSvc.SyncPlans(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Plan sync failed")
		return
	}
	log.Info().
		Int("synced", count).
		Dur("duration", time.Since(start)).
		Msg("Plan sync completed")
}
