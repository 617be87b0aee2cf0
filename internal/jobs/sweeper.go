package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"transport-manager/internal/logger"
)

// ExpeditionSweeper is the slice of the expedition service the sweeper
// drives: advancing stale expeditions and pricing unpriced ones.
type ExpeditionSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
	BackfillAmounts(ctx context.Context) (int, error)
}

// RunSweeper advances stale expeditions and backfills missing amounts on a
// fixed interval until the context is cancelled. Intended to run in its own
// goroutine.
func RunSweeper(ctx context.Context, svc ExpeditionSweeper, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Expedition sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Expedition sweeper stopped")
			return
		case <-ticker.C:
			runSweep(ctx, svc)
		}
	}
}

func runSweep(ctx context.Context, svc ExpeditionSweeper) {
	advanced, err := svc.Sweep(ctx, time.Now())
	if err != nil {
		logger.Error("Expedition sweep failed", zap.Error(err))
	} else if advanced > 0 {
		logger.Info("Expedition sweep completed", zap.Int("advanced", advanced))
	}

	priced, err := svc.BackfillAmounts(ctx)
	if err != nil {
		logger.Error("Amount backfill failed", zap.Error(err))
	} else if priced > 0 {
		logger.Info("Amount backfill completed", zap.Int("priced", priced))
	}
}
