package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"transport-manager/internal/logger"
)

// BalanceReconciler repairs client balance projections that drifted from the
// invoice and payment ledger.
type BalanceReconciler interface {
	ReconcileBalances(ctx context.Context) (int, error)
}

// RunReconciler re-derives client balances on a fixed interval until the
// context is cancelled. Intended to run in its own goroutine.
func RunReconciler(ctx context.Context, svc BalanceReconciler, interval time.Duration) {
	if interval <= 0 {
		interval = 60 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Balance reconciler started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Balance reconciler stopped")
			return
		case <-ticker.C:
			repaired, err := svc.ReconcileBalances(ctx)
			if err != nil {
				logger.Error("Balance reconciliation failed", zap.Error(err))
				continue
			}
			if repaired > 0 {
				logger.Warn("Balance drift repaired", zap.Int("clients", repaired))
			}
		}
	}
}
