// Package sweeper cancels reservations stuck in pending_payment.  A
// booking whose guest never completed payment (gateway rejected the
// token request, or the hosted page was abandoned) would otherwise
// occupy a room unit forever, because the gateway never sends a
// notification for a session that was never opened.
package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kinarahotels/reservation-server/internal/repository"
)

// Run sweeps on every tick until ctx is cancelled.  Reservations in
// pending_payment older than ttl are transitioned to cancelled in one
// bulk update.  Errors are logged and the loop keeps going; a missed
// sweep only delays cleanup.
func Run(ctx context.Context, reservations *repository.ReservationRepo, ttl, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("pending sweep started",
		zap.Duration("ttl", ttl),
		zap.Duration("interval", interval),
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("pending sweep stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-ttl)
			n, err := reservations.CancelStalePending(ctx, cutoff)
			if err != nil {
				logger.Error("pending sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("stale pending reservations cancelled",
					zap.Int64("count", n),
					zap.Time("cutoff", cutoff),
				)
			}
		}
	}
}
