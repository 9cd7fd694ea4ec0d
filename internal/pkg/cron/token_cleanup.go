package cron

import (
	"context"
	"log/slog"
	"time"
)

const DefaultTokenCleanupInterval = time.Hour

// TokenPruner drops revoked tokens that have already expired.
type TokenPruner interface {
	PruneRevokedTokens() int
}

// RegisterTokenCleanup adds a fixed-interval job that keeps the revocation
// list from growing with tokens that can no longer be used.
func RegisterTokenCleanup(scheduler *Scheduler, pruner TokenPruner, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTokenCleanupInterval
	}
	scheduler.AddJob("revoked_token_cleanup", interval, func(ctx context.Context) error {
		if n := pruner.PruneRevokedTokens(); n > 0 {
			slog.Info("Pruned expired revoked tokens", "count", n)
		}
		return nil
	})
}
