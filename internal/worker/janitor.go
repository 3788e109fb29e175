package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/attendance-service/internal/config"
	"github.com/classtrack/attendance-service/internal/repository"
)

// StartJanitor runs a background sweep of expired nonce rows. The sweep is
// advisory storage hygiene: single-use correctness is enforced by the
// used_at/expires_at checks on the verify path, never by deletion.
func StartJanitor(ctx context.Context, cfg config.JanitorConfig, nonces repository.NonceRepository, logger *zap.Logger) {
	if !cfg.Enabled || nonces == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("janitor stopped")
				return
			case <-ticker.C:
				sweep(ctx, cfg, nonces, logger)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg config.JanitorConfig, nonces repository.NonceRepository, logger *zap.Logger) {
	cutoff := time.Now().Add(-cfg.Grace)
	sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	deleted, err := nonces.DeleteExpiredBefore(sweepCtx, cutoff)
	if err != nil {
		logger.Warn("nonce sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Info("nonce sweep", zap.Int64("deleted", deleted))
	}
}
