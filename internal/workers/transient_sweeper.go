package workers

import (
	"context"
	"time"

	"atelier_backend/internal/logger"
	"atelier_backend/internal/services"
)

// TransientSweeper periodically reclaims transient uploads whose TTL has
// passed without ever being attached to a finalized order.
type TransientSweeper struct {
	uploads  services.UploadService
	interval time.Duration
}

func NewTransientSweeper(uploads services.UploadService, interval time.Duration) *TransientSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TransientSweeper{uploads: uploads, interval: interval}
}

// Start runs the sweep loop until the context is cancelled.
func (w *TransientSweeper) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *TransientSweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("transient sweeper stopped")
			return
		case <-ticker.C:
			swept, err := w.uploads.SweepExpired(ctx)
			if err != nil {
				logger.Error("transient sweep failed", "error", err)
			} else if swept > 0 {
				logger.Info("transient sweep completed", "swept", swept)
			}
		}
	}
}
