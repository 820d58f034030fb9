// Package worker runs the background housekeeping loop: abandoned carts
// are deleted on a schedule and their reserved stock returned to the
// ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/strand/internal/service"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// SweepInterval is how often to look for abandoned carts
	SweepInterval time.Duration

	// CartMaxAge is how long an untouched cart survives before its stock
	// is released
	CartMaxAge time.Duration
}

// Worker sweeps abandoned carts in the background.
type Worker struct {
	config      Config
	cartService service.CartService
	logger      *slog.Logger
}

// NewWorker creates a new cart sweeper.
func NewWorker(cartService service.CartService, config Config, logger *slog.Logger) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.SweepInterval == 0 {
		config.SweepInterval = 1 * time.Hour
	}

	return &Worker{
		config:      config,
		cartService: cartService,
		logger:      logger,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"sweep_interval", w.config.SweepInterval,
		"cart_max_age", w.config.CartMaxAge,
	)

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	removed, err := w.cartService.CleanupAbandoned(ctx, w.config.CartMaxAge)
	if err != nil {
		w.logger.Error("cart sweep failed",
			"worker_id", w.config.WorkerID,
			"error", err,
		)
		return
	}
	if removed > 0 {
		w.logger.Info("abandoned carts removed",
			"worker_id", w.config.WorkerID,
			"count", removed,
		)
	}
}
