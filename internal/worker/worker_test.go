package worker

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/memory"
	"github.com/dukerupert/strand/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerSweepsAbandonedCarts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	cart := &domain.Order{Status: domain.OrderStatusCart, SessionID: "stale"}
	require.NoError(t, store.CreateOrder(ctx, cart))

	w := NewWorker(service.NewCartService(store, store, nil), Config{
		SweepInterval: 10 * time.Millisecond,
		CartMaxAge:    time.Millisecond,
	}, slog.Default())

	runCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	err := w.Start(runCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = store.GetOrder(ctx, cart.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND), "stale cart swept")
}

func TestWorkerDefaults(t *testing.T) {
	w := NewWorker(nil, Config{}, slog.Default())
	assert.NotEmpty(t, w.config.WorkerID)
	assert.Equal(t, time.Hour, w.config.SweepInterval)
}
