// Package lifecycle issues order status transitions with a per-order
// single-flight guard, so a double-tapped button never produces two
// concurrent requests for the same order.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"camellia-order-gateway/internal/backend"

	"go.uber.org/zap"
)

var (
	ErrUnknownStatus     = errors.New("lifecycle: unknown target status")
	ErrTransitionPending = errors.New("lifecycle: transition already in flight for this order")
)

// Transitioner requests a status change against the order store.
type Transitioner interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (backend.Order, error)
}

// Refresher triggers an immediate re-poll of the staff view.
type Refresher interface {
	Refresh()
}

type Actions struct {
	backend   Transitioner
	refresher Refresher
	logger    *zap.Logger

	mu       sync.Mutex
	inflight map[int64]struct{}
}

func New(t Transitioner, r Refresher, logger *zap.Logger) *Actions {
	return &Actions{
		backend:   t,
		refresher: r,
		logger:    logger,
		inflight:  make(map[int64]struct{}),
	}
}

// Transition requests the target status for one order. While a transition
// for that order is in flight, a second request for the same order fails
// with ErrTransitionPending before any network call; other orders are
// unaffected. A successful transition triggers an immediate re-poll. On
// failure the guard is cleared so the action can be retried.
func (a *Actions) Transition(ctx context.Context, orderID int64, target string) (backend.Order, error) {
	if !backend.KnownStatus(target) {
		return backend.Order{}, ErrUnknownStatus
	}

	a.mu.Lock()
	if _, busy := a.inflight[orderID]; busy {
		a.mu.Unlock()
		return backend.Order{}, ErrTransitionPending
	}
	a.inflight[orderID] = struct{}{}
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inflight, orderID)
		a.mu.Unlock()
	}()

	updated, err := a.backend.UpdateOrderStatus(ctx, orderID, target)
	if err != nil {
		a.logger.Warn("order transition failed",
			zap.Int64("orderId", orderID),
			zap.String("target", target),
			zap.Error(err))
		return backend.Order{}, err
	}

	a.logger.Info("order transitioned",
		zap.Int64("orderId", orderID),
		zap.String("status", updated.Status))
	a.refresher.Refresh()
	return updated, nil
}
