// Package ordersync keeps the staff view's order list in step with the
// backend. A controller owns one poll cycle: a ticker, the current status
// filter and at most one in-flight fetch. Responses are applied through a
// generation check, so a slow superseded fetch can never overwrite a newer
// result no matter when it lands.
package ordersync

import (
	"context"
	"errors"
	"sync"
	"time"

	"camellia-order-gateway/internal/backend"

	"go.uber.org/zap"
)

// Lister reads orders for a status filter from the order store.
type Lister interface {
	ListOrders(ctx context.Context, status string) ([]backend.Order, error)
}

// Snapshot is the latest consistent view of the poll cycle.
type Snapshot struct {
	Orders      []backend.Order
	Filter      string
	LastUpdated time.Time
	Err         error
}

type Controller struct {
	lister   Lister
	logger   *zap.Logger
	interval time.Duration

	refresh chan struct{}

	mu          sync.Mutex
	filter      string
	orders      []backend.Order
	lastUpdated time.Time
	lastErr     error
	generation  uint64
	cancelFetch context.CancelFunc
	stopLoop    context.CancelFunc
	loopCtx     context.Context
}

func New(lister Lister, interval time.Duration, logger *zap.Logger) *Controller {
	return &Controller{
		lister:   lister,
		logger:   logger,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
}

// Start begins a poll cycle for the given status filter: one immediate
// fetch, then one per tick. Any previous cycle is torn down first, so two
// loops never overlap.
func (c *Controller) Start(filter string) {
	c.mu.Lock()
	if c.stopLoop != nil {
		c.stopLoop()
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.stopLoop = cancel
	c.loopCtx = ctx
	c.filter = filter
	c.mu.Unlock()

	c.logger.Info("order poll started", zap.String("filter", filter))
	c.fetch(ctx)
	go c.run(ctx)
}

// SetFilter restarts the poll cycle against a new status filter.
func (c *Controller) SetFilter(filter string) {
	c.Start(filter)
}

// Stop tears the cycle down: the loop exits, the ticker stops and any
// in-flight fetch is canceled and barred from mutating state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopLoop != nil {
		c.stopLoop()
		c.stopLoop = nil
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.generation++
	c.loopCtx = nil
}

// Refresh requests an immediate out-of-band fetch, used after a successful
// status transition so the view reflects the change without waiting for
// the next tick.
func (c *Controller) Refresh() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recently completed, non-superseded fetch
// result for the active filter, plus the visible error state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	orders := make([]backend.Order, len(c.orders))
	copy(orders, c.orders)
	return Snapshot{
		Orders:      orders,
		Filter:      c.filter,
		LastUpdated: c.lastUpdated,
		Err:         c.lastErr,
	}
}

func (c *Controller) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.fetch(ctx)
		case <-c.refresh:
			c.fetch(ctx)
		}
	}
}

// fetch issues one list call under a fresh generation, canceling whatever
// fetch was still in flight. The call runs in its own goroutine so a slow
// response never blocks the loop.
func (c *Controller) fetch(loopCtx context.Context) {
	c.mu.Lock()
	if c.loopCtx != loopCtx || loopCtx.Err() != nil {
		// A superseded loop raced a restart; only the current cycle may fetch.
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(loopCtx)
	c.cancelFetch = cancel
	filter := c.filter
	c.mu.Unlock()

	go func() {
		orders, err := c.lister.ListOrders(fetchCtx, filter)
		cancel()
		c.apply(gen, orders, err)
	}()
}

func (c *Controller) apply(gen uint64, orders []backend.Order, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.lastErr = err
		c.logger.Warn("order poll failed", zap.Error(err))
		return
	}

	c.orders = orders
	c.lastErr = nil
	c.lastUpdated = time.Now()
}
