package handlers

import (
	"context"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/internal/cart"
	"camellia-order-gateway/internal/lifecycle"
	"camellia-order-gateway/internal/menu"
	"camellia-order-gateway/internal/ordersync"

	"go.uber.org/zap"
)

// Store is the slice of the backend client the handlers need directly;
// polling and transitions go through the controller and the actions.
type Store interface {
	FetchMenu(ctx context.Context) ([]menu.Item, error)
	ListOrders(ctx context.Context, status string) ([]backend.Order, error)
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (backend.Order, error)
}

type Handler struct {
	Backend Store
	Carts   *cart.Store
	Sync    *ordersync.Controller
	Actions *lifecycle.Actions
	Logger  *zap.Logger
}
