package httpapi

import (
	"net/http"
	"time"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/internal/cart"
	"camellia-order-gateway/internal/config"
	"camellia-order-gateway/internal/http/handlers"
	"camellia-order-gateway/internal/lifecycle"
	"camellia-order-gateway/internal/middleware"
	"camellia-order-gateway/internal/ordersync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(store *backend.Client, carts *cart.Store, controller *ordersync.Controller, actions *lifecycle.Actions, logger *zap.Logger, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(requestLogger(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{
		Backend: store,
		Carts:   carts,
		Sync:    controller,
		Actions: actions,
		Logger:  logger,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.Menu)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.CartCreate)
			r.Get("/{cartId}", h.CartGet)
			r.Put("/{cartId}", h.CartUpdate)
			r.Delete("/{cartId}", h.CartDelete)
			r.Post("/{cartId}/items", h.CartAddItem)
			r.Patch("/{cartId}/items/{itemId}", h.CartUpdateItemQty)
			r.Post("/{cartId}/submit", h.CartSubmit)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/orders", h.StaffOrders)
			r.Put("/filter", h.StaffFilter)
			r.Post("/orders/{orderId}/accept", h.StaffOrderAccept)
			r.Post("/orders/{orderId}/ready", h.StaffOrderReady)
			r.Get("/orders/{orderId}/receipt", h.ReceiptPDF)
			r.Get("/orders/{orderId}/receipt-html", h.ReceiptHTML)
		})
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("http request",
				zap.String("requestId", r.Header.Get("X-Request-Id")),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
