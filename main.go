package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/internal/cart"
	"camellia-order-gateway/internal/config"
	httpapi "camellia-order-gateway/internal/http"
	"camellia-order-gateway/internal/lifecycle"
	"camellia-order-gateway/internal/logger"
	"camellia-order-gateway/internal/ordersync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	store := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, log)
	carts := cart.NewStore()

	controller := ordersync.New(store, cfg.PollInterval, log)
	controller.Start(cfg.DefaultStatusFilter)
	defer controller.Stop()

	actions := lifecycle.New(store, controller, log)

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(store, carts, controller, actions, log, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order gateway ready", zap.String("base", "/api"))
		log.Info("order store upstream", zap.String("baseURL", cfg.BackendBaseURL))
		log.Info("order gateway listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	controller.Stop()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
