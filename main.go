package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-calc/internal/api"
	"crypto-calc/internal/config"
	"crypto-calc/internal/ledger"
	"crypto-calc/internal/logger"
	"crypto-calc/internal/prices"
	"crypto-calc/internal/state"
	"crypto-calc/internal/store"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug)
	logger.Banner(version)

	// Persistence: durable SQLite with an in-process fallback tier.
	st := store.Open(cfg.DBPath)

	led := ledger.New(st)
	stateMgr := state.NewManager(st)

	svc := prices.NewService(prices.NewClient(cfg.PriceAPIURL, cfg.PriceTimeout), cfg.PriceCacheTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the quote cache in the background; failures degrade to fallback
	// quotes inside the service.
	go svc.Refresh(ctx)

	srv := api.NewServer(cfg, led, stateMgr, svc)
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	go func() {
		logger.Server(addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server", fmt.Sprintf("Failed: %v", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Server", "Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server", fmt.Sprintf("Shutdown error: %v", err))
	}

	if closer, ok := st.(interface{ Close() error }); ok {
		closer.Close()
	}
	logger.Info("Server", "Shutdown complete")
}
