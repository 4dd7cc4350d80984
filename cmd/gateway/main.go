package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/tourbook/internal/gateway"
	"github.com/Skotchmaster/tourbook/pkg/config"
	"github.com/Skotchmaster/tourbook/pkg/logging"
)

func main() {
	config.LoadEnvFile()
	cfg := gateway.LoadConfig()

	logger := logging.New(cfg.LogLevel).With("service", "gateway")

	e := gateway.NewEcho(logger)
	if err := gateway.Register(e, cfg, &gateway.Handler{
		Client: gateway.NewClient(cfg.BackendURL),
		Mock:   cfg.Mock,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		logger.Info("gateway_started", "addr", cfg.ListenAddr, "backend", cfg.BackendURL, "mock", cfg.Mock)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
