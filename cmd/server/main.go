package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/tourbook/internal/httpserver"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/search"
	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/verify"
	"github.com/Skotchmaster/tourbook/pkg/config"
	"github.com/Skotchmaster/tourbook/pkg/db"
	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	middleware "github.com/Skotchmaster/tourbook/pkg/middleware/auth"
)

func main() {
	config.LoadEnvFile()
	cfg := config.Load()
	cfg.MustServer()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	r := repo.New(gdb)
	if err := r.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var codes verify.CodeStore = verify.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := verify.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		defer rdb.Close()
		codes = verify.NewRedisStore(rdb)
	} else {
		logger.Warn("redis_not_configured", "fallback", "memory")
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod := events.NewProducer(cfg.KafkaBrokers)
		defer func() {
			if err := prod.Close(); err != nil {
				logger.Error("kafka_close_failed", "error", err)
			}
		}()
		pub = prod
	} else {
		logger.Warn("kafka_not_configured", "fallback", "nop")
	}

	tours := &service.TourService{Repo: r, Events: pub}
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		if err := es.Ping(ctx); err != nil {
			logger.Warn("elasticsearch_unreachable", "error", err)
		}
		tours.Search = es
	}

	authSvc := &service.AuthService{
		Repo:          r,
		Codes:         codes,
		Events:        pub,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}

	e := httpserver.NewEcho(logger)
	httpserver.Register(e, &httpserver.Deps{
		DB:              gdb,
		Auth:            middleware.NewAutoRefreshMiddleware(cfg.JWTAccessSecret, authSvc),
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc},
		TourHandler:     &httpserver.TourHTTP{Svc: tours},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: pub}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: r, Events: pub}},
		BookingHandler:  &httpserver.BookingHTTP{Svc: &service.BookingService{Repo: r, Events: pub}},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}
	logger.Info("shutdown_complete")
}
