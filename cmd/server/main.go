package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusops/stocktrack/internal/config"
	"github.com/campusops/stocktrack/internal/domain/campuses"
	"github.com/campusops/stocktrack/internal/domain/history"
	"github.com/campusops/stocktrack/internal/domain/reports"
	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/transfers"
	"github.com/campusops/stocktrack/internal/domain/users"
	"github.com/campusops/stocktrack/internal/infra/db"
	httpx "github.com/campusops/stocktrack/internal/infra/http"
	"github.com/campusops/stocktrack/internal/infra/logger"
	"github.com/campusops/stocktrack/internal/web"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/example.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	userRepo := users.NewRepo(pool)
	if cfg.App.SeedAdmin {
		if err := userRepo.EnsureDefaultAdmin(ctx); err != nil {
			log.Error("seeding default admin failed", "err", err)
			return
		}
	}

	api := web.New(
		log,
		campuses.NewRepo(pool),
		userRepo,
		stock.NewRepo(pool),
		history.NewRepo(pool),
		transfers.NewRepo(pool),
		reports.NewRepo(pool),
		cfg.Upload.MaxBytes,
	)

	srv := httpx.New(cfg.HTTP.Addr, api.Routes(), cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
