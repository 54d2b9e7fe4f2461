package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/config"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/db"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/db/mock"
	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/server"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/store"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/telemetry"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	initTelemetryFunc   = telemetry.Init
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	shutdownTelemetry, err := initTelemetryFunc(ctx, cfg.Telemetry)
	if err != nil {
		applog.Error(ctx, "failed to initialise telemetry", "error", err)
		return 1
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			applog.Error(ctx, "telemetry shutdown failed", "error", err)
		}
	}()

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	policy, err := stock.ParsePolicy(cfg.Stock.UnknownSubRecipePolicy)
	if err != nil {
		applog.Error(ctx, "invalid stock policy", "error", err)
		return 1
	}
	repo := store.New(database)
	engine := stock.NewEngine(repo, repo,
		stock.WithPolicy(policy),
		stock.WithDispatchConcurrency(cfg.Stock.DispatchConcurrency),
		stock.WithSettleTimeout(cfg.Stock.SettleTimeout),
	)

	srv, err := newServerFunc(server.Config{
		Addr:        cfg.Server.Addr,
		ServiceName: cfg.Telemetry.ServiceName,
		Ping:        repo.Ping,
		Engine:      engine,
		Orders:      repo,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	sigCh, stopSignals := subscribeShutdownSig()
	defer stopSignals()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr, "policy", policy.String())
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-sigCh:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "shutting down http server", "reason", ctx.Err())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using seeded in-memory database")
		return newMockDatabaseFunc(ctx)
	}
	return configureDatabase(cfg)
}
