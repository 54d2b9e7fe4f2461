// Command stockctl inspects and settles restaurant stock from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/config"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/db"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/db/mock"
	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/store"
)

var (
	loadConfigFunc   = config.Load
	openDatabaseFunc = func(ctx context.Context, cfg config.DatabaseConfig, useMock bool) (*gorm.DB, error) {
		if useMock || cfg.UseMock {
			return mock.New(ctx)
		}
		return db.Configure(cfg)
	}
)

type options struct {
	restaurant uint
	useMock    bool
	logLevel   string
}

// session is everything a subcommand needs, built once per invocation.
type session struct {
	cfg    config.Config
	db     *gorm.DB
	store  *store.Store
	engine *stock.Engine
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "stockctl",
		Short:        "Resolve recipes, check availability and settle orders against restaurant stock",
		SilenceUsage: true,
	}
	root.PersistentFlags().UintVarP(&opts.restaurant, "restaurant", "r", 1, "restaurant id scoping every read and write")
	root.PersistentFlags().BoolVar(&opts.useMock, "mock", false, "use the seeded in-memory database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(
		newResolveCmd(opts),
		newAvailableCmd(opts),
		newReportCmd(opts),
		newSettleCmd(opts),
		newImportCmd(opts),
	)
	return root
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	cfg, err := loadConfigFunc()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if err := applog.SetLevel(level); err != nil {
		return nil, err
	}

	database, err := openDatabaseFunc(ctx, cfg.Database, opts.useMock)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	policy, err := stock.ParsePolicy(cfg.Stock.UnknownSubRecipePolicy)
	if err != nil {
		return nil, err
	}
	repo := store.New(database)
	engine := stock.NewEngine(repo, repo,
		stock.WithPolicy(policy),
		stock.WithDispatchConcurrency(cfg.Stock.DispatchConcurrency),
		stock.WithSettleTimeout(cfg.Stock.SettleTimeout),
	)
	return &session{cfg: cfg, db: database, store: repo, engine: engine}, nil
}
