// Package app owns the process lifecycle: it opens the store once, wires
// the game components around it and closes it on exit.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/buttongame/internal/config"
	"github.com/dmitrijs2005/buttongame/internal/importer"
	"github.com/dmitrijs2005/buttongame/internal/kvstore"
	"github.com/dmitrijs2005/buttongame/internal/lockx"
	"github.com/dmitrijs2005/buttongame/internal/logging"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
	"github.com/dmitrijs2005/buttongame/internal/services"
	"github.com/dmitrijs2005/buttongame/internal/shop"
	"github.com/jonboulle/clockwork"
)

type App struct {
	Config   *config.Config
	Logger   logging.Logger
	Game     *services.GameService
	Importer *importer.Importer

	store *kvstore.Store
}

// NewApp opens the store named by c and builds the services. Logs go to
// logOut. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	store, err := kvstore.Open(ctx, c.DatabasePath, kvstore.WithBusyTimeout(c.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repo := profiles.NewKVRepository(store, logger)
	locks := &lockx.KeyedMutex{}
	engine := shop.NewEngine(repo, locks, logger)
	game := services.NewGameService(repo, engine, locks, clockwork.NewRealClock(), logger)

	logger.Debug(ctx, "store opened", "path", c.DatabasePath)

	return &App{
		Config:   c,
		Logger:   logger,
		Game:     game,
		Importer: importer.New(store, logger),
		store:    store,
	}, nil
}

// Close releases the store.
func (app *App) Close() error {
	return app.store.Close()
}

// Run calls fn with a context that is cancelled on SIGINT, SIGTERM or
// SIGQUIT.
func (app *App) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := fn(ctx); err != nil {
		app.Logger.Debug(ctx, "command failed", "error", err)
		return err
	}
	return nil
}
