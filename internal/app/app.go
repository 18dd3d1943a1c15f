// Package app wires the climate dataset to the REST server and runs it until
// shutdown.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/chrissnell/climatequery/internal/controllers/restserver"
	"github.com/chrissnell/climatequery/internal/database"
	"github.com/chrissnell/climatequery/internal/log"
	"github.com/chrissnell/climatequery/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger

	// started, when set, receives the REST controller once it is serving
	started func(*restserver.Controller)
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run opens the dataset, starts the REST server and blocks until a signal
// arrives or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := database.Open(a.cfg.Database, a.cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("error opening climate dataset: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorf("error closing climate dataset: %v", err)
		}
	}()

	rc, err := restserver.NewController(ctx, &wg, a.cfg, database.NewStore(db), a.logger)
	if err != nil {
		return fmt.Errorf("error creating REST server: %w", err)
	}
	if err := rc.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")
	if a.started != nil {
		a.started(rc)
	}

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()

	log.Info("waiting for the REST server to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
