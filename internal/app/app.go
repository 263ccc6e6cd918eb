package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"logvault/internal/archiver"
	"logvault/pkg/blob"
	"logvault/pkg/config"
	"logvault/pkg/logger"
	"logvault/pkg/logstore"
	"logvault/pkg/runlog"
	"logvault/pkg/state"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	logs  *logstore.Store
	blobs blob.Store
	arch  *archiver.Archiver

	stopScheduler context.CancelFunc
	srv           *http.Server
}

// New initializes resources that do not require a running context: the
// state directory layout, the log table, the run history, and the blob
// client. It does not start the scheduler or the HTTP server; call Run
// to start those and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	// validate effective config early and fail fast
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	if err := state.Init(eff.DataPath); err != nil {
		return nil, fmt.Errorf("failed to initialize state dir at %s: %w", eff.DataPath, err)
	}

	logs, err := logstore.Open(state.PathsVar.Logs)
	if err != nil {
		return nil, fmt.Errorf("failed to open log store: %w", err)
	}
	logs.DeleteBatchSize = eff.Config.Archive.DeleteBatchSizeOrDefault()

	if err := runlog.Open(state.PathsVar.Runlog); err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	blobs, err := blob.New(eff.Config.Archive.Blob)
	if err != nil {
		logs.Close()
		runlog.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	return &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		logs:      logs,
		blobs:     blobs,
		arch:      archiver.New(logs, blobs, eff.Config.Archive),
	}, nil
}

// Run starts the scheduler (if enabled) and the HTTP server, and blocks
// until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stop, err := archiver.StartScheduler(ctx, a.arch, a.eff.Config.Archive)
	if err != nil {
		return err
	}
	a.stopScheduler = stop

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		return err
	}
}

// shutdown stops the scheduler, drains the HTTP server and closes the
// stores. Safe to call once.
func (a *App) shutdown() {
	if a.stopScheduler != nil {
		a.stopScheduler()
	}
	if a.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(ctx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}
	if err := runlog.Close(); err != nil {
		logger.Warn("runlog_close_error", "error", err)
	}
	if err := a.logs.Close(); err != nil {
		logger.Warn("log_store_close_error", "error", err)
	}
	logger.Info("app_stopped")
}
