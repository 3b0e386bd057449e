package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/config"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
	"github.com/mragil/expense-tracker-wa/internal/server/services"
)

// WorkerApp runs the report export worker as a standalone process. The
// webhook server owns migrations; the worker only consumes the queue.
type WorkerApp struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	worker *services.ReportWorker
}

func NewWorkerApp(cfg *config.Config) (*WorkerApp, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	bundle, err := i18n.NewBundle()
	if err != nil {
		return nil, fmt.Errorf("i18n init error: %w", err)
	}

	msgr := messenger.NewClient(cfg.EvolutionAPIURL, cfg.EvolutionAPIKey, cfg.EvolutionInstance)
	rm := repomanager.NewPostgresRepositoryManager()
	exporter := services.NewExportStore(cfg)
	worker := services.NewReportWorker(db, rm, exporter, msgr, bundle, cfg, logger)

	return &WorkerApp{
		config: cfg,
		logger: logger,
		db:     db,
		worker: worker,
	}, nil
}

func (app *WorkerApp) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting report worker...", "poll_interval", app.config.WorkerPollInterval)

	initSignalHandlerFor(cancelFunc)

	app.worker.Run(ctx)

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
