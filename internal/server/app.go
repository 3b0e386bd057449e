// Package server wires the webhook application together: configuration,
// logging, database, migrations, the Evolution API client, the LLM extractor,
// and the HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mragil/expense-tracker-wa/internal/ai"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/config"
	"github.com/mragil/expense-tracker-wa/internal/server/httpapi"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
	"github.com/mragil/expense-tracker-wa/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	webhook     *services.WebhookService
}

func NewApp(cfg *config.Config) (*App, error) {

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

	extractor := ai.NewExtractor(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	msgr := messenger.NewClient(cfg.EvolutionAPIURL, cfg.EvolutionAPIKey, cfg.EvolutionInstance)

	rm := repomanager.NewPostgresRepositoryManager()
	webhook := services.NewWebhookService(db, rm, extractor, msgr, bundle, cfg, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		webhook:     webhook,
	}, nil
}

func initSignalHandlerFor(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	initSignalHandlerFor(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
		return
	}

	srv := httpapi.NewServer(app.config.EndpointAddr, app.webhook, app.webhook.Admission(), app.logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
