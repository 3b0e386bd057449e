// Package httpapi exposes the Evolution API webhook endpoints over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/services"
)

// MessageHandler routes one inbound message. Implemented by
// *services.WebhookService.
type MessageHandler interface {
	Handle(ctx context.Context, event *messenger.MessageEvent) (services.Status, error)
}

// GroupHandler processes group lifecycle events. Implemented by
// *services.AdmissionService.
type GroupHandler interface {
	HandleGroupUpsert(ctx context.Context, event *messenger.GroupsUpsertEvent) (services.Status, error)
	HandleParticipantsUpdate(ctx context.Context, event *messenger.ParticipantsUpdateEvent) (services.Status, error)
}

// Server handles webhook deliveries from the Evolution API instance.
type Server struct {
	address   string
	webhook   MessageHandler
	admission GroupHandler
	logger    logging.Logger
}

func NewServer(address string, webhook MessageHandler, admission GroupHandler, logger logging.Logger) *Server {
	return &Server{
		address:   address,
		webhook:   webhook,
		admission: admission,
		logger:    logger.With("module", "http_server"),
	}
}

// Router builds the route table. Split out of Run for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/messages-upsert", s.handleMessagesUpsert)
		r.Post("/groups-upsert", s.handleGroupsUpsert)
		r.Post("/group-participants-update", s.handleParticipantsUpdate)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
