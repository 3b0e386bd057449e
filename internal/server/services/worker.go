package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/config"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// Exporter stores rendered report files and produces download links.
// Implemented by *ExportStore.
type Exporter interface {
	Upload(ctx context.Context, key string, body []byte) error
	GetPresignedGetURL(ctx context.Context, key string) (string, error)
}

// ReportWorker drains the report_requests queue: it renders each pending
// request's transactions as CSV, uploads the file, and messages the requester
// a download link. One bad job never stops the loop.
type ReportWorker struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	exporter    Exporter
	messenger   Messenger
	bundle      *i18n.Bundle
	config      *config.Config
	log         logging.Logger
}

func NewReportWorker(db *sql.DB, m repomanager.RepositoryManager,
	exporter Exporter, msgr Messenger, bundle *i18n.Bundle,
	cfg *config.Config, log logging.Logger) *ReportWorker {
	return &ReportWorker{
		db:          db,
		repomanager: m,
		exporter:    exporter,
		messenger:   msgr,
		bundle:      bundle,
		config:      cfg,
		log:         log,
	}
}

// Run polls for pending export jobs until ctx is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.config.WorkerPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessPending(ctx)
		}
	}
}

// ProcessPending handles every job currently queued. Failed jobs are marked
// and logged.
func (w *ReportWorker) ProcessPending(ctx context.Context) {
	repo := w.repomanager.ReportRequests(w.db)

	pending, err := repo.SelectPending(ctx)
	if err != nil {
		w.log.Error(ctx, "error selecting pending report requests", "error", err)
		return
	}

	for _, req := range pending {
		if err := w.process(ctx, req); err != nil {
			w.log.Error(ctx, "error processing report request", "id", req.ID, "error", err)
			if err := repo.MarkFailed(ctx, req.ID); err != nil {
				w.log.Error(ctx, "error marking report request failed", "id", req.ID, "error", err)
			}
		}
	}
}

func (w *ReportWorker) process(ctx context.Context, req *models.ReportRequest) error {
	repo := w.repomanager.ReportRequests(w.db)

	if err := repo.MarkProcessing(ctx, req.ID); err != nil {
		return fmt.Errorf("error marking report request processing: %w", err)
	}

	trxs, err := w.repomanager.Transactions(w.db).SelectBetween(ctx, req.WhatsAppID, req.StartDate, req.EndDate)
	if err != nil {
		return fmt.Errorf("error selecting transactions: %w", err)
	}

	body, err := renderCSV(trxs)
	if err != nil {
		return fmt.Errorf("error rendering csv: %w", err)
	}

	key := ReportStorageKey(req.ID)
	if err := w.exporter.Upload(ctx, key, body); err != nil {
		return fmt.Errorf("error uploading export: %w", err)
	}

	url, err := w.exporter.GetPresignedGetURL(ctx, key)
	if err != nil {
		return fmt.Errorf("error presigning export url: %w", err)
	}

	t := w.bundle.T(w.chatLanguage(ctx, req.WhatsAppID))
	msg := t.Format("report_export_ready", map[string]string{"url": url})
	if err := w.messenger.SendText(ctx, req.WhatsAppID, msg); err != nil {
		return fmt.Errorf("error sending export link: %w", err)
	}

	if err := repo.MarkCompleted(ctx, req.ID, key); err != nil {
		return fmt.Errorf("error marking report request completed: %w", err)
	}
	return nil
}

// chatLanguage resolves the stored language preference of the requesting
// chat, falling back to the configured default.
func (w *ReportWorker) chatLanguage(ctx context.Context, whatsappID string) i18n.Language {
	if messenger.IsGroupJID(whatsappID) {
		group, err := w.repomanager.Groups(w.db).GetByJID(ctx, whatsappID)
		if err == nil && group.Language != "" {
			return i18n.Parse(group.Language)
		}
	} else {
		user, err := w.repomanager.Users(w.db).GetByNumber(ctx, whatsappID)
		if err == nil && user.Language != "" {
			return i18n.Parse(user.Language)
		}
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			w.log.Warn(ctx, "error resolving chat language", "jid", whatsappID, "error", err)
		}
	}
	return i18n.Parse(w.config.DefaultLanguage)
}

func renderCSV(trxs []*models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write([]string{"date", "type", "category", "description", "amount", "logged_by"}); err != nil {
		return nil, err
	}
	for _, trx := range trxs {
		row := []string{
			trx.CreatedAt.Format(time.RFC3339),
			trx.TransactionType,
			trx.Category,
			trx.Description,
			trx.Amount.String(),
			trx.LoggedBy,
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
