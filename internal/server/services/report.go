package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/ai"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// ReportService produces spending summaries. Summaries for bounded periods
// are answered inline; "all" and "custom" additionally queue a CSV export
// that the report worker delivers as a download link.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	messenger   Messenger
	bundle      *i18n.Bundle
	log         logging.Logger

	now func() time.Time
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager,
	msgr Messenger, bundle *i18n.Bundle, log logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		messenger:   msgr,
		bundle:      bundle,
		log:         log,
		now:         time.Now,
	}
}

// periodWindow resolves a report period to a half-open [from, to) window.
// Nil bounds mean unbounded. Weeks start on Monday.
func periodWindow(now time.Time, period, startDate, endDate string) (from, to *time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "today":
		return &startOfDay, nil
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := startOfDay.AddDate(0, 0, -(weekday - 1))
		return &monday, nil
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &first, nil
	case "year":
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &first, nil
	case "last_month":
		thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		prevMonth := thisMonth.AddDate(0, -1, 0)
		return &prevMonth, &thisMonth
	case "custom":
		if s, err := time.ParseInLocation("2006-01-02", startDate, now.Location()); err == nil {
			from = &s
		}
		if e, err := time.ParseInLocation("2006-01-02", endDate, now.Location()); err == nil {
			// End date is inclusive.
			e = e.AddDate(0, 0, 1)
			to = &e
		}
		return from, to
	default:
		// "all" and anything unrecognized
		return nil, nil
	}
}

// needsExport reports whether a period is too open-ended for an inline
// summary alone and should also produce a CSV export.
func needsExport(period string) bool {
	return period == "all" || period == "custom"
}

// Handle answers one report request with a localized summary, queueing an
// export job when the period calls for one.
func (s *ReportService) Handle(ctx context.Context, whatsappID string, intent ai.Intent, lang i18n.Language) error {
	t := s.bundle.T(lang)
	from, to := periodWindow(s.now(), intent.Period, intent.StartDate, intent.EndDate)

	trxs, err := s.repomanager.Transactions(s.db).SelectBetween(ctx, whatsappID, from, to)
	if err != nil {
		return fmt.Errorf("error selecting transactions: %w", err)
	}

	label := t.Label(intent.Period)
	if len(trxs) == 0 {
		s.send(ctx, whatsappID, t.Format("report_empty", map[string]string{"period": label}))
		return nil
	}

	var income, expense decimal.Decimal
	for _, trx := range trxs {
		if trx.TransactionType == models.TransactionIncome {
			income = income.Add(trx.Amount)
		} else {
			expense = expense.Add(trx.Amount)
		}
	}
	net := income.Sub(expense)

	status := t.Get("report_surplus")
	emoji := "📈"
	if net.IsNegative() {
		status = t.Get("report_deficit")
		emoji = "📉"
	}

	var b strings.Builder
	b.WriteString(t.Format("report_title", map[string]string{"period": label, "emoji": emoji}) + "\n\n")
	b.WriteString(fmt.Sprintf("*%s* %s\n", t.Get("report_income"), formatMoney(lang, income)))
	b.WriteString(fmt.Sprintf("*%s* %s\n", t.Get("report_expense"), formatMoney(lang, expense)))
	b.WriteString("--------------------------\n")
	b.WriteString(fmt.Sprintf("*%s* %s\n", t.Get("report_net"), formatMoney(lang, net)))
	b.WriteString(fmt.Sprintf("*%s* %s", t.Get("report_status"), status))

	if needsExport(intent.Period) {
		req := &models.ReportRequest{
			ID:         uuid.New().String(),
			WhatsAppID: whatsappID,
			Period:     intent.Period,
			StartDate:  from,
			EndDate:    to,
		}
		if err := s.repomanager.ReportRequests(s.db).Create(ctx, req); err != nil {
			return fmt.Errorf("error queueing report export: %w", err)
		}
		b.WriteString(t.Get("report_export_note"))
	}

	s.send(ctx, whatsappID, b.String())
	return nil
}

func (s *ReportService) send(ctx context.Context, jid, text string) {
	if err := s.messenger.SendText(ctx, jid, text); err != nil {
		s.log.Error(ctx, "error sending report reply", "jid", jid, "error", err)
	}
}
