package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// BudgetService answers budget inquiries and records budget updates. The most
// recently created budget row is the one in effect.
type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	messenger   Messenger
	bundle      *i18n.Bundle
	log         logging.Logger

	now func() time.Time
}

func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager,
	msgr Messenger, bundle *i18n.Bundle, log logging.Logger) *BudgetService {
	return &BudgetService{
		db:          db,
		repomanager: m,
		messenger:   msgr,
		bundle:      bundle,
		log:         log,
		now:         time.Now,
	}
}

// Check reports the current budget against month-to-date spending.
func (s *BudgetService) Check(ctx context.Context, number string, lang i18n.Language) error {
	t := s.bundle.T(lang)

	budget, err := s.repomanager.Budgets(s.db).GetLatest(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.send(ctx, number, t.Get("budget_status_no_limit"))
			return nil
		}
		return fmt.Errorf("error loading budget: %w", err)
	}

	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	spent, err := s.repomanager.Transactions(s.db).SumExpensesSince(ctx, number, startOfMonth)
	if err != nil {
		return fmt.Errorf("error summing expenses: %w", err)
	}

	remaining := budget.Amount.Sub(spent)
	percent := decimal.Zero
	if budget.Amount.IsPositive() {
		percent = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100))
	}

	emoji := "✅"
	switch {
	case percent.GreaterThanOrEqual(decimal.NewFromInt(100)):
		emoji = "⚠️"
	case percent.GreaterThanOrEqual(decimal.NewFromInt(80)):
		emoji = "🟡"
	}

	var b strings.Builder
	b.WriteString(t.Get("budget_status_title") + "\n\n")
	b.WriteString(fmt.Sprintf("*%s* %s\n", t.Get("budget_status_limit"), formatMoney(lang, budget.Amount)))
	b.WriteString(fmt.Sprintf("*%s* %s (%s%%)\n", t.Get("budget_status_spent"), formatMoney(lang, spent), percent.StringFixed(1)))
	b.WriteString("--------------------------\n")
	b.WriteString(fmt.Sprintf("*%s* %s %s\n\n", t.Get("budget_status_remaining"), formatMoney(lang, remaining), emoji))
	b.WriteString(t.Get("budget_status_encouragement"))

	s.send(ctx, number, b.String())
	return nil
}

// Update records a new monthly budget and confirms it.
func (s *BudgetService) Update(ctx context.Context, number string, amount decimal.Decimal, lang i18n.Language) error {
	t := s.bundle.T(lang)

	budget := &models.Budget{
		WhatsAppNumber: number,
		Amount:         amount,
		Period:         "month",
	}
	if _, err := s.repomanager.Budgets(s.db).Create(ctx, budget); err != nil {
		return fmt.Errorf("error creating budget: %w", err)
	}

	msg := t.Format("budget_update_success", map[string]string{
		"amount": formatMoney(lang, amount),
	}) + t.Get("budget_update_footer")
	s.send(ctx, number, msg)
	return nil
}

func (s *BudgetService) send(ctx context.Context, jid, text string) {
	if err := s.messenger.SendText(ctx, jid, text); err != nil {
		s.log.Error(ctx, "error sending budget reply", "jid", jid, "error", err)
	}
}
