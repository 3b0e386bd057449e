package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mragil/expense-tracker-wa/internal/ai"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// TransactionService records income and expense entries.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	messenger   Messenger
	bundle      *i18n.Bundle
	log         logging.Logger
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager,
	msgr Messenger, bundle *i18n.Bundle, log logging.Logger) *TransactionService {
	return &TransactionService{
		db:          db,
		repomanager: m,
		messenger:   msgr,
		bundle:      bundle,
		log:         log,
	}
}

// Handle stores one transaction for the chat identity and sends a localized
// confirmation. loggedBy is the individual sender, which differs from
// whatsappID in group chats.
func (s *TransactionService) Handle(ctx context.Context, whatsappID, loggedBy string,
	intent ai.Intent, lang i18n.Language) error {
	trx := &models.Transaction{
		WhatsAppID:      whatsappID,
		Amount:          intent.Amount,
		TransactionType: intent.TransactionType,
		Category:        intent.Category,
		Description:     intent.Description,
		LoggedBy:        loggedBy,
	}
	if _, err := s.repomanager.Transactions(s.db).Create(ctx, trx); err != nil {
		return fmt.Errorf("error creating transaction: %w", err)
	}

	emoji := "💰"
	if intent.TransactionType == models.TransactionExpense {
		emoji = "💸"
	}

	t := s.bundle.T(lang)
	msg := t.Format("transaction_success", map[string]string{
		"emoji":       emoji,
		"amount":      formatMoney(lang, intent.Amount),
		"type":        t.Label(intent.TransactionType),
		"category":    intent.Category,
		"description": intent.Description,
	})
	if err := s.messenger.SendText(ctx, whatsappID, msg); err != nil {
		s.log.Error(ctx, "error sending transaction confirmation", "jid", whatsappID, "error", err)
	}
	return nil
}
