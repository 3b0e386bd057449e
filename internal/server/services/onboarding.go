package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// OnboardingService walks a new user through the mandatory setup dialogue:
// ask for a name, then for an optional monthly budget.
type OnboardingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	extractor   IntentExtractor
	messenger   Messenger
	bundle      *i18n.Bundle
	log         logging.Logger
}

func NewOnboardingService(db *sql.DB, m repomanager.RepositoryManager,
	extractor IntentExtractor, messenger Messenger, bundle *i18n.Bundle,
	log logging.Logger) *OnboardingService {
	return &OnboardingService{
		db:          db,
		repomanager: m,
		extractor:   extractor,
		messenger:   messenger,
		bundle:      bundle,
		log:         log,
	}
}

// Start creates (or resets) the user at the name step and sends the welcome
// banner followed by the name prompt, in that order.
func (s *OnboardingService) Start(ctx context.Context, number string, lang i18n.Language) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.StartOnboarding(ctx, number, string(lang)); err != nil {
		return fmt.Errorf("error starting onboarding: %w", err)
	}

	t := s.bundle.T(lang)
	if err := s.messenger.SendText(ctx, number, t.Get("onboarding_welcome")); err != nil {
		s.log.Error(ctx, "error sending welcome message", "number", number, "error", err)
	}
	if err := s.messenger.SendText(ctx, number, t.Get("onboarding_name_prompt")); err != nil {
		s.log.Error(ctx, "error sending name prompt", "number", number, "error", err)
	}
	return nil
}

// isSkipToken reports whether the user asked to skip the budget step.
func isSkipToken(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "skip") || strings.Contains(lower, "nanti")
}

// Continue advances an unfinished user one step based on their reply.
func (s *OnboardingService) Continue(ctx context.Context, user *models.User, text string) error {
	t := s.bundle.T(i18n.Parse(user.Language))

	switch user.OnboardingStep {
	case models.StepName:
		return s.handleNameStep(ctx, t, user, text)
	case models.StepBudget:
		return s.handleBudgetStep(ctx, t, user, text)
	default:
		return nil
	}
}

func (s *OnboardingService) handleNameStep(ctx context.Context, t *i18n.Translator,
	user *models.User, text string) error {
	name, err := s.extractor.ExtractName(ctx, text)
	if err != nil {
		return fmt.Errorf("error extracting name: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.SaveName(ctx, user.WhatsAppNumber, name); err != nil {
		return fmt.Errorf("error saving name: %w", err)
	}

	msg := t.Format("onboarding_budget_prompt", map[string]string{"name": name})
	if err := s.messenger.SendText(ctx, user.WhatsAppNumber, msg); err != nil {
		s.log.Error(ctx, "error sending budget prompt", "number", user.WhatsAppNumber, "error", err)
	}
	return nil
}

func (s *OnboardingService) handleBudgetStep(ctx context.Context, t *i18n.Translator,
	user *models.User, text string) error {
	repo := s.repomanager.Users(s.db)

	if isSkipToken(text) {
		if err := repo.Complete(ctx, user.WhatsAppNumber); err != nil {
			return fmt.Errorf("error completing onboarding: %w", err)
		}
		return s.sendCompleted(ctx, t, user)
	}

	info, err := s.extractor.ExtractBudget(ctx, text)
	if err != nil {
		return fmt.Errorf("error extracting budget: %w", err)
	}
	if info == nil {
		// No amount recognized. Stay on the budget step and ask again.
		if err := s.messenger.SendText(ctx, user.WhatsAppNumber, t.Get("error_budget_parse")); err != nil {
			s.log.Error(ctx, "error sending budget reprompt", "number", user.WhatsAppNumber, "error", err)
		}
		return nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		budget := &models.Budget{
			WhatsAppNumber: user.WhatsAppNumber,
			Amount:         info.Amount,
			Period:         "month",
		}
		if _, err := s.repomanager.Budgets(tx).Create(ctx, budget); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Complete(ctx, user.WhatsAppNumber)
	})
	if err != nil {
		return fmt.Errorf("error saving budget: %w", err)
	}

	return s.sendCompleted(ctx, t, user)
}

func (s *OnboardingService) sendCompleted(ctx context.Context, t *i18n.Translator, user *models.User) error {
	msg := t.Format("onboarding_completed", map[string]string{"name": user.DisplayName})
	if err := s.messenger.SendText(ctx, user.WhatsAppNumber, msg); err != nil {
		s.log.Error(ctx, "error sending completion message", "number", user.WhatsAppNumber, "error", err)
	}
	return nil
}
