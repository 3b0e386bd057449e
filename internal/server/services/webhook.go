package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mragil/expense-tracker-wa/internal/ai"
	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/config"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// WebhookService routes one inbound message to exactly one outcome: an
// admission drop, an onboarding step, or a single domain handler dispatch.
type WebhookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	extractor   IntentExtractor
	messenger   Messenger
	bundle      *i18n.Bundle
	config      *config.Config
	log         logging.Logger

	onboarding   *OnboardingService
	admission    *AdmissionService
	transactions *TransactionService
	budgets      *BudgetService
	reports      *ReportService
}

func NewWebhookService(db *sql.DB, m repomanager.RepositoryManager,
	extractor IntentExtractor, msgr Messenger, bundle *i18n.Bundle,
	cfg *config.Config, log logging.Logger) *WebhookService {
	return &WebhookService{
		db:           db,
		repomanager:  m,
		extractor:    extractor,
		messenger:    msgr,
		bundle:       bundle,
		config:       cfg,
		log:          log,
		onboarding:   NewOnboardingService(db, m, extractor, msgr, bundle, log),
		admission:    NewAdmissionService(db, m, msgr, bundle, cfg, log),
		transactions: NewTransactionService(db, m, msgr, bundle, log),
		budgets:      NewBudgetService(db, m, msgr, bundle, log),
		reports:      NewReportService(db, m, msgr, bundle, log),
	}
}

// Admission returns the group admission gate for the group event endpoints.
func (s *WebhookService) Admission() *AdmissionService {
	return s.admission
}

// Handle processes one messages.upsert event end to end.
func (s *WebhookService) Handle(ctx context.Context, event *messenger.MessageEvent) (Status, error) {
	if event.Event != messenger.EventMessagesUpsert || event.Data.Key.FromMe {
		return StatusIgnored, nil
	}

	chatJID := event.Data.Key.RemoteJID
	sender := event.Sender()
	isGroup := messenger.IsGroupJID(chatJID)

	if !isGroup && !s.config.PublicMode && !s.config.IsWhitelisted(sender) {
		return StatusNotWhitelisted, nil
	}

	text := event.Text()
	if text == "" {
		return StatusNoText, nil
	}

	user, err := s.lookupUser(ctx, sender)
	if err != nil {
		return StatusIgnored, err
	}

	// Classification runs before the onboarding branch: a brand-new user's
	// first message determines the language their prompts arrive in.
	intent := s.extractor.ExtractIntent(ctx, text)

	var group *models.Group
	if isGroup {
		status, g, err := s.admission.EnsureGroup(ctx, chatJID, sender)
		if err != nil {
			return StatusIgnored, err
		}
		if status != "" {
			return status, nil
		}
		group = g
	} else {
		if user == nil {
			if err := s.onboarding.Start(ctx, sender, intent.DetectedLanguage); err != nil {
				return StatusIgnored, err
			}
			return StatusOnboardingStarted, nil
		}
		if user.OnboardingStep != models.StepCompleted {
			if err := s.onboarding.Continue(ctx, user, text); err != nil {
				return StatusIgnored, err
			}
			return StatusOnboardingContinue, nil
		}
	}

	lang := s.resolveLanguage(user, group, intent.DetectedLanguage)
	return s.dispatch(ctx, chatJID, sender, isGroup, intent, lang)
}

func (s *WebhookService) lookupUser(ctx context.Context, number string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	return user, nil
}

// resolveLanguage prefers the stored chat preference and falls back to the
// language detected on this message.
func (s *WebhookService) resolveLanguage(user *models.User, group *models.Group, detected i18n.Language) i18n.Language {
	if group != nil && group.Language != "" {
		return i18n.Parse(group.Language)
	}
	if user != nil && user.Language != "" {
		return i18n.Parse(user.Language)
	}
	return detected
}

func (s *WebhookService) dispatch(ctx context.Context, chatJID, sender string,
	isGroup bool, intent ai.Intent, lang i18n.Language) (Status, error) {
	switch intent.Kind {
	case ai.KindError:
		t := s.bundle.T(lang)
		msg := t.Get("error_generic")
		if intent.Reason == ai.ReasonUnsupportedTopic {
			msg = t.Get("help_logging") + "\n\n" + t.Get("help_reports") + "\n\n" + t.Get("help_footer")
		}
		if err := s.messenger.SendText(ctx, chatJID, msg); err != nil {
			s.log.Error(ctx, "error sending help reply", "jid", chatJID, "error", err)
		}
		return StatusUnsupportedTopic, nil

	case ai.KindLanguageChange:
		if err := s.changeLanguage(ctx, chatJID, sender, isGroup, intent.NewLanguage); err != nil {
			return StatusIgnored, err
		}
		return StatusLanguageChange, nil

	case ai.KindReport:
		if err := s.reports.Handle(ctx, chatJID, intent, lang); err != nil {
			return StatusIgnored, err
		}
		return StatusReport, nil

	case ai.KindBudgetInquiry:
		if err := s.budgets.Check(ctx, chatJID, lang); err != nil {
			return StatusIgnored, err
		}
		return StatusBudgetInquiry, nil

	case ai.KindBudgetUpdate:
		if err := s.budgets.Update(ctx, chatJID, intent.Amount, lang); err != nil {
			return StatusIgnored, err
		}
		return StatusBudgetUpdate, nil

	case ai.KindTransaction:
		if err := s.transactions.Handle(ctx, chatJID, sender, intent, lang); err != nil {
			return StatusIgnored, err
		}
		return StatusTransaction, nil

	default:
		return StatusIgnored, nil
	}
}

// changeLanguage persists the new preference on the chat entity and confirms
// in the language just chosen.
func (s *WebhookService) changeLanguage(ctx context.Context, chatJID, sender string,
	isGroup bool, newLang i18n.Language) error {
	var err error
	if isGroup {
		err = s.repomanager.Groups(s.db).SetLanguage(ctx, chatJID, string(newLang))
	} else {
		err = s.repomanager.Users(s.db).SetLanguage(ctx, sender, string(newLang))
	}
	if err != nil {
		return fmt.Errorf("error saving language preference: %w", err)
	}

	t := s.bundle.T(newLang)
	if err := s.messenger.SendText(ctx, chatJID, t.Get("language_changed")); err != nil {
		s.log.Error(ctx, "error sending language confirmation", "jid", chatJID, "error", err)
	}
	return nil
}
