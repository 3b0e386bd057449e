package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/config"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/repomanager"
)

// AdmissionService decides which group chats the bot stays in. A group is
// admitted when whoever created it or added the bot is either whitelisted or
// an active registered user; otherwise the bot leaves.
type AdmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	messenger   Messenger
	bundle      *i18n.Bundle
	config      *config.Config
	log         logging.Logger
}

func NewAdmissionService(db *sql.DB, m repomanager.RepositoryManager,
	msgr Messenger, bundle *i18n.Bundle, cfg *config.Config,
	log logging.Logger) *AdmissionService {
	return &AdmissionService{
		db:          db,
		repomanager: m,
		messenger:   msgr,
		bundle:      bundle,
		config:      cfg,
		log:         log,
	}
}

// isAuthorized reports whether number may bring the bot into a group:
// whitelisted, or a registered user who finished onboarding.
func (s *AdmissionService) isAuthorized(ctx context.Context, number string) (bool, error) {
	if s.config.IsWhitelisted(number) {
		return true, nil
	}

	user, err := s.repomanager.Users(s.db).GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive, nil
}

// HandleGroupUpsert processes a groups.upsert event (group created with the
// bot in it, or bot joined via invite link).
func (s *AdmissionService) HandleGroupUpsert(ctx context.Context, event *messenger.GroupsUpsertEvent) (Status, error) {
	if len(event.Data) == 0 {
		return StatusIgnored, nil
	}

	entry := event.Data[0]
	return s.admit(ctx, event.Instance, entry.ID, entry.Subject, entry.Authorizer())
}

// HandleParticipantsUpdate processes a group-participants.update event. An
// add of the bot runs the admission check against the inviter; a remove or
// leave of the bot deactivates the group.
func (s *AdmissionService) HandleParticipantsUpdate(ctx context.Context, event *messenger.ParticipantsUpdateEvent) (Status, error) {
	data := event.Data

	switch data.Action {
	case messenger.ActionAdd:
		if !s.containsBot(data.Participants) {
			return StatusIgnored, nil
		}
		return s.admit(ctx, event.Instance, data.ID, "", data.Author)

	case messenger.ActionRemove, messenger.ActionLeave:
		if !s.containsBot(data.Participants) {
			return StatusIgnored, nil
		}
		if err := s.repomanager.Groups(s.db).Deactivate(ctx, data.ID); err != nil {
			return StatusIgnored, fmt.Errorf("error deactivating group: %w", err)
		}
		return StatusGroupInactive, nil

	default:
		return StatusIgnored, nil
	}
}

func (s *AdmissionService) containsBot(participants []messenger.Participant) bool {
	if s.config.BotNumber == "" {
		return false
	}
	for _, p := range participants {
		if p.PhoneNumber == s.config.BotNumber {
			return true
		}
	}
	return false
}

// admit runs the authorization check for a group the bot just entered and
// either registers it or leaves.
func (s *AdmissionService) admit(ctx context.Context, instance, jid, subject, addedBy string) (Status, error) {
	ok, err := s.isAuthorized(ctx, addedBy)
	if err != nil {
		return StatusIgnored, fmt.Errorf("error checking group authorization: %w", err)
	}

	if !ok {
		if err := s.messenger.LeaveGroup(ctx, instance, jid); err != nil {
			s.log.Error(ctx, "error leaving unauthorized group", "jid", jid, "error", err)
		}
		return StatusLeftUnauthorizedGroup, nil
	}

	group := &models.Group{
		JID:      jid,
		Subject:  subject,
		AddedBy:  addedBy,
		IsActive: true,
		Language: s.config.DefaultLanguage,
	}
	if err := s.repomanager.Groups(s.db).Upsert(ctx, group); err != nil {
		return StatusIgnored, fmt.Errorf("error registering group: %w", err)
	}

	s.sendWelcome(ctx, jid)
	return StatusGroupRegistered, nil
}

// EnsureGroup is the trust-on-first-use path for an ordinary group message.
// An unknown group is registered on the spot, an inactive one reactivated;
// both cases greet the group and report a short-circuiting status. A known
// active group returns ("", group, nil) and routing proceeds.
func (s *AdmissionService) EnsureGroup(ctx context.Context, jid, sender string) (Status, *models.Group, error) {
	repo := s.repomanager.Groups(s.db)

	group, err := repo.GetByJID(ctx, jid)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return StatusIgnored, nil, fmt.Errorf("error looking up group: %w", err)
		}

		group = &models.Group{
			JID:      jid,
			AddedBy:  sender,
			IsActive: true,
			Language: s.config.DefaultLanguage,
		}
		if err := repo.Upsert(ctx, group); err != nil {
			return StatusIgnored, nil, fmt.Errorf("error registering group: %w", err)
		}
		s.sendWelcome(ctx, jid)
		return StatusGroupWelcomeSent, nil, nil
	}

	if !group.IsActive {
		group.IsActive = true
		if err := repo.Upsert(ctx, group); err != nil {
			return StatusIgnored, nil, fmt.Errorf("error reactivating group: %w", err)
		}
		s.sendWelcome(ctx, jid)
		return StatusGroupReactivated, nil, nil
	}

	return "", group, nil
}

func (s *AdmissionService) sendWelcome(ctx context.Context, jid string) {
	t := s.bundle.T(i18n.Parse(s.config.DefaultLanguage))
	if err := s.messenger.SendText(ctx, jid, t.Get("group_welcome")); err != nil {
		s.log.Error(ctx, "error sending group welcome", "jid", jid, "error", err)
	}
}
