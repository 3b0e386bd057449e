package groups

import (
	"context"

	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type Repository interface {
	GetByJID(ctx context.Context, jid string) (*models.Group, error)

	// Upsert creates the group or refreshes an existing row (subject, owner,
	// reactivation, timestamp).
	Upsert(ctx context.Context, group *models.Group) error

	// Deactivate marks the group inactive, e.g. when the bot is removed.
	Deactivate(ctx context.Context, jid string) error

	SetLanguage(ctx context.Context, jid, language string) error
}
