package users

import (
	"context"

	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type Repository interface {
	GetByNumber(ctx context.Context, number string) (*models.User, error)

	// StartOnboarding inserts the user at the name step, or resets an
	// existing unfinished user back to it. Idempotent.
	StartOnboarding(ctx context.Context, number, language string) error

	// SaveName stores the display name and advances the user to the budget
	// step.
	SaveName(ctx context.Context, number, name string) error

	// Complete marks onboarding finished and the user active.
	Complete(ctx context.Context, number string) error

	SetLanguage(ctx context.Context, number, language string) error
}
