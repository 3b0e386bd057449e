package budgets

import (
	"context"

	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, budget *models.Budget) (*models.Budget, error)

	// GetLatest returns the most recently created budget for a number, or
	// common.ErrorNotFound when none was ever set.
	GetLatest(ctx context.Context, number string) (*models.Budget, error)
}
