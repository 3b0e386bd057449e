package transactions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error)

	// SumExpensesSince totals expense amounts for a chat identity from the
	// given instant onward.
	SumExpensesSince(ctx context.Context, whatsappID string, since time.Time) (decimal.Decimal, error)

	// SelectBetween returns transactions for a chat identity inside the
	// half-open window [from, to). A nil bound means unbounded on that side.
	SelectBetween(ctx context.Context, whatsappID string, from, to *time.Time) ([]*models.Transaction, error)
}
