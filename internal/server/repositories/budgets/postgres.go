package budgets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query :=
		`INSERT INTO budgets (whatsapp_number, amount, period)
		 VALUES ($1, $2, $3)
		 RETURNING id, threshold_percent, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		budget.WhatsAppNumber, budget.Amount, budget.Period).Scan(
		&budget.ID, &budget.ThresholdPercent, &budget.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return budget, nil
}

func (r *PostgresRepository) GetLatest(ctx context.Context, number string) (*models.Budget, error) {
	query :=
		`SELECT id, whatsapp_number, amount, period, threshold_percent, created_at
		 FROM budgets
		 WHERE whatsapp_number = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	budget := &models.Budget{}
	err := r.db.QueryRowContext(ctx, query, number).Scan(
		&budget.ID, &budget.WhatsAppNumber, &budget.Amount,
		&budget.Period, &budget.ThresholdPercent, &budget.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return budget, nil
}
