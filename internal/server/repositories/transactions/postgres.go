package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error) {
	query :=
		`INSERT INTO transactions (whatsapp_id, amount, transaction_type, category, description, logged_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		trx.WhatsAppID, trx.Amount, trx.TransactionType,
		trx.Category, trx.Description, trx.LoggedBy).Scan(&trx.ID, &trx.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trx, nil
}

func (r *PostgresRepository) SumExpensesSince(ctx context.Context, whatsappID string, since time.Time) (decimal.Decimal, error) {
	query :=
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE whatsapp_id = $1 AND transaction_type = 'expense' AND created_at >= $2
		 `

	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, whatsappID, since).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

func (r *PostgresRepository) SelectBetween(ctx context.Context, whatsappID string, from, to *time.Time) ([]*models.Transaction, error) {
	query :=
		`SELECT id, whatsapp_id, amount, transaction_type, category, description, logged_by, created_at
		 FROM transactions
		 WHERE whatsapp_id = $1
		   AND ($2::timestamptz IS NULL OR created_at >= $2)
		   AND ($3::timestamptz IS NULL OR created_at < $3)
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, whatsappID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		trx := &models.Transaction{}
		if err := rows.Scan(&trx.ID, &trx.WhatsAppID, &trx.Amount, &trx.TransactionType,
			&trx.Category, &trx.Description, &trx.LoggedBy, &trx.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, trx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
