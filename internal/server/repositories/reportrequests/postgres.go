package reportrequests

import (
	"context"
	"fmt"

	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.ReportRequest) error {
	query :=
		`INSERT INTO report_requests (id, whatsapp_id, period, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5, 'pending')
		 `

	if _, err := r.db.ExecContext(ctx, query,
		req.ID, req.WhatsAppID, req.Period, req.StartDate, req.EndDate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectPending(ctx context.Context) ([]*models.ReportRequest, error) {
	query :=
		`SELECT id, whatsapp_id, period, start_date, end_date, status, COALESCE(file_key, ''), created_at
		 FROM report_requests
		 WHERE status = 'pending'
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ReportRequest
	for rows.Next() {
		req := &models.ReportRequest{}
		if err := rows.Scan(&req.ID, &req.WhatsAppID, &req.Period, &req.StartDate,
			&req.EndDate, &req.Status, &req.FileKey, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.ReportProcessing)
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, id, fileKey string) error {
	query :=
		`UPDATE report_requests SET status = 'completed', file_key = $2
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, fileKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, models.ReportFailed)
}

func (r *PostgresRepository) setStatus(ctx context.Context, id, status string) error {
	query :=
		`UPDATE report_requests SET status = $2
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
