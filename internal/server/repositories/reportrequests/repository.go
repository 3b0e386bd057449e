package reportrequests

import (
	"context"

	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, req *models.ReportRequest) error

	// SelectPending returns export jobs waiting for the worker, oldest first.
	SelectPending(ctx context.Context) ([]*models.ReportRequest, error)

	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, fileKey string) error
	MarkFailed(ctx context.Context, id string) error
}
