package users

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

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (*models.User, error) {
	query :=
		`SELECT whatsapp_number, COALESCE(display_name, ''), onboarding_step, is_active, language, created_at
		 FROM users
		 WHERE whatsapp_number = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, number).Scan(
		&user.WhatsAppNumber, &user.DisplayName, &user.OnboardingStep,
		&user.IsActive, &user.Language, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) StartOnboarding(ctx context.Context, number, language string) error {
	query :=
		`INSERT INTO users (whatsapp_number, onboarding_step, language)
		 VALUES ($1, 'name', $2)
		 ON CONFLICT (whatsapp_number)
		 DO UPDATE SET onboarding_step = 'name', language = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, number, language); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SaveName(ctx context.Context, number, name string) error {
	query :=
		`UPDATE users SET display_name = $2, onboarding_step = 'budget'
		 WHERE whatsapp_number = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, number, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Complete(ctx context.Context, number string) error {
	query :=
		`UPDATE users SET onboarding_step = 'completed', is_active = true
		 WHERE whatsapp_number = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, number); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetLanguage(ctx context.Context, number, language string) error {
	query :=
		`UPDATE users SET language = $2
		 WHERE whatsapp_number = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, number, language); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
