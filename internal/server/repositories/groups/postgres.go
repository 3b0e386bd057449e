package groups

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

func (r *PostgresRepository) GetByJID(ctx context.Context, jid string) (*models.Group, error) {
	query :=
		`SELECT group_jid, subject, added_by, is_active, language, updated_at
		 FROM groups
		 WHERE group_jid = $1
		 `

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, jid).Scan(
		&group.JID, &group.Subject, &group.AddedBy,
		&group.IsActive, &group.Language, &group.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, group *models.Group) error {
	query :=
		`INSERT INTO groups (group_jid, subject, added_by, is_active, language, updated_at)
		 VALUES ($1, $2, $3, true, $4, now())
		 ON CONFLICT (group_jid)
		 DO UPDATE SET subject = $2, added_by = $3, is_active = true, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query,
		group.JID, group.Subject, group.AddedBy, group.Language); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, jid string) error {
	query :=
		`UPDATE groups SET is_active = false, updated_at = now()
		 WHERE group_jid = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, jid); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetLanguage(ctx context.Context, jid, language string) error {
	query :=
		`UPDATE groups SET language = $2, updated_at = now()
		 WHERE group_jid = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, jid, language); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
