// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/server/migrations"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/budgets"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/groups"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/reportrequests"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/transactions"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Groups returns a groups.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewPostgresRepository(db)
}

// Transactions returns a transactions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewPostgresRepository(db)
}

// Budgets returns a budgets.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Budgets(db dbx.DBTX) budgets.Repository {
	return budgets.NewPostgresRepository(db)
}

// ReportRequests returns a reportrequests.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) ReportRequests(db dbx.DBTX) reportrequests.Repository {
	return reportrequests.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
