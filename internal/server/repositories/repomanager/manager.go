package repomanager

import (
	"context"
	"database/sql"

	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/budgets"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/groups"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/reportrequests"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/transactions"
	"github.com/mragil/expense-tracker-wa/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Budgets(db dbx.DBTX) budgets.Repository
	ReportRequests(db dbx.DBTX) reportrequests.Repository
}
