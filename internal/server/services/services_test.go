package services

// Shared test doubles used across the service tests.

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/ai"
	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/dbx"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
	"github.com/mragil/expense-tracker-wa/internal/logging"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
	budgetsrepo "github.com/mragil/expense-tracker-wa/internal/server/repositories/budgets"
	groupsrepo "github.com/mragil/expense-tracker-wa/internal/server/repositories/groups"
	reportrequestsrepo "github.com/mragil/expense-tracker-wa/internal/server/repositories/reportrequests"
	transactionsrepo "github.com/mragil/expense-tracker-wa/internal/server/repositories/transactions"
	usersrepo "github.com/mragil/expense-tracker-wa/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.NewBundle()
	if err != nil {
		t.Fatalf("i18n.NewBundle error: %v", err)
	}
	return b
}

// --- repository fakes ---

type fakeUsersRepo struct {
	getOut *models.User
	getErr error

	startErr      error
	startedNumber string
	startedLang   string

	saveNameErr error
	savedName   string

	completeErr     error
	completedNumber string

	setLangErr    error
	setLangNumber string
	setLangValue  string
}

func (f *fakeUsersRepo) GetByNumber(ctx context.Context, number string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) StartOnboarding(ctx context.Context, number, language string) error {
	f.startedNumber = number
	f.startedLang = language
	return f.startErr
}

func (f *fakeUsersRepo) SaveName(ctx context.Context, number, name string) error {
	f.savedName = name
	return f.saveNameErr
}

func (f *fakeUsersRepo) Complete(ctx context.Context, number string) error {
	f.completedNumber = number
	return f.completeErr
}

func (f *fakeUsersRepo) SetLanguage(ctx context.Context, number, language string) error {
	f.setLangNumber = number
	f.setLangValue = language
	return f.setLangErr
}

type fakeGroupsRepo struct {
	getOut *models.Group
	getErr error

	upsertErr error
	upserted  *models.Group

	deactivateErr error
	deactivated   string

	setLangErr   error
	setLangJID   string
	setLangValue string
}

func (f *fakeGroupsRepo) GetByJID(ctx context.Context, jid string) (*models.Group, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

func (f *fakeGroupsRepo) Upsert(ctx context.Context, group *models.Group) error {
	f.upserted = group
	return f.upsertErr
}

func (f *fakeGroupsRepo) Deactivate(ctx context.Context, jid string) error {
	f.deactivated = jid
	return f.deactivateErr
}

func (f *fakeGroupsRepo) SetLanguage(ctx context.Context, jid, language string) error {
	f.setLangJID = jid
	f.setLangValue = language
	return f.setLangErr
}

type fakeTransactionsRepo struct {
	createErr error
	created   *models.Transaction

	sumOut decimal.Decimal
	sumErr error

	selectOut  []*models.Transaction
	selectErr  error
	selectID   string
	selectFrom *time.Time
	selectTo   *time.Time
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = trx
	return trx, nil
}

func (f *fakeTransactionsRepo) SumExpensesSince(ctx context.Context, whatsappID string, since time.Time) (decimal.Decimal, error) {
	if f.sumErr != nil {
		return decimal.Zero, f.sumErr
	}
	return f.sumOut, nil
}

func (f *fakeTransactionsRepo) SelectBetween(ctx context.Context, whatsappID string, from, to *time.Time) ([]*models.Transaction, error) {
	f.selectID = whatsappID
	f.selectFrom = from
	f.selectTo = to
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.selectOut, nil
}

type fakeBudgetsRepo struct {
	createErr error
	created   *models.Budget

	latestOut *models.Budget
	latestErr error
}

func (f *fakeBudgetsRepo) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = budget
	return budget, nil
}

func (f *fakeBudgetsRepo) GetLatest(ctx context.Context, number string) (*models.Budget, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	if f.latestOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.latestOut, nil
}

type fakeReportRequestsRepo struct {
	createErr error
	created   *models.ReportRequest

	pendingOut []*models.ReportRequest
	pendingErr error

	processingIDs []string
	completedIDs  []string
	completedKeys []string
	failedIDs     []string

	markProcessingErr error
	markCompletedErr  error
	markFailedErr     error
}

func (f *fakeReportRequestsRepo) Create(ctx context.Context, req *models.ReportRequest) error {
	f.created = req
	return f.createErr
}

func (f *fakeReportRequestsRepo) SelectPending(ctx context.Context) ([]*models.ReportRequest, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pendingOut, nil
}

func (f *fakeReportRequestsRepo) MarkProcessing(ctx context.Context, id string) error {
	f.processingIDs = append(f.processingIDs, id)
	return f.markProcessingErr
}

func (f *fakeReportRequestsRepo) MarkCompleted(ctx context.Context, id, fileKey string) error {
	f.completedIDs = append(f.completedIDs, id)
	f.completedKeys = append(f.completedKeys, fileKey)
	return f.markCompletedErr
}

func (f *fakeReportRequestsRepo) MarkFailed(ctx context.Context, id string) error {
	f.failedIDs = append(f.failedIDs, id)
	return f.markFailedErr
}

type fakeRepoManager struct {
	users          *fakeUsersRepo
	groups         *fakeGroupsRepo
	transactions   *fakeTransactionsRepo
	budgets        *fakeBudgetsRepo
	reportRequests *fakeReportRequestsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:          &fakeUsersRepo{},
		groups:         &fakeGroupsRepo{},
		transactions:   &fakeTransactionsRepo{},
		budgets:        &fakeBudgetsRepo{},
		reportRequests: &fakeReportRequestsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) Groups(db dbx.DBTX) groupsrepo.Repository     { return m.groups }
func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactionsrepo.Repository {
	return m.transactions
}
func (m *fakeRepoManager) Budgets(db dbx.DBTX) budgetsrepo.Repository { return m.budgets }
func (m *fakeRepoManager) ReportRequests(db dbx.DBTX) reportrequestsrepo.Repository {
	return m.reportRequests
}

// --- dependency fakes ---

type fakeExtractor struct {
	intentOut   ai.Intent
	intentCalls int

	nameOut string
	nameErr error

	budgetOut *ai.BudgetInfo
	budgetErr error
}

func (f *fakeExtractor) ExtractIntent(ctx context.Context, text string) ai.Intent {
	f.intentCalls++
	return f.intentOut
}

func (f *fakeExtractor) ExtractName(ctx context.Context, text string) (string, error) {
	return f.nameOut, f.nameErr
}

func (f *fakeExtractor) ExtractBudget(ctx context.Context, text string) (*ai.BudgetInfo, error) {
	return f.budgetOut, f.budgetErr
}

type sentMessage struct {
	jid  string
	text string
}

type fakeMessenger struct {
	sendErr error
	sent    []sentMessage

	leaveErr error
	left     []string
}

func (f *fakeMessenger) SendText(ctx context.Context, jid, text string) error {
	f.sent = append(f.sent, sentMessage{jid: jid, text: text})
	return f.sendErr
}

func (f *fakeMessenger) LeaveGroup(ctx context.Context, instance, groupJID string) error {
	f.left = append(f.left, groupJID)
	return f.leaveErr
}
