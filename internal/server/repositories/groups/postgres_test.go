package groups

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mragil/expense-tracker-wa/internal/common"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetByJID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+group_jid,.*FROM\s+groups\s+WHERE\s+group_jid\s*=\s*\$1\s*$`

	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"group_jid", "subject", "added_by", "is_active", "language", "updated_at"}).
		AddRow("12036@g.us", "Family", "62812@s.whatsapp.net", true, "id", updated)
	mock.ExpectQuery(q).
		WithArgs("12036@g.us").
		WillReturnRows(rows)

	got, err := repo.GetByJID(context.Background(), "12036@g.us")
	if err != nil {
		t.Fatalf("GetByJID error: %v", err)
	}
	if got.Subject != "Family" || !got.IsActive || got.AddedBy != "62812@s.whatsapp.net" {
		t.Fatalf("unexpected group: %+v", got)
	}
}

func TestGetByJID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+group_jid,`).
		WithArgs("ghost@g.us").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByJID(context.Background(), "ghost@g.us")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+groups\s*\(group_jid,\s*subject,\s*added_by,\s*is_active,\s*language,\s*updated_at\).*ON\s+CONFLICT\s*\(group_jid\).*is_active\s*=\s*true`

	mock.ExpectExec(q).
		WithArgs("12036@g.us", "Family", "62812@s.whatsapp.net", "id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.Group{
		JID:      "12036@g.us",
		Subject:  "Family",
		AddedBy:  "62812@s.whatsapp.net",
		Language: "id",
	})
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

func TestDeactivate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+groups\s+SET\s+is_active\s*=\s*false,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+group_jid\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("12036@g.us").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Deactivate(context.Background(), "12036@g.us"); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
}

func TestSetLanguage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+groups\s+SET\s+language\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+group_jid\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("12036@g.us", "en").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetLanguage(context.Background(), "12036@g.us", "en"); err != nil {
		t.Fatalf("SetLanguage error: %v", err)
	}
}
