package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/models"
)

func newTestRecordRepo(t *testing.T) (*recordRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &recordRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestRecordGet_Found(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, data, updated_at, origin, deleted FROM clients").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(recordColumns()).
			AddRow("c-1", `{"name":"Acme"}`, updatedAt, "instance-aaa", 0))

	rec, found, err := repo.Get(context.Background(), "clients", "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if rec.Table != "clients" || rec.RecordID != "c-1" {
		t.Errorf("unexpected identity: %s/%s", rec.Table, rec.RecordID)
	}
	if rec.Op != models.OpUpdate {
		t.Errorf("expected update op, got %s", rec.Op)
	}
}

func TestRecordGet_NotFound(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, data, updated_at, origin, deleted FROM clients").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recordColumns()))

	_, found, err := repo.Get(context.Background(), "clients", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected record to be absent")
	}
}

func TestRecordGet_UnknownTable(t *testing.T) {
	repo, _, db := newTestRecordRepo(t)
	defer db.Close()

	_, _, err := repo.Get(context.Background(), "users; DROP TABLE clients", "c-1")
	if !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}

func TestRecordApply_UpsertWithAuditEntry(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := models.ChangeRecord{
		Table:     "invoices",
		RecordID:  "i-1",
		Op:        models.OpUpdate,
		Payload:   []byte(`{"total":250}`),
		UpdatedAt: updatedAt,
		Origin:    "instance-bbb",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO invoices").
		WithArgs("i-1", `{"total":250}`, updatedAt, "instance-bbb", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(sqlmock.AnyArg(), "invoices", "i-1", "update", "instance-bbb", updatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Apply(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecordApply_TombstoneKeepsRow(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	deletedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := models.ChangeRecord{
		Table:     "clients",
		RecordID:  "c-1",
		Op:        models.OpDelete,
		UpdatedAt: deletedAt,
		Origin:    "instance-bbb",
		Deleted:   true,
	}

	mock.ExpectBegin()
	// The tombstone flips the deleted flag; it never removes the row.
	mock.ExpectExec("INSERT INTO clients").
		WithArgs("c-1", "{}", deletedAt, "instance-bbb", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(sqlmock.AnyArg(), "clients", "c-1", "delete", "instance-bbb", deletedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Apply(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecordApply_UnknownTable(t *testing.T) {
	repo, _, db := newTestRecordRepo(t)
	defer db.Close()

	err := repo.Apply(context.Background(), models.ChangeRecord{Table: "unknown", RecordID: "x"})
	if !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}

func TestRecordApply_RollsBackOnFailure(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	rec := models.ChangeRecord{
		Table:     "payments",
		RecordID:  "p-1",
		Op:        models.OpCreate,
		Payload:   []byte(`{"amount":10}`),
		UpdatedAt: time.Now().UTC(),
		Origin:    "instance-bbb",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), rec)
	if !errors.Is(err, ErrApply) {
		t.Fatalf("expected ErrApply, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecordListAll_ReadsEveryTable(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, data, updated_at, origin, deleted FROM clients").
		WillReturnRows(sqlmock.NewRows(recordColumns()).
			AddRow("c-1", `{"name":"Acme"}`, updatedAt, "instance-aaa", 0))
	mock.ExpectQuery("SELECT id, data, updated_at, origin, deleted FROM invoices").
		WillReturnRows(sqlmock.NewRows(recordColumns()).
			AddRow("i-1", `{"total":100}`, updatedAt, "instance-aaa", 1))
	mock.ExpectQuery("SELECT id, data, updated_at, origin, deleted FROM invoice_items").
		WillReturnRows(sqlmock.NewRows(recordColumns()))
	mock.ExpectQuery("SELECT id, data, updated_at, origin, deleted FROM payments").
		WillReturnRows(sqlmock.NewRows(recordColumns()))

	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[1].Op != models.OpDelete {
		t.Errorf("soft-deleted rows must list as tombstones, got %s", all[1].Op)
	}
}

func TestRecordReplaceAll_SingleTransaction(t *testing.T) {
	repo, mock, db := newTestRecordRepo(t)
	defer db.Close()

	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	recs := []models.ChangeRecord{
		{
			Table:     "clients",
			RecordID:  "c-9",
			Op:        models.OpCreate,
			Payload:   []byte(`{"name":"Initech"}`),
			UpdatedAt: updatedAt,
			Origin:    "instance-bbb",
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM clients").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM invoices").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM invoice_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM payments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO clients").
		WithArgs("c-9", `{"name":"Initech"}`, updatedAt, "instance-bbb", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(sqlmock.AnyArg(), "clients", "c-9", "create", "instance-bbb", updatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.ReplaceAll(context.Background(), recs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRecordReplaceAll_UnknownTableRejectedUpfront(t *testing.T) {
	repo, _, db := newTestRecordRepo(t)
	defer db.Close()

	err := repo.ReplaceAll(context.Background(), []models.ChangeRecord{{Table: "bogus", RecordID: "x"}})
	if !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}
