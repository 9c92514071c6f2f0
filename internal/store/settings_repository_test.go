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

func newTestSettingsRepo(t *testing.T) (*settingsRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &settingsRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func settingsColumns() []string {
	return []string{"enabled", "remote_endpoint", "restricted_key", "elevated_key", "database_dsn", "instance_id", "last_sync_at"}
}

func TestSettingsGet_ExistingRow(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	lastSync := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(settingsColumns()).
		AddRow(true, "https://cloud.counttrack.example/acme", "rk", "ek", "dsn", "instance-aaa", lastSync)

	mock.ExpectQuery("SELECT enabled, remote_endpoint").WillReturnRows(rows)

	cfg, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Enabled {
		t.Error("expected enabled config")
	}
	if cfg.InstanceID != "instance-aaa" {
		t.Errorf("expected instance-aaa, got %s", cfg.InstanceID)
	}
	if cfg.LastSyncAt == nil || !cfg.LastSyncAt.Equal(lastSync) {
		t.Errorf("expected last sync %v, got %v", lastSync, cfg.LastSyncAt)
	}
}

func TestSettingsGet_FirstAccessCreatesRow(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT enabled, remote_endpoint").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO sync_settings").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT enabled, remote_endpoint").
		WillReturnRows(sqlmock.NewRows(settingsColumns()).
			AddRow(false, "", "", "", "", "fresh-instance-id", nil))

	cfg, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enabled {
		t.Error("fresh settings must start disabled")
	}
	if cfg.InstanceID == "" {
		t.Error("expected a generated instance id")
	}
	if cfg.LastSyncAt != nil {
		t.Error("fresh settings must have no watermark")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSettingsUpdate_MergesPartialUpdate(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT enabled, remote_endpoint").
		WillReturnRows(sqlmock.NewRows(settingsColumns()).
			AddRow(false, "https://old.example", "rk", "ek", "dsn", "instance-aaa", nil))

	// Only Enabled flips; every other column keeps its current value.
	mock.ExpectExec("UPDATE sync_settings").
		WithArgs(true, "https://old.example", "rk", "ek", "dsn", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enabled := true
	cfg, err := repo.Update(context.Background(), models.SyncConfigUpdate{Enabled: &enabled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Enabled {
		t.Error("expected enabled after update")
	}
	if cfg.RemoteEndpoint != "https://old.example" {
		t.Errorf("endpoint must be preserved, got %s", cfg.RemoteEndpoint)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSettingsUpdate_NoRowAffected(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT enabled, remote_endpoint").
		WillReturnRows(sqlmock.NewRows(settingsColumns()).
			AddRow(false, "", "", "", "", "instance-aaa", nil))
	mock.ExpectExec("UPDATE sync_settings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	enabled := true
	_, err := repo.Update(context.Background(), models.SyncConfigUpdate{Enabled: &enabled})
	if !errors.Is(err, ErrSettingsNotSaved) {
		t.Fatalf("expected ErrSettingsNotSaved, got %v", err)
	}
}

func TestSettingsUpdate_AdvancesWatermark(t *testing.T) {
	repo, mock, db := newTestSettingsRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT enabled, remote_endpoint").
		WillReturnRows(sqlmock.NewRows(settingsColumns()).
			AddRow(true, "https://cloud.counttrack.example", "rk", "ek", "dsn", "instance-aaa", nil))

	watermark := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE sync_settings").
		WithArgs(true, "https://cloud.counttrack.example", "rk", "ek", "dsn", watermark).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg, err := repo.Update(context.Background(), models.SyncConfigUpdate{LastSyncAt: &watermark})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LastSyncAt == nil || !cfg.LastSyncAt.Equal(watermark) {
		t.Errorf("expected watermark %v, got %v", watermark, cfg.LastSyncAt)
	}
}
