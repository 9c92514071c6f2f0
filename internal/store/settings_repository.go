// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/models"
)

// settingsRepository is the SQLite-backed implementation of
// [SettingsRepository]. The sync_settings table holds exactly one row
// (id = 1) created lazily on first read.
type settingsRepository struct {
	*DB
	logger *logger.Logger
}

// NewSettingsRepository constructs a [SettingsRepository] backed by the
// provided database connection and logger.
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		DB:     db,
		logger: logger,
	}
}

// Get implements [SettingsRepository]. On the very first call it inserts
// the default row, generating the installation's permanent instance id.
func (s *settingsRepository) Get(ctx context.Context) (models.SyncConfig, error) {
	log := logger.FromContext(ctx)

	cfg, err := s.scanSettings(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).Str("func", "settingsRepository.Get").Msg("failed to read sync settings")
		return models.SyncConfig{}, err
	}

	// First access: create the row. The instance id generated here is
	// permanent — it is never regenerated or reused.
	instanceID := uuid.NewString()
	if _, err = s.DB.ExecContext(ctx, insertDefaultSettings, instanceID); err != nil {
		log.Err(err).Str("func", "settingsRepository.Get").Msg("failed to insert default sync settings")
		return models.SyncConfig{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	log.Info().Str("func", "settingsRepository.Get").Str("instance_id", instanceID).Msg("initialized sync settings")

	return s.scanSettings(ctx)
}

// Update implements [SettingsRepository]. The merge happens in memory and
// the write is a single UPDATE covering every column, so the row is never
// partially written.
func (s *settingsRepository) Update(ctx context.Context, upd models.SyncConfigUpdate) (models.SyncConfig, error) {
	log := logger.FromContext(ctx)

	current, err := s.Get(ctx)
	if err != nil {
		return models.SyncConfig{}, err
	}

	merged := mergeSettings(current, upd)

	res, err := s.DB.ExecContext(ctx, updateSettings,
		merged.Enabled,
		merged.RemoteEndpoint,
		merged.RestrictedKey,
		merged.ElevatedKey,
		merged.DatabaseDSN,
		nullableTime(merged.LastSyncAt),
	)
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.Update").Msg("failed to update sync settings")
		return models.SyncConfig{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.SyncConfig{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return models.SyncConfig{}, ErrSettingsNotSaved
	}

	return merged, nil
}

func (s *settingsRepository) scanSettings(ctx context.Context) (models.SyncConfig, error) {
	var cfg models.SyncConfig
	var lastSyncAt sql.NullTime

	err := s.DB.QueryRowContext(ctx, getSettings).Scan(
		&cfg.Enabled,
		&cfg.RemoteEndpoint,
		&cfg.RestrictedKey,
		&cfg.ElevatedKey,
		&cfg.DatabaseDSN,
		&cfg.InstanceID,
		&lastSyncAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncConfig{}, err
		}
		return models.SyncConfig{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if lastSyncAt.Valid {
		t := lastSyncAt.Time
		cfg.LastSyncAt = &t
	}

	return cfg, nil
}

// mergeSettings overlays the non-nil fields of upd onto cfg. InstanceID is
// deliberately absent from SyncConfigUpdate: it is immutable once generated.
func mergeSettings(cfg models.SyncConfig, upd models.SyncConfigUpdate) models.SyncConfig {
	if upd.Enabled != nil {
		cfg.Enabled = *upd.Enabled
	}
	if upd.RemoteEndpoint != nil {
		cfg.RemoteEndpoint = *upd.RemoteEndpoint
	}
	if upd.RestrictedKey != nil {
		cfg.RestrictedKey = *upd.RestrictedKey
	}
	if upd.ElevatedKey != nil {
		cfg.ElevatedKey = *upd.ElevatedKey
	}
	if upd.DatabaseDSN != nil {
		cfg.DatabaseDSN = *upd.DatabaseDSN
	}
	if upd.LastSyncAt != nil {
		t := *upd.LastSyncAt
		cfg.LastSyncAt = &t
	}
	return cfg
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
