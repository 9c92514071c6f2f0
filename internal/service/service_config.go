// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avandres/counttrack/internal/crypto"
	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/store"
	"github.com/avandres/counttrack/models"
)

const (
	// portablePrefix marks an exported configuration string. Anything not
	// starting with it is rejected before any decoding is attempted.
	portablePrefix = "CTT:"

	// portableVersion is the only codec version this build understands.
	portableVersion = "1"
)

type configService struct {
	settings store.SettingsRepository
	sealer   crypto.Sealer
	orch     Orchestrator
	logger   *logger.Logger
}

// NewConfigService constructs a [ConfigService]. The orchestrator is
// notified after every successful update so the resting state tracks the
// configuration without waiting for the next scheduler tick.
func NewConfigService(
	settings store.SettingsRepository,
	sealer crypto.Sealer,
	orch Orchestrator,
	log *logger.Logger,
) ConfigService {
	return &configService{
		settings: settings,
		sealer:   sealer,
		orch:     orch,
		logger:   log,
	}
}

// Get implements [ConfigService].
func (s *configService) Get(ctx context.Context) (models.SyncConfig, error) {
	return s.settings.Get(ctx)
}

// GetRedacted implements [ConfigService].
func (s *configService) GetRedacted(ctx context.Context) (models.SyncConfig, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return models.SyncConfig{}, err
	}
	return cfg.Redacted(), nil
}

// Update implements [ConfigService].
func (s *configService) Update(ctx context.Context, upd models.SyncConfigUpdate) (models.SyncConfig, error) {
	cfg, err := s.settings.Update(ctx, upd)
	if err != nil {
		return models.SyncConfig{}, err
	}

	s.logger.Info().Str("func", "configService.Update").Msg("sync configuration updated")
	s.orch.RefreshState(ctx)

	return cfg, nil
}

// Export implements [ConfigService]. The output has the shape
//
//	CTT:<version>:<base64(sealed payload)>
//
// where the payload is the JSON-encoded shareable subset of the config.
// An unconfigured installation has nothing worth sharing and exporting it
// would produce a string that breaks the importing side, so Export
// requires a complete connection configuration.
func (s *configService) Export(ctx context.Context) (string, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	if !cfg.IsConfigured() {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(cfg.Portable())
	if err != nil {
		return "", fmt.Errorf("encode portable config: %w", err)
	}

	sealed, err := s.sealer.Seal(payload)
	if err != nil {
		return "", fmt.Errorf("seal portable config: %w", err)
	}

	return portablePrefix + portableVersion + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Import implements [ConfigService]. Connection fields are applied as one
// unit; Enabled, InstanceID and the watermark are deliberately left
// untouched — the operator decides when to switch the imported connection
// on, and identity never travels between installations.
func (s *configService) Import(ctx context.Context, portable string) (models.SyncConfig, error) {
	payload, err := s.decodePortable(portable)
	if err != nil {
		return models.SyncConfig{}, err
	}

	var pc models.PortableConfig
	if err = json.Unmarshal(payload, &pc); err != nil {
		return models.SyncConfig{}, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	cfg, err := s.settings.Update(ctx, models.SyncConfigUpdate{
		RemoteEndpoint: &pc.RemoteEndpoint,
		RestrictedKey:  &pc.RestrictedKey,
		ElevatedKey:    &pc.ElevatedKey,
		DatabaseDSN:    &pc.DatabaseDSN,
	})
	if err != nil {
		return models.SyncConfig{}, err
	}

	s.logger.Info().Str("func", "configService.Import").Msg("portable configuration imported")
	s.orch.RefreshState(ctx)

	return cfg, nil
}

// decodePortable validates the envelope and returns the decrypted
// payload. Each failure mode maps to its own sentinel so callers can tell
// "not one of ours" from "ours but from the future" from "ours but
// damaged".
func (s *configService) decodePortable(portable string) ([]byte, error) {
	rest, ok := strings.CutPrefix(portable, portablePrefix)
	if !ok {
		return nil, ErrMalformedConfig
	}

	version, encoded, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, ErrMalformedConfig
	}
	if version != portableVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	payload, err := s.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	return payload, nil
}
