package service

import (
	"context"

	"github.com/avandres/counttrack/internal/adapter"
	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/store"
)

type remoteService struct {
	settings store.SettingsRepository
	gateway  adapter.RemoteGateway
	logger   *logger.Logger
}

// NewRemoteService constructs a [RemoteService].
func NewRemoteService(settings store.SettingsRepository, gateway adapter.RemoteGateway, log *logger.Logger) RemoteService {
	return &remoteService{
		settings: settings,
		gateway:  gateway,
		logger:   log,
	}
}

// TestConnection implements [RemoteService].
func (s *remoteService) TestConnection(ctx context.Context) (bool, string, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return false, "", err
	}
	if !cfg.IsConfigured() {
		return false, "", ErrNotConfigured
	}

	ok, message, err := s.gateway.TestConnection(ctx, cfg)
	s.logger.Info().
		Str("func", "remoteService.TestConnection").
		Bool("ok", ok).
		Str("message", message).
		Msg("connection test finished")

	return ok, message, err
}

// VerifySchema implements [RemoteService].
func (s *remoteService) VerifySchema(ctx context.Context) (bool, string, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return false, "", err
	}
	if !cfg.IsConfigured() {
		return false, "", ErrNotConfigured
	}

	ok, message, err := s.gateway.VerifySchema(ctx, cfg)
	s.logger.Info().
		Str("func", "remoteService.VerifySchema").
		Bool("ok", ok).
		Str("message", message).
		Msg("schema verification finished")

	return ok, message, err
}
