package service

import (
	"context"
	"time"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/store"
	"github.com/avandres/counttrack/models"
)

type statusService struct {
	settings  store.SettingsRepository
	changelog store.ChangelogRepository
	orch      Orchestrator
	logger    *logger.Logger
}

// NewStatusService constructs a [StatusService].
func NewStatusService(
	settings store.SettingsRepository,
	changelog store.ChangelogRepository,
	orch Orchestrator,
	log *logger.Logger,
) StatusService {
	return &statusService{
		settings:  settings,
		changelog: changelog,
		orch:      orch,
		logger:    log,
	}
}

// Snapshot implements [StatusService]. It reads state without touching
// the cycle lock, so polling it during a long cycle always returns
// promptly. The pending count is computed live from the audit trail.
func (s *statusService) Snapshot(ctx context.Context) (models.StatusSnapshot, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return models.StatusSnapshot{}, err
	}

	since := time.Time{}
	if cfg.LastSyncAt != nil {
		since = *cfg.LastSyncAt
	}

	pending, err := s.changelog.PendingCount(ctx, since, cfg.InstanceID)
	if err != nil {
		return models.StatusSnapshot{}, err
	}

	return models.StatusSnapshot{
		Enabled:      cfg.Enabled,
		State:        s.orch.State(),
		InstanceID:   cfg.InstanceID,
		LastSyncAt:   cfg.LastSyncAt,
		PendingCount: pending,
		LastError:    s.orch.LastError(),
	}, nil
}
