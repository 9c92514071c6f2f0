package service

import (
	"github.com/avandres/counttrack/internal/adapter"
	"github.com/avandres/counttrack/internal/crypto"
	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/store"
)

type Services struct {
	Orchestrator  Orchestrator
	ConfigService ConfigService
	StatusService StatusService
	RemoteService RemoteService
	AppInfo       AppInfoService
	SyncJob       SyncJob
}

func NewServices(
	storages *store.Storages,
	gateway adapter.RemoteGateway,
	sealer crypto.Sealer,
	version string,
	logger *logger.Logger,
) *Services {
	orch := NewOrchestrator(storages, gateway, NewResolver(), logger)

	return &Services{
		Orchestrator:  orch,
		ConfigService: NewConfigService(storages.Settings, sealer, orch, logger),
		StatusService: NewStatusService(storages.Settings, storages.Changelog, orch, logger),
		RemoteService: NewRemoteService(storages.Settings, gateway, logger),
		AppInfo:       NewAppInfoService(version),
		SyncJob:       NewSyncJob(orch),
	}
}
