package main

import (
	"context"
	"fmt"

	"github.com/avandres/counttrack/internal/adapter"
	"github.com/avandres/counttrack/internal/config"
	"github.com/avandres/counttrack/internal/crypto"
	handler "github.com/avandres/counttrack/internal/handler/http"
	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/server"
	"github.com/avandres/counttrack/internal/service"
	"github.com/avandres/counttrack/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("counttrack")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	db, err := store.NewConnectSQLite(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to local database")
	}

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating local database")
	}

	storages := store.NewStorages(db, log)
	gateway := adapter.NewRemoteGateway(adapter.GatewayConfig{Timeout: cfg.Sync.NetworkTimeout}, log)
	services := service.NewServices(storages, gateway, crypto.NewSealer(), cfg.App.Version, log)

	services.SyncJob.Start(context.Background(), cfg.Sync.Interval)

	handlers := handler.NewHandler(services, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, func() {
		services.Orchestrator.Shutdown()
		services.SyncJob.Stop()
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
