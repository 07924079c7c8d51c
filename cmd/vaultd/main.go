package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/crypto"
	"github.com/MKhiriev/gitvault/internal/handler"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/server"
	"github.com/MKhiriev/gitvault/internal/store"
	"github.com/MKhiriev/gitvault/internal/vault"
	"github.com/MKhiriev/gitvault/internal/workers"
	"github.com/MKhiriev/gitvault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("vaultd")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	buildInfo := printBuildInfo(cfg.App.Version)

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	kv, err := store.NewKVStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating vault storage")
	}
	defer kv.Close()

	var opts []vault.Option
	if cfg.App.Passphrase != "" {
		opts = append(opts, vault.WithPassphrase(cfg.App.Passphrase))
	}
	v := vault.NewVault(crypto.NewKeyChain(), kv, log, opts...)

	workers.NewWorkers(v, cfg.Workers, log).Run()

	handlers, err := handler.NewHandlers(v, buildInfo, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(configVersion string) models.AppBuildInfo {
	if buildVersion == "" {
		buildVersion = configVersion
	}
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

	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}
