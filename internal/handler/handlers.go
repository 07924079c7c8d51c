package handler

import (
	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/handler/grpc"
	"github.com/MKhiriev/gitvault/internal/handler/http"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/vault"
	"github.com/MKhiriev/gitvault/models"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(v *vault.Vault, buildInfo models.AppBuildInfo, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(v, buildInfo, cfg.App, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
