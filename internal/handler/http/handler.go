package http

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/utils"
	"github.com/MKhiriev/gitvault/internal/vault"
	"github.com/MKhiriev/gitvault/models"
)

type Handler struct {
	vault     *vault.Vault
	buildInfo models.AppBuildInfo
	sessions  *utils.UUIDGenerator

	cfg config.App

	logger *logger.Logger
}

func NewHandler(v *vault.Vault, buildInfo models.AppBuildInfo, cfg config.App, logger *logger.Logger) *Handler {
	// Without a configured sign key sessions are scoped to this process:
	// a restart invalidates every previously issued token.
	if cfg.TokenSignKey == "" {
		cfg.TokenSignKey = randomSignKey()
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		vault:     v,
		buildInfo: buildInfo,
		sessions:  utils.NewUUIDGenerator(),
		cfg:       cfg,
		logger:    logger,
	}
}

func randomSignKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("cannot read from crypto/rand: " + err.Error())
	}
	return hex.EncodeToString(key)
}
