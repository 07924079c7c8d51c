// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/handler"
	"github.com/MKhiriev/gitvault/internal/logger"
)

// daemon fans the vault out over its loopback transports: the HTTP API
// consumed by vaultctl and the IDE shell, and the gRPC health endpoint the
// shell probes for liveness. Each transport is optional; which ones exist
// follows the handlers, which in turn follow the configured addresses.
type daemon struct {
	transports []Server
	logger     *logger.Logger
}

// NewServer assembles the daemon from the handlers that were configured.
// At least one transport must exist.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	d := &daemon{logger: logger}

	if handlers.HTTP != nil {
		d.transports = append(d.transports, newHTTPServer(handlers.HTTP.Init(), cfg, logger))
	}
	if handlers.GRPC != nil {
		d.transports = append(d.transports, newGRPCServer(handlers.GRPC, cfg, logger))
	}

	if len(d.transports) == 0 {
		return nil, errNoServersAreCreated
	}

	return d, nil
}

// RunServer starts every transport and blocks until a termination signal
// arrives, then drains them gracefully. The signal handler is installed
// before the first transport starts so an early signal is never dropped.
func (d *daemon) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	for _, t := range d.transports {
		go t.RunServer()
	}
	d.logger.Info().Int("transports", len(d.transports)).Msg("daemon started")

	<-ctx.Done()
	d.logger.Info().Msg("termination signal received, draining transports")

	d.Shutdown()
	d.logger.Info().Msg("daemon shut down gracefully")
}

// Shutdown stops every transport. The HTTP server drains in-flight
// credential requests first so a save in progress is not cut off; the
// health endpoint flips to NOT_SERVING before its listener closes.
func (d *daemon) Shutdown() {
	for _, t := range d.transports {
		t.Shutdown()
	}
}
