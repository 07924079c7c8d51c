// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"time"

	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/vault"
)

// idleLockWorker wipes the vault's master key from memory after the vault
// has been idle for the configured interval. Every credential operation
// refreshes the idle timestamp, so an actively used vault never locks.
type idleLockWorker struct {
	vault    *vault.Vault
	interval time.Duration

	logger *logger.Logger
}

func newIdleLockWorker(v *vault.Vault, interval time.Duration, logger *logger.Logger) *idleLockWorker {
	return &idleLockWorker{
		vault:    v,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the idle watcher goroutine and returns immediately.
//
// The watcher ticks at a quarter of the lock interval so that the vault is
// locked no later than interval*1.25 after its last use.
func (w *idleLockWorker) Run() {
	tick := w.interval / 4
	if tick < time.Second {
		tick = time.Second
	}

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for range ticker.C {
			w.lockIfIdle()
		}
	}()
}

// lockIfIdle delegates the idle decision to the vault itself, which checks
// and wipes under one lock. Deciding here on a stale idle reading would let
// an operation slip in between the check and the wipe.
func (w *idleLockWorker) lockIfIdle() {
	if w.vault.LockIfIdle(w.interval) {
		w.logger.Info().Dur("interval", w.interval).Msg("vault auto-locked after inactivity")
	}
}
