package workers

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/crypto"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/store"
	"github.com/MKhiriev/gitvault/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnlockedVault(t *testing.T) *vault.Vault {
	t.Helper()

	kv, err := store.NewFileStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	v := vault.NewVault(crypto.NewKeyChain(), kv, logger.Nop())
	require.NoError(t, v.Unlock(context.Background(), "test passphrase"))

	return v
}

func TestIdleLockWorker_LocksAfterIdleInterval(t *testing.T) {
	v := newUnlockedVault(t)
	w := newIdleLockWorker(v, time.Millisecond, logger.Nop())

	time.Sleep(5 * time.Millisecond)
	w.lockIfIdle()

	assert.False(t, v.Unlocked())
}

func TestIdleLockWorker_KeepsActiveVaultUnlocked(t *testing.T) {
	v := newUnlockedVault(t)
	w := newIdleLockWorker(v, time.Hour, logger.Nop())

	w.lockIfIdle()

	assert.True(t, v.Unlocked())
}

func TestIdleLockWorker_NoopWhenAlreadyLocked(t *testing.T) {
	v := newUnlockedVault(t)
	v.Lock()

	w := newIdleLockWorker(v, time.Millisecond, logger.Nop())
	time.Sleep(5 * time.Millisecond)
	w.lockIfIdle()

	assert.False(t, v.Unlocked())
}

func TestNewWorkers_ZeroIntervalDisablesIdleLock(t *testing.T) {
	v := newUnlockedVault(t)

	ws := NewWorkers(v, config.Workers{IdleLockInterval: 0}, logger.Nop())
	assert.Empty(t, ws.workers)
}

func TestNewWorkers_WithIdleLock(t *testing.T) {
	v := newUnlockedVault(t)

	ws := NewWorkers(v, config.Workers{IdleLockInterval: time.Minute}, logger.Nop())
	assert.Len(t, ws.workers, 1)
}
