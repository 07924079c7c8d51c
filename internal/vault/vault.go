// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements the credential vault: at-rest encryption for Git
// host credentials with a stable lookup/save/remove API keyed by remote host
// domain, independent of how the storage format evolved over time.
//
// The vault owns the master key exclusively; callers only ever see
// [models.CredentialRecord] values, never key material or ciphertext.
package vault

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/gitvault/internal/crypto"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/store"
	"github.com/MKhiriev/gitvault/models"
)

// Storage keys for master-key material. Credentials themselves are stored
// under their bare domain ("github.com").
const (
	// masterKeyDataEntry holds the passphrase-protected master key:
	// base64(salt(16) ‖ nonce(12) ‖ wrapped key).
	masterKeyDataEntry = "masterKeyData"

	// plainMasterKeyEntry is the superseded unprotected layout: base64 of
	// the raw master key. Read once and upgraded to the wrapped form.
	plainMasterKeyEntry = "masterKey"

	saltLen = 16
)

// Vault provides at-rest encryption for small secrets keyed by remote host
// domain. It is constructed once at application start and shared by every
// caller; the master key lives as a private field, loaded by Unlock (or
// lazily by EnsureEncryption when a passphrase is configured) and immutable
// until Lock wipes it.
type Vault struct {
	keychain crypto.KeyChain
	store    store.KVStore
	logger   *logger.Logger

	// passphrase, when non-empty, lets EnsureEncryption unlock the vault
	// without an explicit Unlock call (headless deployments that pass the
	// passphrase through configuration).
	passphrase string

	mu        sync.RWMutex
	masterKey []byte
	lastUsed  time.Time
}

// Option customises a [Vault] at construction time.
type Option func(*Vault)

// WithPassphrase configures a passphrase for automatic unlocking, so that
// EnsureEncryption can initialize the master key without an interactive
// unlock request.
func WithPassphrase(passphrase string) Option {
	return func(v *Vault) { v.passphrase = passphrase }
}

// NewVault constructs a [Vault] on top of the given keychain and store.
func NewVault(keychain crypto.KeyChain, kv store.KVStore, log *logger.Logger, opts ...Option) *Vault {
	log.Debug().Msg("creating credential vault")
	v := &Vault{
		keychain: keychain,
		store:    kv,
		logger:   log,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// EnsureEncryption guarantees a master key is loaded into memory, generating
// and persisting one if none exists yet. Idempotent and safe to call before
// every operation.
//
// Returns false — and the caller must treat all crypto operations as
// unavailable — if key material could not be initialized: no passphrase is
// available, the passphrase is wrong, or persisting a newly generated key
// failed.
func (v *Vault) EnsureEncryption(ctx context.Context) bool {
	if v.Unlocked() {
		v.touch()
		return true
	}

	if v.passphrase == "" {
		v.logger.Warn().Str("kind", KindKeyInitialization.String()).
			Msg("vault is locked and no passphrase is configured")
		return false
	}

	if err := v.Unlock(ctx, v.passphrase); err != nil {
		v.logger.Err(err).Str("kind", KindKeyInitialization.String()).
			Msg("automatic unlock failed")
		return false
	}

	return true
}

// Unlock loads the master key into memory, deriving the KEK from passphrase.
//
// Three storage states are handled:
//   - wrapped key present: unwrap it; a GCM authentication failure maps to
//     [ErrWrongPassphrase];
//   - superseded plain key present: load it, re-persist in the wrapped
//     layout and delete the plain entry (upgrade is best-effort: if the
//     write fails the plain entry stays and the key is still usable);
//   - nothing stored: generate a fresh key and persist it wrapped. A write
//     failure here leaves the vault locked.
func (v *Vault) Unlock(ctx context.Context, passphrase string) error {
	if passphrase == "" {
		return vaultErr(KindKeyInitialization, ErrEmptyPassphrase)
	}

	wrapped, err := v.store.Get(ctx, masterKeyDataEntry)
	switch {
	case err == nil:
		return v.unlockWrapped(wrapped, passphrase)
	case errors.Is(err, store.ErrEntryNotFound):
		// fall through to the plain-key and first-run paths
	default:
		return vaultErr(KindStorage, fmt.Errorf("read master key: %w", err))
	}

	plain, err := v.store.Get(ctx, plainMasterKeyEntry)
	switch {
	case err == nil:
		return v.upgradePlainKey(ctx, plain, passphrase)
	case errors.Is(err, store.ErrEntryNotFound):
		return v.generateMasterKey(ctx, passphrase)
	default:
		return vaultErr(KindStorage, fmt.Errorf("read legacy master key: %w", err))
	}
}

// Lock wipes the master key from memory. The next operation requires an
// Unlock (or a configured passphrase).
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.wipeKey()
	v.logger.Info().Msg("vault locked")
}

// LockIfIdle wipes the master key only if the vault has seen no operation
// for at least interval. The idle check and the wipe share one critical
// section, so an operation that refreshes lastUsed concurrently cannot lose
// the race and have its key wiped mid-flight. Reports whether the vault was
// locked by this call. Used by the idle-lock worker.
func (v *Vault) LockIfIdle(interval time.Duration) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.masterKey == nil {
		return false
	}
	if time.Since(v.lastUsed) < interval {
		return false
	}

	v.wipeKey()
	v.logger.Info().Msg("vault locked")
	return true
}

// wipeKey zeroizes and drops the master key. Callers must hold v.mu.
func (v *Vault) wipeKey() {
	for i := range v.masterKey {
		v.masterKey[i] = 0
	}
	v.masterKey = nil
}

// Unlocked reports whether a master key is currently loaded.
func (v *Vault) Unlocked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.masterKey != nil
}

// LookupSavedPassword returns the credential stored for the host of url, or
// nil when none is stored. The url may be a full clone URL or a bare domain.
//
// On first lookup after legacy per-field entries exist for the host's
// provider, the entries are migrated into the consolidated domain-keyed
// format and then deleted. A failure to write the migrated record leaves the
// legacy entries untouched and still returns the record.
//
// Decryption failures (corrupted blob, foreign key) are treated as absence:
// the broken entry is deleted and nil is returned. This method never fails
// with an error; everything unexpected is logged and mapped to nil.
func (v *Vault) LookupSavedPassword(ctx context.Context, url string) *models.CredentialRecord {
	log := logger.FromContext(ctx)

	if !v.EnsureEncryption(ctx) {
		return nil
	}

	domain := NormalizeDomain(url)
	if domain == "" {
		log.Debug().Str("url", url).Msg("no domain could be extracted from url")
		return nil
	}

	blob, err := v.store.Get(ctx, domain)
	switch {
	case err == nil:
		return v.decodeRecord(ctx, domain, blob)
	case errors.Is(err, store.ErrEntryNotFound):
		return v.lookupLegacy(ctx, domain)
	default:
		log.Err(vaultErr(KindStorage, err)).Str("domain", domain).Msg("error reading credential")
		return nil
	}
}

// SaveGitAuth encrypts record and stores it under the host domain of url,
// overwriting any previous value. Only the consolidated format is written.
func (v *Vault) SaveGitAuth(ctx context.Context, url string, record models.CredentialRecord) error {
	if !v.EnsureEncryption(ctx) {
		return vaultErr(KindKeyInitialization, ErrVaultLocked)
	}

	domain := NormalizeDomain(url)
	if domain == "" {
		return vaultErr(KindStorage, fmt.Errorf("no domain in url %q", url))
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return vaultErr(KindStorage, fmt.Errorf("marshal credential: %w", err))
	}

	blob, err := v.keychain.SealString(string(payload), v.key())
	if err != nil {
		return vaultErr(KindKeyInitialization, fmt.Errorf("encrypt credential: %w", err))
	}

	if err = v.store.Set(ctx, domain, blob); err != nil {
		return vaultErr(KindStorage, fmt.Errorf("store credential: %w", err))
	}

	v.touch()
	return nil
}

// RemoveGitAuth deletes the credential stored for the host domain of url.
// Legacy entries need no cleanup here: they are removed at migration time or
// never existed.
func (v *Vault) RemoveGitAuth(ctx context.Context, url string) error {
	domain := NormalizeDomain(url)
	if domain == "" {
		return vaultErr(KindStorage, fmt.Errorf("no domain in url %q", url))
	}

	if err := v.store.Delete(ctx, domain); err != nil {
		return vaultErr(KindStorage, fmt.Errorf("delete credential: %w", err))
	}

	v.touch()
	return nil
}

// --- master key lifecycle -------------------------------------------------

func (v *Vault) unlockWrapped(encoded, passphrase string) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) <= saltLen {
		return vaultErr(KindKeyInitialization, fmt.Errorf("malformed master key data"))
	}

	salt, wrapped := raw[:saltLen], raw[saltLen:]
	kek := v.keychain.DeriveKEK(passphrase, salt)

	mk, err := v.keychain.UnwrapMasterKey(wrapped, kek)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			return vaultErr(KindKeyInitialization, ErrWrongPassphrase)
		}
		return vaultErr(KindKeyInitialization, err)
	}

	v.setKey(mk)
	return nil
}

func (v *Vault) upgradePlainKey(ctx context.Context, encoded, passphrase string) error {
	mk, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(mk) != 32 {
		return vaultErr(KindKeyInitialization, fmt.Errorf("malformed legacy master key"))
	}

	// Best effort: the key is usable even if re-persisting it wrapped fails.
	if err := v.persistWrapped(ctx, mk, passphrase); err != nil {
		v.logger.Err(err).Str("kind", KindMigrationWrite.String()).
			Msg("failed to upgrade plain master key, keeping legacy entry")
	} else if err := v.store.Delete(ctx, plainMasterKeyEntry); err != nil {
		v.logger.Err(err).Msg("failed to delete plain master key entry after upgrade")
	} else {
		v.logger.Info().Msg("master key upgraded to passphrase-protected layout")
	}

	v.setKey(mk)
	return nil
}

func (v *Vault) generateMasterKey(ctx context.Context, passphrase string) error {
	mk, err := v.keychain.GenerateMasterKey()
	if err != nil {
		return vaultErr(KindKeyInitialization, fmt.Errorf("generate master key: %w", err))
	}

	// Unlike the plain-key upgrade, a fresh key that was never persisted
	// must not be used: credentials encrypted under it would be lost on
	// restart.
	if err = v.persistWrapped(ctx, mk, passphrase); err != nil {
		return err
	}

	v.setKey(mk)
	v.logger.Info().Msg("generated new vault master key")
	return nil
}

func (v *Vault) persistWrapped(ctx context.Context, mk []byte, passphrase string) error {
	salt, err := v.keychain.GenerateSalt()
	if err != nil {
		return vaultErr(KindKeyInitialization, fmt.Errorf("generate salt: %w", err))
	}

	kek := v.keychain.DeriveKEK(passphrase, salt)
	wrapped, err := v.keychain.WrapMasterKey(mk, kek)
	if err != nil {
		return vaultErr(KindKeyInitialization, fmt.Errorf("wrap master key: %w", err))
	}

	encoded := base64.StdEncoding.EncodeToString(append(salt, wrapped...))
	if err = v.store.Set(ctx, masterKeyDataEntry, encoded); err != nil {
		return vaultErr(KindKeyInitialization, fmt.Errorf("persist master key: %w", err))
	}

	return nil
}

// --- lookup internals -----------------------------------------------------

// decodeRecord decrypts and unmarshals a consolidated-format blob. Broken
// entries are deleted and reported as absent.
func (v *Vault) decodeRecord(ctx context.Context, domain, blob string) *models.CredentialRecord {
	log := logger.FromContext(ctx)

	plaintext, err := v.keychain.OpenString(blob, v.key())
	if err != nil {
		log.Err(vaultErr(KindDecryption, err)).Str("domain", domain).
			Msg("stored credential failed decryption, removing broken entry")
		v.deleteBroken(ctx, domain)
		return nil
	}

	var record models.CredentialRecord
	if err = json.Unmarshal([]byte(plaintext), &record); err != nil {
		log.Err(vaultErr(KindDecryption, err)).Str("domain", domain).
			Msg("stored credential is not valid JSON, removing broken entry")
		v.deleteBroken(ctx, domain)
		return nil
	}
	if record.IsZero() {
		log.Error().Str("domain", domain).
			Msg("stored credential carries no material, removing broken entry")
		v.deleteBroken(ctx, domain)
		return nil
	}

	v.touch()
	return &record
}

// lookupLegacy reads the per-field entries of the superseded scheme and, on
// success, migrates them into the consolidated format.
func (v *Vault) lookupLegacy(ctx context.Context, domain string) *models.CredentialRecord {
	log := logger.FromContext(ctx)

	keys, ok := legacyKeysFor(domain)
	if !ok {
		return nil
	}

	username, found := v.readLegacyField(ctx, keys.username)
	if !found {
		return nil
	}
	token, found := v.readLegacyField(ctx, keys.token)
	if !found {
		return nil
	}

	record := models.CredentialRecord{Username: username, Password: token}

	// Migrate: write the consolidated blob, then clean up every legacy key
	// variant. All-or-nothing — a failed write leaves legacy data untouched
	// and the record is still returned.
	if err := v.SaveGitAuth(ctx, domain, record); err != nil {
		log.Err(vaultErr(KindMigrationWrite, err)).Str("domain", domain).
			Msg("migration write failed, keeping legacy entries")
		return &record
	}

	for _, key := range keys.all() {
		if err := v.store.Delete(ctx, key); err != nil {
			log.Err(err).Str("key", key).Msg("failed to delete legacy entry after migration")
		}
	}
	log.Info().Str("domain", domain).Msg("migrated legacy credential to consolidated format")

	v.touch()
	return &record
}

// readLegacyField fetches and decrypts one scalar legacy entry. A broken
// entry is deleted and reported as missing.
func (v *Vault) readLegacyField(ctx context.Context, key string) (string, bool) {
	log := logger.FromContext(ctx)

	blob, err := v.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrEntryNotFound) {
			log.Err(vaultErr(KindStorage, err)).Str("key", key).Msg("error reading legacy entry")
		}
		return "", false
	}

	value, err := v.keychain.OpenString(blob, v.key())
	if err != nil {
		log.Err(vaultErr(KindDecryption, err)).Str("key", key).
			Msg("legacy entry failed decryption, removing broken entry")
		v.deleteBroken(ctx, key)
		return "", false
	}

	return value, true
}

func (v *Vault) deleteBroken(ctx context.Context, key string) {
	if err := v.store.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Err(err).Str("key", key).Msg("failed to delete broken entry")
	}
}

// key returns a private copy of the master key. Handing out the live slice
// would let a concurrent Lock zeroize it under an in-flight seal or open,
// producing a blob that never decrypts again.
func (v *Vault) key() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()

	k := make([]byte, len(v.masterKey))
	copy(k, v.masterKey)
	return k
}

func (v *Vault) setKey(mk []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.masterKey = mk
	v.lastUsed = time.Now()
}

func (v *Vault) touch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()
}
