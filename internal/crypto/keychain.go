// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrDecryptionFailed is wrapped by every authentication or framing failure
// in [KeyChain.OpenString] and [KeyChain.UnwrapMasterKey]. Callers match it
// with [errors.Is] to distinguish "wrong key / tampered blob" from
// programming errors.
var ErrDecryptionFailed = errors.New("decryption failed")

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. laptop vs. CI runner).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyChain constructs a [KeyChain] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChain() KeyChain {
	return &keyChain{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// GenerateSalt implements [KeyChain]. It reads 16 random bytes from the OS
// CSPRNG. Returns an error if the random read fails.
func (k *keyChain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateMasterKey implements [KeyChain]. It reads 32 random bytes from the
// OS CSPRNG. Returns an error if the random read fails.
func (k *keyChain) GenerateMasterKey() ([]byte, error) {
	mk := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, mk); err != nil {
		return nil, err
	}
	return mk, nil
}

// DeriveKEK implements [KeyChain]. It derives a 256-bit key-encryption key
// from the vault passphrase and salt using Argon2id with the parameters
// stored in the receiver. The result exists only in memory and is never
// persisted.
func (k *keyChain) DeriveKEK(passphrase string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(passphrase),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}

// WrapMasterKey implements [KeyChain]. It encrypts the master key with the
// KEK using AES-256-GCM. A random 12-byte nonce is prepended to the
// ciphertext so that the unwrap side can locate it: blob = nonce ‖ ciphertext.
// Returns an error if cipher creation or the random nonce read fails.
func (k *keyChain) WrapMasterKey(masterKey, kek []byte) ([]byte, error) {
	gcm, err := newGCM(kek)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend the nonce so UnwrapMasterKey can split it back out.
	wrapped := gcm.Seal(nil, nonce, masterKey, nil)
	return append(nonce, wrapped...), nil
}

// UnwrapMasterKey implements [KeyChain]. It reverses
// [keyChain.WrapMasterKey] using the KEK. The blob must be at least as long
// as the GCM nonce (12 bytes). An authentication failure here almost always
// means the user entered the wrong passphrase, producing a wrong KEK.
func (k *keyChain) UnwrapMasterKey(wrapped, kek []byte) ([]byte, error) {
	gcm, err := newGCM(kek)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(wrapped) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", ErrDecryptionFailed)
	}

	nonce, ciphertext := wrapped[:nonceSize], wrapped[nonceSize:]
	mk, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return mk, nil
}

// SealString implements [KeyChain]. It encrypts the UTF-8 plaintext with the
// given 256-bit key using AES-256-GCM and returns a Base64 (standard
// encoding) string of the blob: nonce (12 bytes) ‖ ciphertext. A fresh nonce
// is generated per call; reusing one under the same key would void GCM's
// confidentiality and integrity guarantees.
func (k *keyChain) SealString(plaintext string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// OpenString implements [KeyChain]. It Base64-decodes the blob, splits out
// the nonce and decrypts the ciphertext with the given key via AES-256-GCM.
// Every framing or authentication failure wraps [ErrDecryptionFailed]; GCM's
// tag verification guarantees tampered blobs error out instead of producing
// garbage plaintext.
func (k *keyChain) OpenString(blob string, key []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %v", ErrDecryptionFailed, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: blob too short", ErrDecryptionFailed)
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// newGCM builds an AES-256-GCM AEAD from a 32-byte key.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
