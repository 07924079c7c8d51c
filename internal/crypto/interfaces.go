package crypto

// KeyChain owns all cryptographic primitives used by the credential vault.
// It knows nothing about storage, URLs or credential layout; its single job
// is to generate, protect and apply the vault master key.
//
// Key lifecycle:
//
//	salt, mk = GenerateSalt() + GenerateMasterKey()   (first run)
//	kek      = DeriveKEK(passphrase, salt)
//	wrapped  = WrapMasterKey(mk, kek)                 (persisted at rest)
//	mk       = UnwrapMasterKey(wrapped, kek)          (every unlock)
type KeyChain interface {
	// GenerateSalt returns a random 16-byte (128-bit) salt. The salt is not
	// secret; it is persisted in the clear next to the wrapped master key so
	// that the same passphrase never yields the same KEK twice.
	GenerateSalt() ([]byte, error)

	// GenerateMasterKey returns a random 32-byte (256-bit) master key. The
	// master key encrypts every stored credential and never leaves the
	// process in the clear.
	GenerateMasterKey() ([]byte, error)

	// DeriveKEK derives a 256-bit key-encryption key from the vault
	// passphrase and salt using Argon2id. The KEK exists only in memory.
	DeriveKEK(passphrase string, salt []byte) []byte

	// WrapMasterKey encrypts the master key with the KEK using AES-256-GCM.
	// The result (nonce ‖ ciphertext) is safe to persist at rest.
	WrapMasterKey(masterKey, kek []byte) ([]byte, error)

	// UnwrapMasterKey reverses [KeyChain.WrapMasterKey]. It expects the blob
	// in the format nonce ‖ ciphertext and returns the original master key,
	// or an error if authentication fails (wrong passphrase/KEK).
	UnwrapMasterKey(wrapped, kek []byte) ([]byte, error)

	// SealString encrypts a UTF-8 string with the given 256-bit key and
	// returns a base64-encoded blob (nonce ‖ ciphertext).
	SealString(plaintext string, key []byte) (string, error)

	// OpenString decrypts a base64-encoded blob produced by SealString.
	// Any bit tampering or wrong key yields an error wrapping
	// [ErrDecryptionFailed], never corrupted plaintext.
	OpenString(blob string, key []byte) (string, error)
}
