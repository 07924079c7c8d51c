package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	kc := NewKeyChain()

	s1, err := kc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := kc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestGenerateMasterKey_LengthAndRandomness(t *testing.T) {
	kc := NewKeyChain()

	m1, err := kc.GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey error: %v", err)
	}
	m2, err := kc.GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey error: %v", err)
	}

	if len(m1) != 32 {
		t.Fatalf("master key length = %d, want 32", len(m1))
	}
	if bytes.Equal(m1, m2) {
		t.Fatalf("expected master keys to differ, but they are equal")
	}
}

func TestDeriveKEK_DeterministicForSameInputs(t *testing.T) {
	kc := NewKeyChain()

	passphrase := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1 := kc.DeriveKEK(passphrase, salt)
	k2 := kc.DeriveKEK(passphrase, salt)

	if len(k1) != 32 {
		t.Fatalf("KEK length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected KEKs to match for same passphrase+salt")
	}
}

func TestDeriveKEK_DifferentSaltProducesDifferentKEK(t *testing.T) {
	kc := NewKeyChain()

	passphrase := "same passphrase"
	salt1 := bytes.Repeat([]byte{0x01}, 16)
	salt2 := bytes.Repeat([]byte{0x02}, 16)

	if bytes.Equal(kc.DeriveKEK(passphrase, salt1), kc.DeriveKEK(passphrase, salt2)) {
		t.Fatalf("expected different KEKs for different salts")
	}
}

func TestWrapMasterKey_UnwrapRoundTrip(t *testing.T) {
	kc := NewKeyChain()

	mk := bytes.Repeat([]byte{0xDD}, 32)
	kek := bytes.Repeat([]byte{0x2A}, 32) // valid AES-256 key length

	wrapped, err := kc.WrapMasterKey(mk, kek)
	if err != nil {
		t.Fatalf("WrapMasterKey error: %v", err)
	}

	unwrapped, err := kc.UnwrapMasterKey(wrapped, kek)
	if err != nil {
		t.Fatalf("UnwrapMasterKey error: %v", err)
	}

	if !bytes.Equal(unwrapped, mk) {
		t.Fatalf("unwrapped master key mismatch")
	}
}

func TestUnwrapMasterKey_WrongKEKFails(t *testing.T) {
	kc := NewKeyChain()

	mk := bytes.Repeat([]byte{0xDD}, 32)
	kek := bytes.Repeat([]byte{0x2A}, 32)
	wrongKEK := bytes.Repeat([]byte{0x2B}, 32)

	wrapped, err := kc.WrapMasterKey(mk, kek)
	if err != nil {
		t.Fatalf("WrapMasterKey error: %v", err)
	}

	if _, err = kc.UnwrapMasterKey(wrapped, wrongKEK); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed for wrong KEK, got %v", err)
	}
}

func TestSealString_OpenRoundTrip(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)

	for _, plaintext := range []string{
		"",
		"tok123",
		`{"username":"alice","password":"ghp_abcdef"}`,
		"пароль-🔑-ütf8",
	} {
		blob, err := kc.SealString(plaintext, key)
		if err != nil {
			t.Fatalf("SealString(%q) error: %v", plaintext, err)
		}

		got, err := kc.OpenString(blob, key)
		if err != nil {
			t.Fatalf("OpenString error: %v", err)
		}
		if got != plaintext {
			t.Fatalf("round-trip mismatch: got %q, want %q", got, plaintext)
		}
	}
}

func TestSealString_FreshNoncePerCall(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)

	b1, err := kc.SealString("same plaintext", key)
	if err != nil {
		t.Fatalf("SealString error: %v", err)
	}
	b2, err := kc.SealString("same plaintext", key)
	if err != nil {
		t.Fatalf("SealString error: %v", err)
	}

	if b1 == b2 {
		t.Fatalf("expected different blobs for two encryptions of the same plaintext")
	}
}

func TestOpenString_TamperedBlobFails(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)

	blob, err := kc.SealString("tok123", key)
	if err != nil {
		t.Fatalf("SealString error: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("decode blob: %v", err)
	}

	// Flip one bit in every byte position and verify each corruption is caught.
	for i := range raw {
		corrupted := make([]byte, len(raw))
		copy(corrupted, raw)
		corrupted[i] ^= 0x01

		_, err := kc.OpenString(base64.StdEncoding.EncodeToString(corrupted), key)
		if !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("bit flip at byte %d: expected ErrDecryptionFailed, got %v", i, err)
		}
	}
}

func TestOpenString_MalformedInputsFail(t *testing.T) {
	kc := NewKeyChain()
	key := bytes.Repeat([]byte{0x11}, 32)

	for _, blob := range []string{
		"not base64 at all!!!",
		base64.StdEncoding.EncodeToString([]byte("short")), // shorter than a nonce
		"",
	} {
		if _, err := kc.OpenString(blob, key); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("OpenString(%q): expected ErrDecryptionFailed, got %v", blob, err)
		}
	}
}
