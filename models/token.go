package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT session token with convenience accessors for the
// daemon's unlock flow.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry).
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
type Token struct {
	// Token is the underlying JWT token used for signing and claim
	// inspection. Excluded from JSON serialization because only the compact
	// string form is meaningful outside the daemon process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	// Excluded from JSON serialization; use [Token.String] to retrieve it.
	SignedString string `json:"-"`

	// SessionID is the unlock-session identifier extracted from the "sub"
	// claim. Internal daemon-side cache, never serialized.
	SessionID string `json:"-"`
}

// GetSessionID extracts the session identifier from the token's "sub"
// (subject) claim. Returns an error if the claim is missing or empty.
func (t *Token) GetSessionID() (string, error) {
	sessionID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting session ID from token: %w", err)
	}
	if sessionID == "" {
		return "", fmt.Errorf("empty session ID in token subject")
	}

	return sessionID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
