// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client provides transport-layer access to the gitvault daemon.
//
// The primary abstraction is [DaemonClient], which decouples the vaultctl
// command implementations from the underlying protocol. The package ships an
// HTTP/REST implementation ([NewHTTPDaemonClient]) speaking to the daemon's
// loopback API.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrNotFound] for 404).
package client

import (
	"context"

	"github.com/MKhiriev/gitvault/models"
)

// DaemonClient defines transport-agnostic communication with the gitvault
// daemon. Implementations are responsible for serialisation, session token
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type DaemonClient interface {
	// SetToken stores the session bearer token that will be attached to all
	// subsequent authenticated requests. It is called automatically after a
	// successful Unlock.
	SetToken(token string)

	// Token returns the session token currently stored in the client, or an
	// empty string if Unlock has not succeeded yet.
	Token() string

	// Unlock submits the vault passphrase to the daemon. On success it stores
	// the issued session token via SetToken. Returns [ErrUnauthorized]
	// (wrapped) on a wrong passphrase.
	Unlock(ctx context.Context, passphrase string) error

	// Lookup fetches the stored credential for the given remote URL or bare
	// domain. Returns (nil, nil) when the daemon holds no credential for that
	// host.
	Lookup(ctx context.Context, url string) (*models.CredentialRecord, error)

	// Save stores a credential for the remote named in the request,
	// overwriting any previous credential for the same host.
	Save(ctx context.Context, req models.SaveCredentialRequest) error

	// Remove deletes the stored credential for the given remote URL or bare
	// domain. Removing an absent credential is not an error.
	Remove(ctx context.Context, url string) error

	// Version fetches the daemon's build information.
	Version(ctx context.Context) (map[string]string, error)
}
