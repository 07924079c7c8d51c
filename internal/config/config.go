// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"
)

// StructuredConfig is the top-level configuration container for the gitvault
// daemon. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: the optional headless-unlock
	// passphrase, session token parameters and the version string.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the vault's key/value backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP API
	// and the gRPC health endpoint.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds background worker settings (idle auto-lock).
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged with the values already
	// loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Passphrase, when set, lets the daemon unlock the vault without an
	// interactive /api/session/unlock request (headless deployments).
	// Env: APP_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`

	// TokenSignKey is the secret key used to sign and verify session JWT
	// tokens. When empty, the daemon generates a random per-process key, so
	// sessions do not survive a restart.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session token
	// and validated on every authenticated request.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid after
	// unlock (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/version/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage selects the persistence backend for encrypted vault entries.
type Storage struct {
	// DSN selects and configures the backend:
	//   - "postgres://..."            — PostgreSQL
	//   - "*.db", "*.sqlite", "sqlite://..." — SQLite
	//   - any other path (or empty)   — JSON snapshot file
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP API listens, in
	// "host:port" format. The daemon is meant to serve loopback clients
	// (the IDE shell and vaultctl), so the default binds 127.0.0.1.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health endpoint the
	// desktop shell probes for liveness. Empty disables the endpoint.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// IdleLockInterval is how long the vault may sit unused before the
	// idle-lock worker wipes the master key from memory. Zero disables
	// auto-locking.
	// Env: WORKERS_IDLE_LOCK_INTERVAL
	IdleLockInterval time.Duration `env:"IDLE_LOCK_INTERVAL"`
}

// defaults returns the lowest-priority configuration layer: values used when
// no other source provides them.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "gitvault",
			TokenDuration: time.Hour,
		},
		Storage: Storage{
			DSN: defaultStorePath(),
		},
		Server: Server{
			HTTPAddress:    "127.0.0.1:8537",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			IdleLockInterval: 15 * time.Minute,
		},
	}
}

// defaultStorePath places the vault store under the user's home directory,
// falling back to the working directory when the home cannot be resolved.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gitvault.json"
	}
	return filepath.Join(home, ".gitvault", "vault.json")
}

// GetStructuredConfig loads, merges, and validates the daemon configuration
// from all available sources in the following priority order (earlier
// sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
