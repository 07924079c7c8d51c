// Package config loads, merges and validates the gitvault daemon
// configuration from environment variables, command-line flags and an
// optional JSON file.
package config
