// Package http implements the HTTP transport layer of the daemon.
// It provides middleware, route handlers, and request/response utilities
// for the local REST API used by the IDE shell and the vaultctl CLI.
// Authentication, logging and tracing concerns are all handled at this
// layer before requests are forwarded to the vault.
package http
