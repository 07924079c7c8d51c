package client

import "errors"

// Sentinel errors mapped from daemon HTTP status codes. Callers can match
// against them with [errors.Is] regardless of the underlying transport.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrInternalServerError = errors.New("internal server error")
)
