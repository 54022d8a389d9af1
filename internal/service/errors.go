// Package service provides business logic services for Zettel.
package service

import "errors"

// Common service errors.
var (
	// ErrBackupDisabled indicates the backup backend is not configured.
	ErrBackupDisabled = errors.New("backup is not enabled")

	// ErrInternalError wraps infrastructure failures (storage, network).
	// These are fatal to the current request only; the handler maps them
	// to a generic 500 response.
	ErrInternalError = errors.New("internal server error")
)
