// Package common defines shared constants and sentinel errors used across
// Screenwise server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// External auth outcomes. The same ErrInvalidCredentials value is
	// returned for unknown email, wrong password and inactive account so
	// that callers cannot probe which accounts exist.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidResetToken   = errors.New("invalid reset token")

	// Token codec errors (internal causes, collapsed before reaching clients).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
