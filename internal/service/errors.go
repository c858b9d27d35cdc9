package service

import "errors"

var (
	// ErrForbidden means the acting identity is not allowed to perform the
	// operation on the target record.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials covers both unknown-email and bad-password login
	// attempts so callers cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidStatus means a caller supplied an initial booking status
	// other than PENDING.
	ErrInvalidStatus = errors.New("invalid initial booking status")

	// ErrInvalidToken means a password reset token is unknown, expired or
	// already consumed.
	ErrInvalidToken = errors.New("invalid or expired reset token")
)
