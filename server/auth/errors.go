package auth

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Auth-specific error codes
var (
	ErrInvalidInput   = errors.MustNewCode("auth.invalid_input")
	ErrHashFailed     = errors.MustNewCode("auth.hash_failed")
	ErrInvalidLogin   = errors.MustNewCode("auth.invalid_login")
	ErrInvalidSession = errors.MustNewCode("auth.invalid_session")
	ErrSessionExpired = errors.MustNewCode("auth.session_expired")
	ErrTokenFailed    = errors.MustNewCode("auth.token_failed")
)
