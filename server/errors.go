package server

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Server-specific error codes
var (
	ErrComponentInit = errors.MustNewCode("server.component_init_failed")
	ErrStartFailed   = errors.MustNewCode("server.start_failed")
)
