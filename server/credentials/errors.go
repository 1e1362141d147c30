package credentials

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Credential-specific error codes
var (
	ErrKeyMissing    = errors.MustNewCode("credentials.key_missing")
	ErrKeyInvalid    = errors.MustNewCode("credentials.key_invalid")
	ErrEncryptFailed = errors.MustNewCode("credentials.encrypt_failed")
	ErrDecryptFailed = errors.MustNewCode("credentials.decrypt_failed")
)
