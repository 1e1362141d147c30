package metadata

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Metadata-specific error codes
var (
	ErrOpenFailed          = errors.MustNewCode("metadata.open_failed")
	ErrMigrationFailed     = errors.MustNewCode("metadata.migration_failed")
	ErrUserExists          = errors.MustNewCode("metadata.user_exists")
	ErrUserNotFound        = errors.MustNewCode("metadata.user_not_found")
	ErrCredentialNotFound  = errors.MustNewCode("metadata.credential_not_found")
	ErrCredentialSaveError = errors.MustNewCode("metadata.credential_save_failed")
	ErrQueryLogWriteFailed = errors.MustNewCode("metadata.query_log_write_failed")
	ErrQueryLogReadFailed  = errors.MustNewCode("metadata.query_log_read_failed")
	ErrTableRecordFailed   = errors.MustNewCode("metadata.table_record_failed")
	ErrTableNotFound       = errors.MustNewCode("metadata.table_not_found")
)
