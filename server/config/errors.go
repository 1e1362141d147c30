package config

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Config-specific error codes
var (
	ErrConfigFileReadFailed    = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed   = errors.MustNewCode("config.file_parse_failed")
	ErrConfigValidationFailed  = errors.MustNewCode("config.validation_failed")
	ErrConfigFileMarshalFailed = errors.MustNewCode("config.file_marshal_failed")
	ErrConfigFileWriteFailed   = errors.MustNewCode("config.file_write_failed")
	ErrStorageValidationFailed = errors.MustNewCode("config.storage_validation_failed")
	ErrMetadataPathRequired    = errors.MustNewCode("config.metadata_path_required")
	ErrAIValidationFailed      = errors.MustNewCode("config.ai_validation_failed")
	ErrAIProviderUnknown       = errors.MustNewCode("config.ai_provider_unknown")
	ErrDataPathRequired        = errors.MustNewCode("config.data_path_required")
	ErrPostgresDSNRequired     = errors.MustNewCode("config.postgres_dsn_required")
	ErrBackendRequired         = errors.MustNewCode("config.backend_required")
	ErrBackendUnknown          = errors.MustNewCode("config.backend_unknown")

	// Logging-specific error codes
	ErrLogDirectoryCreationFailed = errors.MustNewCode("config.log_directory_creation_failed")
	ErrLogFileOpenFailed          = errors.MustNewCode("config.log_file_open_failed")
	ErrLogCleanupFailed           = errors.MustNewCode("config.log_cleanup_failed")
)
