package storage

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Storage-specific error codes
var (
	ErrBackendUnknown         = errors.MustNewCode("storage.backend_unknown")
	ErrDirectoryCreateFailed  = errors.MustNewCode("storage.directory_create_failed")
	ErrDatabaseOpenFailed     = errors.MustNewCode("storage.database_open_failed")
	ErrSchemaSetupFailed      = errors.MustNewCode("storage.schema_setup_failed")
	ErrTableListFailed        = errors.MustNewCode("storage.table_list_failed")
	ErrColumnInfoFailed       = errors.MustNewCode("storage.column_info_failed")
	ErrInvalidTableName       = errors.MustNewCode("storage.invalid_table_name")
	ErrIntrospectionScanError = errors.MustNewCode("storage.introspection_scan_failed")
)
