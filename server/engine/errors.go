package engine

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Engine-specific error codes
var (
	ErrSchemaInference       = errors.MustNewCode("engine.schema_inference_failed")
	ErrMaterializationFailed = errors.MustNewCode("engine.materialization_failed")
	ErrTableNotFound         = errors.MustNewCode("engine.table_not_found")
	ErrInvalidTableName      = errors.MustNewCode("engine.invalid_table_name")
	ErrSampleFetchFailed     = errors.MustNewCode("engine.sample_fetch_failed")
)
