package viz

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// Visualization-specific error codes
var (
	ErrEmptyDataset = errors.MustNewCode("viz.empty_dataset")
	ErrNotTabular   = errors.MustNewCode("viz.not_tabular")
)
