package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/storage"
)

// DefaultSampleLimit caps how many rows SampleRows fetches when the caller
// does not ask for a specific count.
const DefaultSampleLimit = 5

// TableInfo describes one user table: live column metadata plus, when the
// table was AI-generated, its provenance record.
type TableInfo struct {
	Name            string               `json:"name"`
	Columns         []storage.ColumnInfo `json:"columns"`
	SampleDataCount int                  `json:"sample_data_count,omitempty"`
	CreatedByAI     bool                 `json:"created_by_ai"`
	CreatedAt       *time.Time           `json:"created_at,omitempty"`
}

// SampleData holds up to a handful of rows from one table.
type SampleData struct {
	Table   string                   `json:"table"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// ListTables returns the names of the user's tables.
func (e *Engine) ListTables(ctx context.Context, userID int64) ([]string, error) {
	db, err := e.backend.Connect(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return e.backend.TableNames(ctx, db)
}

// GetTableInfo returns column metadata for a named table, enriched with the
// AI-generation record when one exists.
func (e *Engine) GetTableInfo(ctx context.Context, userID int64, table string) (*TableInfo, error) {
	if !storage.ValidIdent(table) {
		return nil, errors.Newf(ErrInvalidTableName, "invalid table name %q", table)
	}

	db, err := e.backend.Connect(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	columns, err := e.backend.TableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errors.Newf(ErrTableNotFound, "table %q not found", table)
	}

	info := &TableInfo{Name: table, Columns: columns}
	if e.meta != nil {
		if rec, err := e.meta.GetGeneratedTable(ctx, userID, table); err == nil && rec != nil {
			info.SampleDataCount = rec.SampleDataCount
			info.CreatedByAI = rec.CreatedByAI
			createdAt := rec.CreatedAt
			info.CreatedAt = &createdAt
		}
	}
	return info, nil
}

// SampleRows fetches up to limit rows from a named table. It never mutates
// state; limit values below one fall back to DefaultSampleLimit.
func (e *Engine) SampleRows(ctx context.Context, userID int64, table string, limit int) (*SampleData, error) {
	if !storage.ValidIdent(table) {
		return nil, errors.Newf(ErrInvalidTableName, "invalid table name %q", table)
	}
	if limit < 1 {
		limit = DefaultSampleLimit
	}

	db, err := e.backend.Connect(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	// Table name is validated above and the limit is an int, so both are
	// interpolated directly. Placeholder syntax differs between backends
	// (sqlite `?` vs postgres `$N`), so no bind parameter is used here.
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit))
	if err != nil {
		return nil, errors.New(ErrSampleFetchFailed, "failed to fetch sample rows", err).
			AddContext("table", table)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.New(ErrSampleFetchFailed, "failed to read columns", err).
			AddContext("table", table)
	}

	data, err := scanRows(rows, columns)
	if err != nil {
		return nil, errors.New(ErrSampleFetchFailed, "failed to scan rows", err).
			AddContext("table", table)
	}

	return &SampleData{Table: table, Columns: columns, Rows: data}, nil
}
