// Package engine executes SQL against per-user databases. It classifies
// each statement by leading keyword, runs it on a fresh connection, and
// captures every failure into a structured result instead of returning an
// error to the caller. A one-shot AI-assisted retry path can synthesize
// missing tables when direct execution fails.
package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"github.com/sqlcanvas/sqlcanvas/server/storage"
	"github.com/sqlcanvas/sqlcanvas/server/types"
)

// Engine runs user SQL. It holds no per-user state; every execution opens
// and closes its own connection through the storage backend.
type Engine struct {
	backend storage.Backend
	meta    *metadata.Store
	logger  zerolog.Logger
}

// New creates an engine over the given backend and metadata store.
func New(backend storage.Backend, meta *metadata.Store, logger zerolog.Logger) *Engine {
	return &Engine{
		backend: backend,
		meta:    meta,
		logger:  logger.With().Str("component", "engine").Logger(),
	}
}

// Execute runs one statement against the user's database and always returns
// a structured result. Database errors are captured into the result's Error
// field together with the elapsed time.
func (e *Engine) Execute(ctx context.Context, qctx types.QueryContext) *QueryResult {
	start := time.Now()
	result := &QueryResult{
		QueryID:   uuid.NewString(),
		QueryType: Classify(qctx.Query),
	}

	db, err := e.backend.Connect(ctx, qctx.UserID)
	if err != nil {
		result.Error = err.Error()
		result.ExecutionMs = time.Since(start).Milliseconds()
		return result
	}
	defer db.Close()

	switch {
	case result.QueryType == QuerySelect:
		e.runSelect(ctx, db, qctx.Query, result)
	case result.QueryType.IsMutation():
		e.runMutation(ctx, db, qctx.Query, result)
	case result.QueryType.IsDDL():
		e.runDDL(ctx, db, qctx.Query, result)
	default:
		e.runMutation(ctx, db, qctx.Query, result)
	}

	result.ExecutionMs = time.Since(start).Milliseconds()
	if result.Error == "" {
		result.Success = true
	}

	e.logger.Debug().
		Int64("user_id", qctx.UserID).
		Str("query_id", result.QueryID).
		Str("query_type", string(result.QueryType)).
		Bool("success", result.Success).
		Int64("execution_ms", result.ExecutionMs).
		Msg("Query executed")

	return result
}

func (e *Engine) runSelect(ctx context.Context, db *sql.DB, query string, result *QueryResult) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		result.Error = err.Error()
		return
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		result.Error = err.Error()
		return
	}

	data, err := scanRows(rows, columns)
	if err != nil {
		result.Error = err.Error()
		return
	}

	result.Columns = columns
	result.Rows = data
	result.ResultCount = len(data)
}

func (e *Engine) runMutation(ctx context.Context, db *sql.DB, query string, result *QueryResult) {
	res, err := db.ExecContext(ctx, query)
	if err != nil {
		result.Error = err.Error()
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		result.Error = err.Error()
		return
	}
	result.AffectedRows = affected
	result.ResultCount = int(affected)
}

func (e *Engine) runDDL(ctx context.Context, db *sql.DB, query string, result *QueryResult) {
	if _, err := db.ExecContext(ctx, query); err != nil {
		result.Error = err.Error()
		return
	}
	result.Message = fmt.Sprintf("%s operation completed successfully", result.QueryType)
	result.ResultCount = 1
}

// scanRows materializes a cursor into ordered row mappings. Byte slices are
// converted to strings so results serialize cleanly.
func scanRows(rows *sql.Rows, columns []string) ([]map[string]interface{}, error) {
	var data []map[string]interface{}
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		data = append(data, row)
	}
	return data, rows.Err()
}

// LogResult derives a history entry from a finished result and appends it to
// the query log. Logging failures are reported but never affect the result.
func (e *Engine) LogResult(ctx context.Context, qctx types.QueryContext, result *QueryResult) {
	if e.meta == nil {
		return
	}

	entry := &metadata.QueryLogEntry{
		QueryID:      result.QueryID,
		UserID:       qctx.UserID,
		QueryText:    qctx.Query,
		QueryType:    string(result.QueryType),
		ExecutionMs:  result.ExecutionMs,
		ResultCount:  result.ResultCount,
		ErrorMessage: result.Error,
	}
	if result.Rows != nil {
		if payload, err := json.Marshal(result.Rows); err == nil {
			entry.ResultData = string(payload)
		}
	}

	if err := e.meta.AppendQueryLog(ctx, entry); err != nil {
		e.logger.Warn().Err(err).Str("query_id", result.QueryID).Msg("Failed to append query log")
	}
}
