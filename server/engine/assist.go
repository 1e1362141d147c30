package engine

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/ai"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"github.com/sqlcanvas/sqlcanvas/server/types"
)

// ExecuteWithAssist runs the statement directly and, on failure, asks the AI
// service to propose the missing schema, materializes the proposed tables
// best-effort, then retries the original statement exactly once. The AI
// collaborator is called at most once per invocation; there is no recursion.
func (e *Engine) ExecuteWithAssist(ctx context.Context, qctx types.QueryContext, svc *ai.Service) *QueryResult {
	direct := e.Execute(ctx, qctx)
	if direct.Success || svc == nil {
		return direct
	}

	e.logger.Info().
		Int64("user_id", qctx.UserID).
		Str("query_id", direct.QueryID).
		Str("error", direct.Error).
		Msg("Direct execution failed, attempting AI schema inference")

	proposal, err := svc.AnalyzeQuery(ctx, qctx.Query)
	if err != nil {
		direct.Error = errors.New(ErrSchemaInference, "AI schema inference failed", err).Error()
		return direct
	}

	created := e.materialize(ctx, qctx.UserID, proposal)

	retry := e.Execute(ctx, qctx)
	retry.AIAssisted = true
	retry.TablesCreated = created
	retry.AIExplanation = proposal.Explanation
	return retry
}

// materialize applies each proposed table inside its own transaction. A
// failed table is logged and skipped; sibling tables still get their chance.
// Returns the names of the tables that were created.
func (e *Engine) materialize(ctx context.Context, userID int64, proposal *ai.SchemaProposal) []string {
	db, err := e.backend.Connect(ctx, userID)
	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to connect for materialization")
		return nil
	}
	defer db.Close()

	var created []string
	for _, table := range proposal.Tables {
		inserted, err := e.materializeTable(ctx, db, table)
		if err != nil {
			e.logger.Warn().Err(err).
				Str("table", table.Name).
				Msg("Failed to materialize proposed table")
			continue
		}
		created = append(created, table.Name)
		e.recordGeneratedTable(ctx, userID, table, inserted)
	}
	return created
}

func (e *Engine) materializeTable(ctx context.Context, db *sql.DB, table ai.ProposedTable) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.New(ErrMaterializationFailed, "failed to begin transaction", err)
	}

	if _, err := tx.ExecContext(ctx, table.CreateStatement); err != nil {
		tx.Rollback()
		return 0, errors.New(ErrMaterializationFailed, "CREATE statement failed", err).
			AddContext("table", table.Name)
	}

	inserted := 0
	for _, stmt := range table.InsertStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return 0, errors.New(ErrMaterializationFailed, "INSERT statement failed", err).
				AddContext("table", table.Name)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.New(ErrMaterializationFailed, "commit failed", err).
			AddContext("table", table.Name)
	}
	return inserted, nil
}

func (e *Engine) recordGeneratedTable(ctx context.Context, userID int64, table ai.ProposedTable, sampleRows int) {
	if e.meta == nil {
		return
	}

	schema, err := json.Marshal(table.Schema)
	if err != nil {
		schema = []byte("[]")
	}
	rec := &metadata.GeneratedTable{
		UserID:          userID,
		TableName:       table.Name,
		TableSchema:     string(schema),
		SampleDataCount: sampleRows,
		CreatedByAI:     true,
	}
	if err := e.meta.RecordGeneratedTable(ctx, rec); err != nil {
		e.logger.Warn().Err(err).Str("table", table.Name).Msg("Failed to record generated table")
	}
}
