package engine

// QueryResult is the outcome of one execution attempt. Exactly one of row
// data, affected-row count, or error is populated, matching the statement
// type. Execution never raises; every failure lands in Error.
type QueryResult struct {
	QueryID     string    `json:"query_id"`
	Success     bool      `json:"success"`
	QueryType   QueryType `json:"query_type"`
	ExecutionMs int64     `json:"execution_ms"`

	// SELECT results.
	Columns     []string                 `json:"columns,omitempty"`
	Rows        []map[string]interface{} `json:"data,omitempty"`
	ResultCount int                      `json:"result_count"`

	// Mutation results.
	AffectedRows int64  `json:"affected_rows,omitempty"`
	Message      string `json:"message,omitempty"`

	Error string `json:"error,omitempty"`

	// AI-assisted retry annotations.
	AIAssisted    bool     `json:"ai_assisted,omitempty"`
	TablesCreated []string `json:"tables_created,omitempty"`
	AIExplanation string   `json:"ai_explanation,omitempty"`
}
