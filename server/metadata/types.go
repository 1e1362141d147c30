package metadata

import (
	"time"

	"github.com/uptrace/bun"
)

// TimeAuditable provides common timestamp fields for auditable entities.
type TimeAuditable struct {
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// User represents the users table for authentication.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Username     string `bun:"username,notnull,unique" json:"username"`
	Email        string `bun:"email,notnull,unique" json:"email"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"`

	TimeAuditable
}

// Credential holds one encrypted API key per (user, service) pair.
type Credential struct {
	bun.BaseModel `bun:"table:credentials"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID       int64  `bun:"user_id,notnull,unique:user_service" json:"user_id"`
	Service      string `bun:"service,notnull,unique:user_service" json:"service"`
	EncryptedKey string `bun:"encrypted_key,notnull" json:"-"`

	TimeAuditable
}

// QueryLogEntry is the immutable per-execution history record.
type QueryLogEntry struct {
	bun.BaseModel `bun:"table:query_log"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	QueryID      string `bun:"query_id,notnull" json:"query_id"`
	UserID       int64  `bun:"user_id,notnull" json:"user_id"`
	QueryText    string `bun:"query_text,notnull" json:"query_text"`
	QueryType    string `bun:"query_type" json:"query_type"`
	ExecutionMs  int64  `bun:"execution_ms" json:"execution_ms"`
	ResultCount  int    `bun:"result_count" json:"result_count"`
	ErrorMessage string `bun:"error_message" json:"error_message,omitempty"`
	// ResultData holds the raw result payload as JSON for later re-visualization.
	ResultData string    `bun:"result_data" json:"result_data,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// GeneratedTable records a table materialized by the AI-assisted path,
// distinct from the table's actual data which lives in the user's database.
type GeneratedTable struct {
	bun.BaseModel `bun:"table:generated_tables"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64  `bun:"user_id,notnull,unique:user_table" json:"user_id"`
	TableName string `bun:"table_name,notnull,unique:user_table" json:"table_name"`
	// TableSchema is the JSON-encoded column descriptor snapshot.
	TableSchema     string `bun:"table_schema,notnull" json:"table_schema"`
	SampleDataCount int    `bun:"sample_data_count,notnull,default:0" json:"sample_data_count"`
	CreatedByAI     bool   `bun:"created_by_ai,notnull,default:true" json:"created_by_ai"`

	TimeAuditable
}
