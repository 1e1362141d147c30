package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
)

// PostgresBackend isolates each user in an own schema on a shared server.
// It exists so deployments can swap the embedded file store for a networked
// one without touching engine logic.
type PostgresBackend struct {
	dsn string
}

// NewPostgresBackend creates a postgres backend from a base DSN.
func NewPostgresBackend(dsn string) *PostgresBackend {
	return &PostgresBackend{dsn: dsn}
}

// Type returns the backend type identifier
func (b *PostgresBackend) Type() string {
	return "postgres"
}

func userSchema(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// Connect opens a fresh connection and pins it to the user's schema,
// creating the schema lazily.
func (b *PostgresBackend) Connect(ctx context.Context, userID int64) (*sql.DB, error) {
	db, err := sql.Open("pgx", b.dsn)
	if err != nil {
		return nil, errors.New(ErrDatabaseOpenFailed, "failed to open postgres connection", err)
	}

	db.SetMaxOpenConns(1)

	schema := userSchema(userID)
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		db.Close()
		return nil, errors.New(ErrSchemaSetupFailed, "failed to create user schema", err).
			AddContext("schema", schema)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", schema)); err != nil {
		db.Close()
		return nil, errors.New(ErrSchemaSetupFailed, "failed to set search path", err).
			AddContext("schema", schema)
	}

	return db, nil
}

// TableNames lists tables in the connection's active schema.
func (b *PostgresBackend) TableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, errors.New(ErrTableListFailed, "failed to list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.New(ErrIntrospectionScanError, "failed to scan table name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrTableListFailed, "error iterating table names", err)
	}

	return names, nil
}

// TableColumns returns column metadata from the information schema.
func (b *PostgresBackend) TableColumns(ctx context.Context, db *sql.DB, table string) ([]ColumnInfo, error) {
	if !ValidIdent(table) {
		return nil, errors.Newf(ErrInvalidTableName, "invalid table name %q", table)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT c.column_name, c.data_type, c.is_nullable, COALESCE(c.column_default, ''),
		        EXISTS (
		            SELECT 1 FROM information_schema.table_constraints tc
		            JOIN information_schema.key_column_usage kcu
		              ON tc.constraint_name = kcu.constraint_name
		             AND tc.table_schema = kcu.table_schema
		            WHERE tc.constraint_type = 'PRIMARY KEY'
		              AND tc.table_schema = c.table_schema
		              AND tc.table_name = c.table_name
		              AND kcu.column_name = c.column_name
		        )
		 FROM information_schema.columns c
		 WHERE c.table_schema = current_schema() AND c.table_name = $1
		 ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, errors.New(ErrColumnInfoFailed, "failed to read column info", err).
			AddContext("table", table)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			name       string
			dataType   string
			isNullable string
			dflt       string
			isPrimary  bool
		)
		if err := rows.Scan(&name, &dataType, &isNullable, &dflt, &isPrimary); err != nil {
			return nil, errors.New(ErrIntrospectionScanError, "failed to scan column info", err)
		}
		cols = append(cols, ColumnInfo{
			Name:         name,
			Type:         strings.ToUpper(dataType),
			NotNull:      isNullable == "NO",
			DefaultValue: dflt,
			PrimaryKey:   isPrimary,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrColumnInfoFailed, "error iterating column info", err)
	}

	return cols, nil
}
