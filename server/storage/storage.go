// Package storage provides per-user database backends. Every user owns an
// isolated database addressed by user id; the engine never sees backend
// details beyond this interface.
package storage

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/config"
)

// ColumnInfo describes one column of a user table.
type ColumnInfo struct {
	Name         string `json:"column"`
	Type         string `json:"type"`
	NotNull      bool   `json:"not_null"`
	DefaultValue string `json:"default_value,omitempty"`
	PrimaryKey   bool   `json:"primary_key"`
}

// Backend serves per-user databases. Connect opens a fresh connection on
// every call and the caller closes it; there is no pooling across requests.
type Backend interface {
	// Type returns the backend type identifier ("sqlite", "postgres").
	Type() string

	// Connect opens a connection to the given user's database, creating the
	// database lazily on first use.
	Connect(ctx context.Context, userID int64) (*sql.DB, error)

	// TableNames lists the user tables visible on the connection.
	TableNames(ctx context.Context, db *sql.DB) ([]string, error)

	// TableColumns returns column metadata for a named table.
	TableColumns(ctx context.Context, db *sql.DB, table string) ([]ColumnInfo, error)
}

// NewBackend builds the backend selected by the configuration.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return NewSQLiteBackend(cfg.Storage.DataPath), nil
	case "postgres":
		return NewPostgresBackend(cfg.Storage.PostgresDSN), nil
	default:
		return nil, errors.Newf(ErrBackendUnknown, "unknown storage backend %q", cfg.Storage.Backend)
	}
}

// identRegex matches identifiers that are safe to splice into introspection
// statements that cannot take bind parameters (PRAGMA and friends).
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether name is a plain SQL identifier.
func ValidIdent(name string) bool {
	return identRegex.MatchString(name)
}
