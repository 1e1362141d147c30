package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
)

// SQLiteBackend keeps one database file per user under a fixed root.
type SQLiteBackend struct {
	root string
}

// NewSQLiteBackend creates a sqlite backend rooted at the given directory.
func NewSQLiteBackend(root string) *SQLiteBackend {
	return &SQLiteBackend{root: root}
}

// Type returns the backend type identifier
func (b *SQLiteBackend) Type() string {
	return "sqlite"
}

// UserDatabasePath returns the database file path for a user.
func (b *SQLiteBackend) UserDatabasePath(userID int64) string {
	return filepath.Join(b.root, fmt.Sprintf("user_%d.db", userID))
}

// Connect opens a fresh connection to the user's database file, creating the
// directory and file lazily. The caller closes the connection.
func (b *SQLiteBackend) Connect(ctx context.Context, userID int64) (*sql.DB, error) {
	if err := os.MkdirAll(b.root, 0755); err != nil {
		return nil, errors.New(ErrDirectoryCreateFailed, "failed to create user database directory", err).
			AddContext("path", b.root)
	}

	dbPath := b.UserDatabasePath(userID)
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.New(ErrDatabaseOpenFailed, "failed to open user database", err).
			AddContext("path", dbPath)
	}

	// One connection per execution; the engine closes it before returning.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.New(ErrDatabaseOpenFailed, "failed to reach user database", err).
			AddContext("path", dbPath)
	}

	return db, nil
}

// TableNames lists user tables, excluding sqlite internals.
func (b *SQLiteBackend) TableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
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

// TableColumns returns PRAGMA table_info output for a named table.
func (b *SQLiteBackend) TableColumns(ctx context.Context, db *sql.DB, table string) ([]ColumnInfo, error) {
	// PRAGMA cannot take bind parameters; reject anything but a plain identifier.
	if !ValidIdent(table) {
		return nil, errors.Newf(ErrInvalidTableName, "invalid table name %q", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, errors.New(ErrColumnInfoFailed, "failed to read table info", err).
			AddContext("table", table)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, errors.New(ErrIntrospectionScanError, "failed to scan column info", err)
		}
		cols = append(cols, ColumnInfo{
			Name:         name,
			Type:         strings.ToUpper(colType),
			NotNull:      notNull != 0,
			DefaultValue: dfltValue.String,
			PrimaryKey:   pk != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrColumnInfoFailed, "error iterating column info", err)
	}

	return cols, nil
}
