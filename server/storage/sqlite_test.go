package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteConnectCreatesDatabaseLazily(t *testing.T) {
	root := filepath.Join(t.TempDir(), "user_dbs")
	backend := NewSQLiteBackend(root)
	ctx := context.Background()

	db, err := backend.Connect(ctx, 7)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(backend.UserDatabasePath(7)); err != nil {
		t.Errorf("database file was not created: %v", err)
	}
}

func TestSQLiteTableNamesAndColumns(t *testing.T) {
	backend := NewSQLiteBackend(t.TempDir())
	ctx := context.Background()

	db, err := backend.Connect(ctx, 1)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE employees (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		salary REAL DEFAULT 0
	)`)
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}

	names, err := backend.TableNames(ctx, db)
	if err != nil {
		t.Fatalf("TableNames failed: %v", err)
	}
	if len(names) != 1 || names[0] != "employees" {
		t.Errorf("TableNames = %v, want [employees]", names)
	}

	cols, err := backend.TableColumns(ctx, db, "employees")
	if err != nil {
		t.Fatalf("TableColumns failed: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	if cols[0].Name != "id" || !cols[0].PrimaryKey {
		t.Errorf("first column = %+v, want primary key id", cols[0])
	}
	if cols[1].Name != "name" || !cols[1].NotNull {
		t.Errorf("second column = %+v, want not-null name", cols[1])
	}
	if cols[2].DefaultValue != "0" {
		t.Errorf("salary default = %q, want 0", cols[2].DefaultValue)
	}
}

func TestSQLiteTableColumnsRejectsBadIdent(t *testing.T) {
	backend := NewSQLiteBackend(t.TempDir())
	ctx := context.Background()

	db, err := backend.Connect(ctx, 2)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	if _, err := backend.TableColumns(ctx, db, "t; DROP TABLE x"); err == nil {
		t.Error("expected error for malformed table name")
	}
}

func TestUserDatabasesAreIsolated(t *testing.T) {
	backend := NewSQLiteBackend(t.TempDir())
	ctx := context.Background()

	dbA, err := backend.Connect(ctx, 10)
	if err != nil {
		t.Fatalf("Connect user 10 failed: %v", err)
	}
	defer dbA.Close()
	if _, err := dbA.ExecContext(ctx, "CREATE TABLE private_notes (id INTEGER)"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dbB, err := backend.Connect(ctx, 11)
	if err != nil {
		t.Fatalf("Connect user 11 failed: %v", err)
	}
	defer dbB.Close()

	names, err := backend.TableNames(ctx, dbB)
	if err != nil {
		t.Fatalf("TableNames failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("user 11 should not see user 10's tables, got %v", names)
	}
}
