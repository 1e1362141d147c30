package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/sqlcanvas/sqlcanvas/server/storage"
	"github.com/sqlcanvas/sqlcanvas/server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend hands out a canned connection, or fails to connect at all.
type mockBackend struct {
	db  *sql.DB
	err error
}

func (m *mockBackend) Type() string { return "mock" }

func (m *mockBackend) Connect(ctx context.Context, userID int64) (*sql.DB, error) {
	return m.db, m.err
}

func (m *mockBackend) TableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	return nil, nil
}

func (m *mockBackend) TableColumns(ctx context.Context, db *sql.DB, table string) ([]storage.ColumnInfo, error) {
	return nil, nil
}

func TestExecuteConnectFailure(t *testing.T) {
	e := New(&mockBackend{err: errors.New("disk full")}, nil, zerolog.Nop())

	res := e.Execute(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT 1"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk full")
}

func TestExecuteAffectedRowsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("UPDATE t SET a = 1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unavailable")))
	mock.ExpectClose()

	e := New(&mockBackend{db: db}, nil, zerolog.Nop())
	res := e.Execute(context.Background(), types.QueryContext{UserID: 1, Query: "UPDATE t SET a = 1"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "rows affected unavailable")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSampleRowsInterpolatesLimit(t *testing.T) {
	// Placeholder syntax is backend-specific, so the statement must carry
	// the limit as a literal instead of a bind parameter.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "total"}).
		AddRow(1, 9.5).
		AddRow(2, 12.0)
	mock.ExpectQuery(`^SELECT \* FROM orders LIMIT 2$`).WillReturnRows(rows)
	mock.ExpectClose()

	e := New(&mockBackend{db: db}, nil, zerolog.Nop())
	sample, err := e.SampleRows(context.Background(), 1, "orders", 2)
	require.NoError(t, err)
	assert.Len(t, sample.Rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteScanFailureMidCursor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "Grace").
		RowError(0, errors.New("cursor torn down"))
	mock.ExpectQuery("SELECT \\* FROM employees").WillReturnRows(rows)
	mock.ExpectClose()

	e := New(&mockBackend{db: db}, nil, zerolog.Nop())
	res := e.Execute(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT * FROM employees"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "cursor torn down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
