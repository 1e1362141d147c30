// Package metadata implements the application metadata store: user accounts,
// encrypted credentials, the query log and AI-generated table records. It is
// a single sqlite database shared by all users, separate from the per-user
// data databases served by the storage backends.
package metadata

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Store provides access to the metadata database.
type Store struct {
	db     *bun.DB
	dbPath string
}

// NewStore opens (creating if needed) the metadata database and ensures the
// schema exists.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.New(ErrOpenFailed, "failed to create metadata directory", err).
			AddContext("path", dbPath)
	}

	sqldb, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.New(ErrOpenFailed, "failed to open metadata database", err).
			AddContext("path", dbPath)
	}

	store := &Store{
		db:     bun.NewDB(sqldb, sqlitedialect.New()),
		dbPath: dbPath,
	}

	if err := store.migrate(context.Background()); err != nil {
		sqldb.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	models := []interface{}{
		(*User)(nil),
		(*Credential)(nil),
		(*QueryLogEntry)(nil),
		(*GeneratedTable)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.New(ErrMigrationFailed, "failed to create metadata table", err)
		}
	}
	return nil
}

// CreateUser inserts a new user with an already-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		TimeAuditable: TimeAuditable{
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
	}
	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, errors.New(ErrUserExists, "failed to create user", err).
			AddContext("username", username)
	}
	return user, nil
}

// GetUserByUsername looks a user up by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	user := new(User)
	err := s.db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(ErrUserNotFound, "user %q not found", username)
		}
		return nil, errors.New(ErrUserNotFound, "failed to load user", err)
	}
	return user, nil
}

// GetUser looks a user up by id.
func (s *Store) GetUser(ctx context.Context, userID int64) (*User, error) {
	user := new(User)
	err := s.db.NewSelect().Model(user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(ErrUserNotFound, "user %d not found", userID)
		}
		return nil, errors.New(ErrUserNotFound, "failed to load user", err)
	}
	return user, nil
}

// UpsertCredential stores or replaces the encrypted key for (user, service).
func (s *Store) UpsertCredential(ctx context.Context, userID int64, service, encryptedKey string) error {
	cred := &Credential{
		UserID:       userID,
		Service:      service,
		EncryptedKey: encryptedKey,
		TimeAuditable: TimeAuditable{
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
	}
	_, err := s.db.NewInsert().
		Model(cred).
		On("CONFLICT (user_id, service) DO UPDATE").
		Set("encrypted_key = EXCLUDED.encrypted_key").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return errors.New(ErrCredentialSaveError, "failed to store credential", err).
			AddContext("service", service)
	}
	return nil
}

// GetCredential fetches the encrypted key for (user, service).
func (s *Store) GetCredential(ctx context.Context, userID int64, service string) (*Credential, error) {
	cred := new(Credential)
	err := s.db.NewSelect().Model(cred).
		Where("user_id = ?", userID).
		Where("service = ?", service).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(ErrCredentialNotFound, "no %s credential stored for user %d", service, userID)
		}
		return nil, errors.New(ErrCredentialNotFound, "failed to load credential", err)
	}
	return cred, nil
}

// AppendQueryLog records one execution attempt. Entries are append-only.
func (s *Store) AppendQueryLog(ctx context.Context, entry *QueryLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return errors.New(ErrQueryLogWriteFailed, "failed to append query log entry", err)
	}
	return nil
}

// ListQueryLog returns the user's most recent history entries, newest first.
func (s *Store) ListQueryLog(ctx context.Context, userID int64, limit int) ([]QueryLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []QueryLogEntry
	err := s.db.NewSelect().Model(&entries).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.New(ErrQueryLogReadFailed, "failed to list query log", err)
	}
	return entries, nil
}

// RecordGeneratedTable stores the metadata of an AI-created table. Records are
// keyed by (user, table name); re-creating a table replaces the snapshot.
func (s *Store) RecordGeneratedTable(ctx context.Context, rec *GeneratedTable) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = time.Now().UTC()

	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (user_id, table_name) DO UPDATE").
		Set("table_schema = EXCLUDED.table_schema").
		Set("sample_data_count = EXCLUDED.sample_data_count").
		Set("created_by_ai = EXCLUDED.created_by_ai").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return errors.New(ErrTableRecordFailed, "failed to record generated table", err).
			AddContext("table", rec.TableName)
	}
	return nil
}

// GetGeneratedTable fetches the generated-table record for (user, name).
func (s *Store) GetGeneratedTable(ctx context.Context, userID int64, tableName string) (*GeneratedTable, error) {
	rec := new(GeneratedTable)
	err := s.db.NewSelect().Model(rec).
		Where("user_id = ?", userID).
		Where("table_name = ?", tableName).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(ErrTableNotFound, "table %q not found for user %d", tableName, userID)
		}
		return nil, errors.New(ErrTableNotFound, "failed to load generated table", err)
	}
	return rec, nil
}

// ListGeneratedTables lists all AI-generated table records for a user.
func (s *Store) ListGeneratedTables(ctx context.Context, userID int64) ([]GeneratedTable, error) {
	var recs []GeneratedTable
	err := s.db.NewSelect().Model(&recs).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.New(ErrTableRecordFailed, "failed to list generated tables", err)
	}
	return recs, nil
}
