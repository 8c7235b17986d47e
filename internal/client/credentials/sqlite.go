package credentials

import (
	"context"
	"database/sql"
	"fmt"
)

// dbtx is the subset of database/sql used by the store.
// Both *sql.DB and *sql.Tx satisfy this interface.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore keeps the credential pair in a local SQLite table with two
// fixed keys. Tokens survive process restarts; Clear removes both rows.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, kind Kind) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, string(kind)).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential[%s]: %w", kind, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, kind Kind, value string) error {
	return set(ctx, s.db, kind, value)
}

// SetPair stores both tokens in a single transaction so a crash cannot leave
// a new access token alongside a stale refresh token.
func (s *SQLiteStore) SetPair(ctx context.Context, access, refresh string) error {
	return withTx(ctx, s.db, func(ctx context.Context, tx dbtx) error {
		if err := set(ctx, tx, KindAccess, access); err != nil {
			return err
		}
		return set(ctx, tx, KindRefresh, refresh)
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, kind Kind) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, string(kind))
	if err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func set(ctx context.Context, db dbtx, kind Kind, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, string(kind), value)
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", kind, err)
	}
	return nil
}

// withTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbtx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
