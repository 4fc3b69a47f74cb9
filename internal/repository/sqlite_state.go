package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/journeyctl/internal/db"
)

// SQLiteStateRepo implements StateRepo on the kv_state table.
type SQLiteStateRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
	now func() time.Time
}

// NewSQLiteStateRepo binds a repo to conn. A nil uow makes PutAll write
// keys one at a time.
func NewSQLiteStateRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteStateRepo {
	return &SQLiteStateRepo{db: conn, uow: uow, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLiteStateRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("state %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading state %q: %w", key, err)
	}
	return []byte(value), nil
}

func (r *SQLiteStateRepo) Put(ctx context.Context, key string, value []byte) error {
	return putState(ctx, r.db, key, value, r.now())
}

func (r *SQLiteStateRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting state %q: %w", key, err)
	}
	return nil
}

// PutAll writes every key in one transaction.
func (r *SQLiteStateRepo) PutAll(ctx context.Context, values map[string][]byte) error {
	now := r.now()
	write := func(ctx context.Context, conn db.DBTX) error {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := putState(ctx, conn, k, values[k], now); err != nil {
				return err
			}
		}
		return nil
	}
	if r.uow == nil {
		return write(ctx, r.db)
	}
	return r.uow.WithinTx(ctx, write)
}

func putState(ctx context.Context, conn db.DBTX, key string, value []byte, now time.Time) error {
	query := `INSERT INTO kv_state (key, value, updated_at, version) VALUES (?, ?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			version = kv_state.version + 1`
	if _, err := conn.ExecContext(ctx, query, key, string(value), now.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("writing state %q: %w", key, err)
	}
	return nil
}
