package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gophblog/internal/dbx"
)

// SQLiteRepository stores keys in the metadata table. Pass a *sql.Tx to make
// several calls atomic.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const upsertQuery = `
	INSERT INTO metadata (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
`

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// SetMany writes keys in sorted order so failures are reproducible.
func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := r.Set(ctx, k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, k); err != nil {
			return fmt.Errorf("failed to delete metadata[%s]: %w", k, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
