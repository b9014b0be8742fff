package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophblog/internal/dbx"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// :memory: is per-connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)
}

func TestGet_Missing_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v) // контракт: (nil, nil) если нет строки
}

func TestSet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestSetMany_WritesAllKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{
		"token": []byte("t"),
		"user":  []byte(`{"username":"alice"}`),
	}))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("t"), v)

	v, err = r.Get(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"username":"alice"}`), v)
}

func TestDelete_SeveralKeys_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Set(ctx, "c", []byte{3}))

	require.NoError(t, r.Delete(ctx, "a", "b"))
	require.NoError(t, r.Delete(ctx, "a"))

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = r.Get(ctx, "c")
	require.NoError(t, err)
	require.Equal(t, []byte{3}, v)
}

func TestClear_RemovesAllKeys(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	require.Zero(t, n)
}

func TestSetMany_InsideTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewSQLiteRepository(tx).SetMany(ctx, map[string][]byte{"token": []byte("t")}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := NewSQLiteRepository(db).Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// Закрываем БД, чтобы получить ошибку драйвера
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.SetMany(ctx, map[string][]byte{"k": []byte("v")})
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata[k]")

	err = r.Clear(ctx)
	require.ErrorContains(t, err, "failed to clear metadata")
}
