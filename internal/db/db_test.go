package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenAppliesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blogly.db")
	first, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	defer second.Close()

	for _, table := range []string{"users", "posts", "tags", "post_tags"} {
		var name string
		err := second.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	sqlite := &DB{Driver: DriverSQLite}
	pg := &DB{Driver: DriverPostgres}
	q := `SELECT id FROM posts WHERE user_id = ? AND title = ?`
	require.Equal(t, q, sqlite.Rebind(q))
	require.Equal(t, `SELECT id FROM posts WHERE user_id = $1 AND title = $2`, pg.Rebind(q))
}

func TestForeignKeysEnforced(t *testing.T) {
	database := openTestDB(t)
	_, err := database.Exec(`INSERT INTO posts (title, content, created_at, user_id) VALUES ('t', 'c', CURRENT_TIMESTAMP, 42)`)
	require.Error(t, err)
	require.True(t, IsForeignKeyViolation(err))
	require.False(t, IsForeignKeyViolation(errors.New("boom")))
}

func TestInTxRollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO tags (name) VALUES ('go')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&n))
	require.Zero(t, n)

	err = database.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO tags (name) VALUES ('go')`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestCascadeFromSchema(t *testing.T) {
	database := openTestDB(t)
	_, err := database.Exec(`INSERT INTO users (first_name, last_name) VALUES ('Ada', 'Lovelace')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO posts (title, content, created_at, user_id) VALUES ('t', 'c', CURRENT_TIMESTAMP, 1)`)
	require.NoError(t, err)
	_, err = database.Exec(`DELETE FROM users WHERE id = 1`)
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n))
	require.Zero(t, n)

	var image string
	_, err = database.Exec(`INSERT INTO users (first_name, last_name) VALUES ('Grace', 'Hopper')`)
	require.NoError(t, err)
	require.NoError(t, database.QueryRow(`SELECT image_url FROM users WHERE last_name = 'Hopper'`).Scan(&image))
	require.Equal(t, "https://i.stack.imgur.com/tekbA.jpg", image)
}
