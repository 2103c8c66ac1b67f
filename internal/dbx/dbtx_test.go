package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openSessions returns a private SQLite database with a bare sessions table.
func openSessions(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE sessions (token TEXT PRIMARY KEY, username TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func sessionsOf(t *testing.T, db *sql.DB, username string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE username = ?`, username).Scan(&n))
	return n
}

func issue(ctx context.Context, tx DBTX, token, username string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO sessions (token, username) VALUES (?, ?)`, token, username)
	return err
}

func TestWithTx_CommitsEveryStatement(t *testing.T) {
	db := openSessions(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := issue(ctx, tx, "t1", "alice"); err != nil {
			return err
		}
		return issue(ctx, tx, "t2", "alice")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sessionsOf(t, db, "alice"))
}

func TestWithTx_FailureRollsBackAndKeepsError(t *testing.T) {
	db := openSessions(t)
	errVanished := errors.New("account vanished")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, issue(ctx, tx, "t1", "bob"))
		return errVanished
	})
	assert.ErrorIs(t, err, errVanished)
	assert.Equal(t, 0, sessionsOf(t, db, "bob"))
}

func TestWithTx_ConstraintViolationRollsBackEarlierWrites(t *testing.T) {
	db := openSessions(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := issue(ctx, tx, "dup", "carol"); err != nil {
			return err
		}
		return issue(ctx, tx, "dup", "carol")
	})
	require.Error(t, err)
	assert.Equal(t, 0, sessionsOf(t, db, "carol"))
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openSessions(t)

	assert.PanicsWithValue(t, "registry gone", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, issue(ctx, tx, "t1", "dave"))
			panic("registry gone")
		})
	})
	assert.Equal(t, 0, sessionsOf(t, db, "dave"))
}

func TestWithTx_ClosedPool(t *testing.T) {
	db := openSessions(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}
