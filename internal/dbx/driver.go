package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Open opens and pings a pool for driver. SQLite pools are pinned to one
// connection so writers never race on the file lock, and get foreign keys
// switched on so cascades behave the same as on PostgreSQL.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if !strings.Contains(dsn, "foreign_keys") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=foreign_keys(1)"
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Rebind adapts db so that queries written with PostgreSQL $N placeholders
// run on driver. For PostgreSQL db is returned unchanged.
func Rebind(driver string, db DBTX) DBTX {
	if driver != DriverSQLite {
		return db
	}
	return &sqliteRebinder{db: db}
}

var dollarParam = regexp.MustCompile(`\$(\d+)`)

// SQLite understands ?NNN numbered parameters, so $N maps onto ?N one to one.
func rebindSQLite(q string) string {
	return dollarParam.ReplaceAllString(q, "?$1")
}

type sqliteRebinder struct {
	db DBTX
}

func (r *sqliteRebinder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, rebindSQLite(query), args...)
}

func (r *sqliteRebinder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, rebindSQLite(query), args...)
}

func (r *sqliteRebinder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, rebindSQLite(query), args...)
}
