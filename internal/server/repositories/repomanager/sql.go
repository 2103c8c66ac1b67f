package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/migrations"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/sessions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager serves both PostgreSQL and SQLite. The repositories
// are written against PostgreSQL; for SQLite their handle is rebound.
type SQLRepositoryManager struct {
	driver  string
	dialect goose.Dialect
}

// gooseUp is a seam for testing the migration run.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB) error {
	p, err := goose.NewProvider(dialect, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// NewRepositoryManager returns a manager for a database/sql driver name
// (dbx.DriverPostgres or dbx.DriverSQLite).
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	m := &SQLRepositoryManager{driver: driver}
	switch driver {
	case dbx.DriverPostgres:
		m.dialect = goose.DialectPostgres
	case dbx.DriverSQLite:
		m.dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return m, nil
}

func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(dbx.Rebind(m.driver, db))
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(dbx.Rebind(m.driver, db))
}

func (m *SQLRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(dbx.Rebind(m.driver, db))
}

// RunMigrations brings the schema up to date.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := gooseUp(ctx, m.dialect, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}
