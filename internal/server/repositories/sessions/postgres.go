package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {
	query :=
		`INSERT INTO sessions (token, username, created_at)
		 VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, session.Token, session.Username, session.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Username(ctx context.Context, token string) (string, error) {
	query := `SELECT username FROM sessions WHERE token = $1`

	var username string
	err := r.db.QueryRowContext(ctx, query, token).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return username, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) (bool, error) {
	return r.exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, username string) (bool, error) {
	return r.exec(ctx, `DELETE FROM sessions WHERE username = $1`, username)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
