package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/google/uuid"
)

const selectColumns = `SELECT id, sender, recipient, content, timestamp, read FROM messages`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO messages (id, sender, recipient, content, timestamp, read)
		 VALUES ($1, $2, $3, $4, $5, FALSE)`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.Sender, m.Recipient, m.Content, m.Timestamp)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	m.Read = false
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Message, error) {
	m := &models.Message{}
	err := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id).
		Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.Timestamp, &m.Read)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// History returns the conversation between userA and userB in both
// directions.
func (r *PostgresRepository) History(ctx context.Context, userA, userB string, limit int) ([]models.Message, error) {
	query := selectColumns +
		` WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
		  ORDER BY timestamp DESC, id DESC`
	args := []any{userA, userB}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// Unread returns unread messages addressed to recipient. The read flag of
// every returned copy is false, whatever happens to the rows afterwards.
func (r *PostgresRepository) Unread(ctx context.Context, recipient string, limit int) ([]models.Message, error) {
	query := selectColumns +
		` WHERE recipient = $1 AND read = FALSE
		  ORDER BY timestamp DESC, id DESC`
	args := []any{recipient}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	out, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Read = false
	}
	return out, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, username string) (bool, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE sender = $1 OR recipient = $1`, username)
}

// list runs a newest-first query and returns its rows oldest-first, so a
// LIMIT keeps the most recent messages.
func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.Timestamp, &m.Read); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	slices.Reverse(out)
	return out, nil
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
