// Package sessions persists issued session tokens.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	// Username returns common.ErrorNotFound for unknown tokens.
	Username(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) (bool, error)
	DeleteAllForUser(ctx context.Context, username string) (bool, error)
}
