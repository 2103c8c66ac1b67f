// Package messages is the durable message log. Queries return messages in
// ascending (timestamp, id) order; a positive limit keeps the most recent
// rows, zero means no limit.
package messages

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	// Create stores m, assigning a fresh id when m.ID is empty.
	Create(ctx context.Context, m *models.Message) error
	Get(ctx context.Context, id string) (*models.Message, error)
	History(ctx context.Context, userA, userB string, limit int) ([]models.Message, error)
	Unread(ctx context.Context, recipient string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAllForUser(ctx context.Context, username string) (bool, error)
}
