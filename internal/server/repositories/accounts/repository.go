// Package accounts is the credential store: accounts and their password
// hashes. Hashing happens in the caller; the store compares opaque strings.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Exists(ctx context.Context, username string) (bool, error)
	// Create returns false when the username is already taken.
	Create(ctx context.Context, account *models.Account) (bool, error)
	CheckCredentials(ctx context.Context, username, passwordHash string) (bool, error)
	PasswordHash(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) (bool, error)
}
