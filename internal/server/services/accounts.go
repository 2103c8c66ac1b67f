package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/registry"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// AccountService covers the account lifecycle: Register, Login, Logout
// and DeleteAccount.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	registry    *registry.Registry
	hasher      auth.PasswordHasher
	clock       *Clock
	validate    *validator.Validate

	// beforePurge runs between the first disconnect sweep and the delete
	// transaction; tests use it to race a Connect in.
	beforePurge func(ctx context.Context, username string)
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService,
	reg *registry.Registry, hasher auth.PasswordHasher, clock *Clock) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		registry:    reg,
		hasher:      hasher,
		clock:       clock,
		validate:    newValidator(),
	}
}

// Register creates the account and its first session in one transaction
// and returns the session token.
func (s *AccountService) Register(ctx context.Context, username, password string) (string, error) {
	if err := s.validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return "", ErrEmptyCredentials
	}

	exists, err := s.repomanager.Accounts(s.db).Exists(ctx, username)
	if err != nil {
		return "", common.Wrap(common.ErrorInternal, "Failed to register user", err)
	}
	if exists {
		return "", ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", common.Wrap(common.ErrorInternal, "Failed to register user", err)
	}

	var token string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account := &models.Account{Username: username, PasswordHash: hash, CreatedAt: s.clock.NowMillis()}
		created, err := s.repomanager.Accounts(tx).Create(ctx, account)
		if err != nil {
			return common.Wrap(common.ErrorInternal, "Failed to register user", err)
		}
		// lost a race with a concurrent registration of the same name
		if !created {
			return ErrUsernameTaken
		}

		token, err = s.sessions.IssueTx(ctx, tx, username)
		if err != nil {
			return common.Wrap(common.ErrorInternal, "Failed to create session", err)
		}
		return nil
	})
	if err != nil {
		return "", s.txError(err, "Failed to register user")
	}
	return token, nil
}

// Login checks the password and issues a new session. No token is issued
// on failure.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return "", ErrEmptyCredentials
	}

	ok, err := s.checkPassword(ctx, username, password)
	if err != nil {
		return "", common.Wrap(common.ErrorInternal, "Failed to log in", err)
	}
	if !ok {
		return "", ErrBadCredentials
	}

	token, err := s.sessions.Issue(ctx, username)
	if err != nil {
		return "", common.Wrap(common.ErrorInternal, "Failed to create session", err)
	}
	return token, nil
}

// Logout revokes the single session behind token.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if _, err := s.sessions.authenticate(ctx, token); err != nil {
		return err
	}
	if _, err := s.sessions.Revoke(ctx, token); err != nil {
		return common.Wrap(common.ErrorInternal, "Failed to log out", err)
	}
	return nil
}

// DeleteAccount force-disconnects every live subscription of the caller and
// then removes their messages, sessions and account in one transaction.
// Subscriptions registered while the transaction ran are swept again after
// it commits.
func (s *AccountService) DeleteAccount(ctx context.Context, token string) error {
	username, err := s.sessions.authenticate(ctx, token)
	if err != nil {
		return err
	}

	s.registry.UnregisterAll(ctx, username)
	if s.beforePurge != nil {
		s.beforePurge(ctx, username)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Messages(tx).DeleteAllForUser(ctx, username); err != nil {
			return err
		}
		if _, err := s.repomanager.Sessions(tx).DeleteAllForUser(ctx, username); err != nil {
			return err
		}
		deleted, err := s.repomanager.Accounts(tx).Delete(ctx, username)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("account %q vanished", username)
		}
		return nil
	})
	if err != nil {
		return common.Wrap(common.ErrorInternal, "Failed to delete account", err)
	}

	s.registry.UnregisterAll(ctx, username)
	return nil
}

// checkPassword compares digests in the database for deterministic schemes
// and verifies the stored digest otherwise. Legacy SHA-256 digests keep
// verifying after a switch to argon2id.
func (s *AccountService) checkPassword(ctx context.Context, username, password string) (bool, error) {
	accounts := s.repomanager.Accounts(s.db)

	if s.hasher.Deterministic() {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return false, err
		}
		return accounts.CheckCredentials(ctx, username, hash)
	}

	stored, err := accounts.PasswordHash(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}

	ok, err := s.hasher.Verify(password, stored)
	if errors.Is(err, auth.ErrInvalidHash) {
		return auth.SHA256Hasher{}.Verify(password, stored)
	}
	return ok, err
}

// txError keeps client-facing outcomes produced inside a transaction and
// wraps anything else, such as a failed commit.
func (s *AccountService) txError(err error, msg string) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	return common.Wrap(common.ErrorInternal, msg, err)
}
