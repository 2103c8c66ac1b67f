package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
)

// SessionService issues, validates and revokes session tokens.
//
// A token is a signed envelope (see auth.GenerateSessionToken) around 256
// random bits; the whole string is also the sessions row key, so revoking
// the row revokes the token even while the envelope is still valid.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secretKey   []byte
	ttl         time.Duration
	clock       *Clock
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, clock *Clock) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		secretKey:   []byte(cfg.SecretKey),
		ttl:         cfg.SessionTTL,
		clock:       clock,
	}
}

// Issue creates a session for username.
func (s *SessionService) Issue(ctx context.Context, username string) (string, error) {
	return s.IssueTx(ctx, s.db, username)
}

// IssueTx is Issue on an existing handle, typically a transaction.
func (s *SessionService) IssueTx(ctx context.Context, db dbx.DBTX, username string) (string, error) {
	sessionID, err := common.MakeRandHexString(common.SessionIDBytes)
	if err != nil {
		return "", err
	}
	token, err := auth.GenerateSessionToken(username, sessionID, s.secretKey, s.ttl)
	if err != nil {
		return "", err
	}

	session := &models.Session{Token: token, Username: username, CreatedAt: s.clock.NowMillis()}
	if err := s.repomanager.Sessions(db).Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Validate returns the username behind token. Unknown, forged, revoked and
// expired tokens yield an error matching common.ErrInvalidToken or
// common.ErrTokenExpired; the envelope is checked before the database.
func (s *SessionService) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrInvalidToken
	}
	claims, err := auth.ParseSessionToken(token, s.secretKey)
	if err != nil {
		return "", err
	}

	username, err := s.repomanager.Sessions(s.db).Username(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidToken
		}
		return "", err
	}
	if username != claims.Subject {
		return "", common.ErrInvalidToken
	}
	return username, nil
}

func (s *SessionService) Revoke(ctx context.Context, token string) (bool, error) {
	return s.repomanager.Sessions(s.db).Delete(ctx, token)
}

func (s *SessionService) RevokeAll(ctx context.Context, username string) (bool, error) {
	return s.repomanager.Sessions(s.db).DeleteAllForUser(ctx, username)
}

// authenticate maps Validate onto client-facing outcomes.
func (s *SessionService) authenticate(ctx context.Context, token string) (string, error) {
	username, err := s.Validate(ctx, token)
	if err == nil {
		return username, nil
	}
	if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
		return "", ErrInvalidSession
	}
	return "", common.Wrap(common.ErrorInternal, "Failed to validate session", err)
}
