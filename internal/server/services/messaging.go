package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/registry"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// MessagingService stores messages and turns every successful change into
// an event for live subscribers. A change is committed before its event
// is broadcast.
type MessagingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	registry    *registry.Registry
	clock       *Clock
	bufferSize  int
	validate    *validator.Validate

	// beforeRegister runs between the session check and the registration
	// of a new handle.
	beforeRegister func()
}

func NewMessagingService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService,
	reg *registry.Registry, cfg *config.Config, clock *Clock) *MessagingService {
	return &MessagingService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		registry:    reg,
		clock:       clock,
		bufferSize:  cfg.ConnectionBufferSize,
		validate:    newValidator(),
	}
}

// SendMessage stores a message from the caller to recipient and announces
// it to every live subscriber, the sender's other devices included.
func (s *MessagingService) SendMessage(ctx context.Context, token, recipient, content string) (*models.Message, error) {
	sender, err := s.sessions.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(outgoingMessage{Content: content}); err != nil {
		return nil, ErrEmptyContent
	}

	exists, err := s.repomanager.Accounts(s.db).Exists(ctx, recipient)
	if err != nil {
		return nil, common.Wrap(common.ErrorInternal, "Failed to store message", err)
	}
	if !exists {
		return nil, ErrRecipientMissing
	}

	m := &models.Message{
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Timestamp: s.clock.NowMillis(),
	}
	if err := s.repomanager.Messages(s.db).Create(ctx, m); err != nil {
		return nil, common.Wrap(common.ErrorInternal, "Failed to store message", err)
	}

	s.registry.Broadcast(ctx, events.NewMessage{Message: *m}, "")
	return m, nil
}

// GetMessages returns the conversation with peer, or the caller's unread
// messages when peer is empty. Returned messages addressed to the caller
// are marked read; the returned copies still carry the flag as it was
// before the call.
func (s *MessagingService) GetMessages(ctx context.Context, token, peer string, limit int) ([]models.Message, error) {
	username, err := s.sessions.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(historyQuery{Limit: limit}); err != nil {
		return nil, ErrNegativeLimit
	}

	repo := s.repomanager.Messages(s.db)

	var msgs []models.Message
	if peer == "" {
		msgs, err = repo.Unread(ctx, username, limit)
	} else {
		msgs, err = repo.History(ctx, username, peer, limit)
	}
	if err != nil {
		return nil, common.Wrap(common.ErrorInternal, "Failed to load messages", err)
	}

	for _, m := range msgs {
		if m.Recipient != username || m.Read {
			continue
		}
		if err := repo.MarkRead(ctx, m.ID); err != nil {
			return nil, common.Wrap(common.ErrorInternal, "Failed to mark messages as read", err)
		}
	}
	return msgs, nil
}

// DeleteMessage removes a message the caller sent or received and
// announces the deletion to every live subscriber.
func (s *MessagingService) DeleteMessage(ctx context.Context, token, id string) error {
	username, err := s.sessions.authenticate(ctx, token)
	if err != nil {
		return err
	}

	repo := s.repomanager.Messages(s.db)

	m, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrMessageNotFound
		}
		return common.Wrap(common.ErrorInternal, "Failed to delete message", err)
	}
	if !m.Involves(username) {
		return ErrNotParticipant
	}

	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		return common.Wrap(common.ErrorInternal, "Failed to delete message", err)
	}
	if !deleted {
		return ErrMessageNotFound
	}

	s.registry.Broadcast(ctx, events.MessageDeleted{ID: id}, "")
	return nil
}

// Connect validates token and registers a live handle for the caller. The
// caller drains the handle and must hand it back through Release.
//
// The session is checked again once the handle is visible, so an account
// deleted in between never keeps a live subscription.
func (s *MessagingService) Connect(ctx context.Context, token string) (*registry.Handle, error) {
	username, err := s.sessions.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.beforeRegister != nil {
		s.beforeRegister()
	}

	h := registry.NewHandle(username, s.bufferSize)
	s.registry.Register(ctx, h)

	if _, err := s.sessions.authenticate(ctx, token); err != nil {
		s.registry.Unregister(ctx, h)
		return nil, err
	}
	return h, nil
}

// Release unregisters h. Safe to call after h was pruned or force-closed.
func (s *MessagingService) Release(ctx context.Context, h *registry.Handle) {
	s.registry.Unregister(ctx, h)
}

// Disconnect closes every live subscription of the caller and returns how
// many were closed.
func (s *MessagingService) Disconnect(ctx context.Context, token string) (int, error) {
	username, err := s.sessions.authenticate(ctx, token)
	if err != nil {
		return 0, err
	}
	return s.registry.UnregisterAll(ctx, username), nil
}
