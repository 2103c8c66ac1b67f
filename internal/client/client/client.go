package client

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/api"
)

type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Disconnect(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	SendMessage(ctx context.Context, recipient, content string) error
	GetMessages(ctx context.Context, peer string, lastN int) ([]*api.Message, error)
	GetUnread(ctx context.Context, lastN int) ([]*api.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	Subscribe(ctx context.Context, h EventHandler) error
	Ping(ctx context.Context) error
	Username() string
	LoggedIn() bool
}

// EventHandler receives pushed events. Nil callbacks are skipped.
type EventHandler struct {
	OnMessage        func(m *api.Message)
	OnMessageDeleted func(id string)
	OnUserOnline     func(username string)
	OnUserOffline    func(username string)
}
