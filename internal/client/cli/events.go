package cli

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/client/client"
)

// startSubscription replaces any running event stream with a new one bound
// to ctx.
func (a *App) startSubscription(ctx context.Context) {
	a.stopSubscription()

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	a.mu.Lock()
	a.cancelSub = cancel
	a.subDone = done
	a.mu.Unlock()

	go func() {
		defer close(done)
		if err := a.client.Subscribe(subCtx, a.eventHandler()); err != nil {
			a.logger.Warn(subCtx, "event stream failed", "error", err)
			a.printf("\n* live events stopped: %s\n", describe(err))
		}
	}()
}

// stopSubscription cancels the running event stream, if any, and waits for
// its goroutine to exit.
func (a *App) stopSubscription() {
	a.mu.Lock()
	cancel, done := a.cancelSub, a.subDone
	a.cancelSub, a.subDone = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (a *App) eventHandler() client.EventHandler {
	return client.EventHandler{
		OnMessage: func(m *api.Message) {
			a.printf("\n%s\n", formatMessage(m))
		},
		OnMessageDeleted: func(id string) {
			a.printf("\n* message #%s was deleted\n", id)
		},
		OnUserOnline: func(username string) {
			a.printf("\n* %s is online\n", username)
		},
		OnUserOffline: func(username string) {
			a.printf("\n* %s went offline\n", username)
		},
	}
}
