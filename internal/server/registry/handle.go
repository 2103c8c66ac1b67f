package registry

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
)

// Handle is one live subscription. Events are queued in a bounded mailbox;
// the stream goroutine drains it until Done is closed.
type Handle struct {
	username string
	events   chan events.Event
	done     chan struct{}
	once     sync.Once
}

// NewHandle creates a handle whose mailbox holds up to buffer events.
func NewHandle(username string, buffer int) *Handle {
	if buffer < 1 {
		buffer = 1
	}
	return &Handle{
		username: username,
		events:   make(chan events.Event, buffer),
		done:     make(chan struct{}),
	}
}

func (h *Handle) Username() string { return h.username }

// Events is drained by the stream that owns the handle.
func (h *Handle) Events() <-chan events.Event { return h.events }

// Done is closed once the handle is closed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Deliver queues ev without blocking. A closed handle or a full mailbox
// yields common.ErrTransport.
func (h *Handle) Deliver(ev events.Event) error {
	select {
	case <-h.done:
		return fmt.Errorf("%w: handle closed", common.ErrTransport)
	default:
	}

	select {
	case h.events <- ev:
		return nil
	default:
		return fmt.Errorf("%w: mailbox full", common.ErrTransport)
	}
}

// Close is idempotent. A closed handle never reopens.
func (h *Handle) Close() {
	h.once.Do(func() { close(h.done) })
}

func (h *Handle) Closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
