// Package registry tracks live subscriptions per user, detects presence
// transitions and fans events out to subscribers.
//
// All access to the username -> handles map goes through one mutex.
// Broadcast copies the target handles under the lock and delivers outside
// it, so a slow subscriber never holds up the registry. A handle that
// fails a delivery is pruned.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/metrics"
)

type Registry struct {
	mu      sync.Mutex
	handles map[string]map[*Handle]struct{}
	log     logging.Logger
	metrics *metrics.Metrics
}

func New(log logging.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		handles: make(map[string]map[*Handle]struct{}),
		log:     log.With("module", "registry"),
		metrics: m,
	}
}

// Register adds h. The first handle of a user announces UserOnline to
// everybody else.
func (r *Registry) Register(ctx context.Context, h *Handle) {
	username := h.Username()

	r.mu.Lock()
	set, ok := r.handles[username]
	if !ok {
		set = make(map[*Handle]struct{})
		r.handles[username] = set
	}
	set[h] = struct{}{}
	r.recordLocked()
	r.mu.Unlock()

	r.log.Debug(ctx, "handle registered", "username", username, "first", !ok)
	if !ok {
		r.log.Info(ctx, "user online", "username", username)
		r.Broadcast(ctx, events.UserOnline{Username: username}, username)
	}
}

// Unregister removes and closes h. Removing the last handle of a user
// announces UserOffline. Unknown handles are ignored.
func (r *Registry) Unregister(ctx context.Context, h *Handle) {
	username := h.Username()

	r.mu.Lock()
	set, ok := r.handles[username]
	if ok {
		if _, ok = set[h]; ok {
			delete(set, h)
		}
	}
	last := ok && len(set) == 0
	if last {
		delete(r.handles, username)
	}
	if ok {
		r.recordLocked()
	}
	r.mu.Unlock()

	h.Close()
	if last {
		r.announceOffline(ctx, username)
	}
}

// UnregisterAll closes every handle of username at once and returns how
// many there were. At most one UserOffline is announced.
func (r *Registry) UnregisterAll(ctx context.Context, username string) int {
	r.mu.Lock()
	set := r.handles[username]
	delete(r.handles, username)
	r.recordLocked()
	r.mu.Unlock()

	for h := range set {
		h.Close()
	}
	if len(set) > 0 {
		r.announceOffline(ctx, username)
	}
	return len(set)
}

// Broadcast hands ev to every live handle except those of exclude (empty
// excludes nobody) and returns the number of successful deliveries.
func (r *Registry) Broadcast(ctx context.Context, ev events.Event, exclude string) int {
	r.mu.Lock()
	targets := make([]*Handle, 0, len(r.handles))
	for username, set := range r.handles {
		if username == exclude {
			continue
		}
		for h := range set {
			targets = append(targets, h)
		}
	}
	r.mu.Unlock()

	kind := string(ev.Kind())
	delivered := 0
	var failed, stale []*Handle
	for _, h := range targets {
		// closed by a concurrent disconnect after the snapshot was taken
		if h.Closed() {
			r.log.Debug(ctx, "skipping closed handle", "username", h.Username(), "kind", kind)
			stale = append(stale, h)
			continue
		}
		if err := h.Deliver(ev); err != nil {
			r.log.Warn(ctx, "delivery failed, pruning handle", "username", h.Username(), "kind", kind, "error", err)
			r.metrics.EventDropped(kind)
			failed = append(failed, h)
			continue
		}
		r.metrics.EventDelivered(kind)
		delivered++
	}

	for _, h := range failed {
		r.Unregister(ctx, h)
	}
	for _, h := range stale {
		r.Unregister(ctx, h)
	}
	return delivered
}

func (r *Registry) IsOnline(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[username]
	return ok
}

// Online returns the sorted usernames with at least one live handle.
func (r *Registry) Online() []string {
	r.mu.Lock()
	out := make([]string, 0, len(r.handles))
	for username := range r.handles {
		out = append(out, username)
	}
	r.mu.Unlock()

	sort.Strings(out)
	return out
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked()
}

func (r *Registry) announceOffline(ctx context.Context, username string) {
	r.log.Info(ctx, "user offline", "username", username)
	r.Broadcast(ctx, events.UserOffline{Username: username}, username)
}

func (r *Registry) countLocked() int {
	n := 0
	for _, set := range r.handles {
		n += len(set)
	}
	return n
}

func (r *Registry) recordLocked() {
	r.metrics.SetPresence(len(r.handles), r.countLocked())
}
