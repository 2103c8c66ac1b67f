package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu sync.Mutex

	username string
	password string
	calls    []string
	errs     map[string]error

	messages  []*api.Message
	lastPeer  string
	lastLimit int
	sent      [][2]string
	deleted   []string

	// events are delivered, in order, by every Subscribe call.
	events  []func(client.EventHandler)
	pingErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{errs: map[string]error{}}
}

func (f *fakeClient) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Close() error { return f.call("close") }

func (f *fakeClient) Register(ctx context.Context, username, password string) error {
	if err := f.call("register"); err != nil {
		return err
	}
	f.mu.Lock()
	f.username, f.password = username, password
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) Login(ctx context.Context, username, password string) error {
	if err := f.call("login"); err != nil {
		return err
	}
	f.mu.Lock()
	f.username, f.password = username, password
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	err := f.call("logout")
	if err == nil || errors.Is(err, client.ErrUnauthorized) {
		f.mu.Lock()
		f.username = ""
		f.mu.Unlock()
	}
	return err
}

func (f *fakeClient) Disconnect(ctx context.Context) error { return f.call("disconnect") }

func (f *fakeClient) DeleteAccount(ctx context.Context) error {
	if err := f.call("deleteaccount"); err != nil {
		return err
	}
	f.mu.Lock()
	f.username = ""
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) SendMessage(ctx context.Context, recipient, content string) error {
	if err := f.call("send"); err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, [2]string{recipient, content})
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) GetMessages(ctx context.Context, peer string, lastN int) ([]*api.Message, error) {
	if err := f.call("history"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPeer, f.lastLimit = peer, lastN
	return f.messages, nil
}

func (f *fakeClient) GetUnread(ctx context.Context, lastN int) ([]*api.Message, error) {
	if err := f.call("unread"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPeer, f.lastLimit = "", lastN
	return f.messages, nil
}

func (f *fakeClient) DeleteMessage(ctx context.Context, id string) error {
	if err := f.call("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) Subscribe(ctx context.Context, h client.EventHandler) error {
	if err := f.call("subscribe"); err != nil {
		return err
	}
	f.mu.Lock()
	events := f.events
	f.mu.Unlock()

	for _, ev := range events {
		ev(h)
	}
	<-ctx.Done()
	return nil
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeClient) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

func (f *fakeClient) LoggedIn() bool { return f.Username() != "" }

func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, "")

	cfg := &config.Config{}
	cfg.LoadDefaults()

	var out bytes.Buffer
	a := NewApp(cfg, fc, logging.Nop{}, strings.NewReader(input), &out)
	t.Cleanup(a.stopSubscription)
	return a, &out
}

func loggedIn(name string) *fakeClient {
	fc := newFakeClient()
	fc.username = name
	return fc
}

func TestLogin_StartsSubscriptionAndPrintsEvents(t *testing.T) {
	fc := newFakeClient()
	fc.events = []func(client.EventHandler){
		func(h client.EventHandler) {
			h.OnMessage(&api.Message{ID: "m1", Sender: "bob", Recipient: "alice", Content: "hi", Timestamp: 1700000000000})
		},
		func(h client.EventHandler) { h.OnUserOnline("bob") },
		func(h client.EventHandler) { h.OnMessageDeleted("m1") },
		func(h client.EventHandler) { h.OnUserOffline("bob") },
	}
	a, out := newTestApp(t, fc, "s3cret\n")

	require.NoError(t, a.Login(context.Background(), []string{"alice"}))
	a.stopSubscription()

	assert.Equal(t, "s3cret", fc.password)
	assert.Equal(t, []string{"login", "subscribe"}, fc.Calls())

	got := out.String()
	assert.Contains(t, got, "Logged in as alice")
	assert.Contains(t, got, "bob -> alice: hi  #m1 (new)")
	assert.Contains(t, got, "* bob is online")
	assert.Contains(t, got, "* message #m1 was deleted")
	assert.Contains(t, got, "* bob went offline")
}

func TestRegister_PromptsForUsername(t *testing.T) {
	fc := newFakeClient()
	a, out := newTestApp(t, fc, "carol\npw\n")

	require.NoError(t, a.Register(context.Background(), nil))
	a.stopSubscription()

	assert.Equal(t, "carol", fc.Username())
	assert.Equal(t, "pw", fc.password)
	assert.Contains(t, out.String(), "Registered and logged in as carol")
}

func TestRegister_RejectedDoesNotSubscribe(t *testing.T) {
	fc := newFakeClient()
	fc.errs["register"] = &client.ResultError{Code: "conflict", Message: "Username already exists"}
	a, _ := newTestApp(t, fc, "pw\n")

	err := a.Register(context.Background(), []string{"alice"})
	require.Error(t, err)
	assert.Equal(t, "Username already exists", describe(err))
	assert.Equal(t, []string{"register"}, fc.Calls())
}

func TestSend(t *testing.T) {
	fc := loggedIn("alice")
	a, out := newTestApp(t, fc, "carol\nhi carol\n")
	ctx := context.Background()

	require.NoError(t, a.Send(ctx, []string{"bob", "hello", "there"}))
	require.NoError(t, a.Send(ctx, nil))

	assert.Equal(t, [][2]string{{"bob", "hello there"}, {"carol", "hi carol"}}, fc.sent)
	assert.Equal(t, 2, strings.Count(out.String(), "Message sent"))
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("usage", func(t *testing.T) {
		a, _ := newTestApp(t, loggedIn("alice"), "")
		var ue *usageError
		require.ErrorAs(t, a.History(ctx, nil), &ue)
		require.ErrorAs(t, a.History(ctx, []string{"bob", "x"}), &ue)
		require.ErrorAs(t, a.History(ctx, []string{"bob", "-1"}), &ue)
	})

	t.Run("prints conversation", func(t *testing.T) {
		fc := loggedIn("alice")
		fc.messages = []*api.Message{
			{ID: "1", Sender: "alice", Recipient: "bob", Content: "ping", Read: true},
			{ID: "2", Sender: "bob", Recipient: "alice", Content: "pong", Read: true},
		}
		a, out := newTestApp(t, fc, "")

		require.NoError(t, a.History(ctx, []string{"bob", "2"}))
		assert.Equal(t, "bob", fc.lastPeer)
		assert.Equal(t, 2, fc.lastLimit)

		got := out.String()
		assert.Less(t, strings.Index(got, "alice -> bob: ping"), strings.Index(got, "bob -> alice: pong"))
		assert.NotContains(t, got, "(new)")
	})

	t.Run("empty", func(t *testing.T) {
		a, out := newTestApp(t, loggedIn("alice"), "")
		require.NoError(t, a.History(ctx, []string{"bob"}))
		assert.Contains(t, out.String(), "No messages with bob")
	})
}

func TestUnread(t *testing.T) {
	ctx := context.Background()

	fc := loggedIn("alice")
	a, out := newTestApp(t, fc, "")
	require.NoError(t, a.Unread(ctx, nil))
	assert.Contains(t, out.String(), "No unread messages")
	assert.Equal(t, 0, fc.lastLimit)

	fc.messages = []*api.Message{{ID: "9", Sender: "bob", Recipient: "alice", Content: "psst"}}
	require.NoError(t, a.Unread(ctx, []string{"3"}))
	assert.Equal(t, 3, fc.lastLimit)
	assert.Contains(t, out.String(), "bob -> alice: psst  #9 (new)")
}

func TestDelete(t *testing.T) {
	fc := loggedIn("alice")
	a, out := newTestApp(t, fc, "m-2\n")
	ctx := context.Background()

	require.NoError(t, a.Delete(ctx, []string{"m-1"}))
	require.NoError(t, a.Delete(ctx, nil))
	assert.Equal(t, []string{"m-1", "m-2"}, fc.deleted)
	assert.Contains(t, out.String(), "Message deleted")

	fc.errs["delete"] = &client.ResultError{Code: "not_found", Message: "Message not found"}
	err := a.Delete(ctx, []string{"m-3"})
	assert.Equal(t, "Message not found", describe(err))
}

func TestConnectAndDisconnect(t *testing.T) {
	ctx := context.Background()

	a, _ := newTestApp(t, newFakeClient(), "")
	require.ErrorIs(t, a.Connect(ctx), client.ErrNotLoggedIn)

	fc := loggedIn("alice")
	a, out := newTestApp(t, fc, "")
	require.NoError(t, a.Connect(ctx))
	require.NoError(t, a.Disconnect(ctx))

	assert.ElementsMatch(t, []string{"subscribe", "disconnect"}, fc.Calls())
	assert.Contains(t, out.String(), "Receiving live events")
	assert.Contains(t, out.String(), "Disconnected from live events")
	assert.True(t, fc.LoggedIn())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("not logged in", func(t *testing.T) {
		a, _ := newTestApp(t, newFakeClient(), "")
		require.ErrorIs(t, a.Logout(ctx), client.ErrNotLoggedIn)
	})

	t.Run("disconnects then logs out", func(t *testing.T) {
		fc := loggedIn("alice")
		a, out := newTestApp(t, fc, "")
		require.NoError(t, a.Logout(ctx))
		assert.Equal(t, []string{"disconnect", "logout"}, fc.Calls())
		assert.Contains(t, out.String(), "Logged out")
		assert.False(t, fc.LoggedIn())
	})

	t.Run("expired session still logs out", func(t *testing.T) {
		fc := loggedIn("alice")
		fc.errs["disconnect"] = client.ErrUnauthorized
		fc.errs["logout"] = client.ErrUnauthorized
		a, _ := newTestApp(t, fc, "")
		require.NoError(t, a.Logout(ctx))
		assert.False(t, fc.LoggedIn())
	})

	t.Run("server unreachable", func(t *testing.T) {
		fc := loggedIn("alice")
		fc.errs["logout"] = client.ErrUnavailable
		a, _ := newTestApp(t, fc, "")
		require.ErrorIs(t, a.Logout(ctx), client.ErrUnavailable)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	fc := loggedIn("alice")
	a, out := newTestApp(t, fc, "no\nYES\n")

	require.NoError(t, a.DeleteAccount(ctx))
	assert.Contains(t, out.String(), "Cancelled")
	assert.Empty(t, fc.Calls())

	require.NoError(t, a.DeleteAccount(ctx))
	assert.Equal(t, []string{"deleteaccount"}, fc.Calls())
	assert.Contains(t, out.String(), "Account deleted")
	assert.False(t, fc.LoggedIn())

	require.ErrorIs(t, a.DeleteAccount(ctx), client.ErrNotLoggedIn)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{client.ErrNotLoggedIn, "please log in first"},
		{client.ErrUnauthorized, "session is no longer valid, please log in again"},
		{&client.ResultError{Code: "unauthenticated", Message: "Invalid session"}, "session is no longer valid, please log in again"},
		{client.ErrUnavailable, "server is unreachable, try again later"},
		{&client.ResultError{Code: "validation", Message: "Message content cannot be empty"}, "Message content cannot be empty"},
		{&client.ResultError{Code: "forbidden", Message: "Only the sender or the recipient can delete a message"}, "Only the sender or the recipient can delete a message"},
		{&usageError{synopsis: "unread [n]"}, "usage: unread [n]"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.err))
	}
}

func TestSetMode_ChangesAndReportsOnce(t *testing.T) {
	a, out := newTestApp(t, newFakeClient(), "")

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Contains(t, out.String(), "switched to online mode")

	out.Reset()
	a.setMode(ModeOnline)
	assert.Empty(t, out.String())

	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode())
	assert.Contains(t, out.String(), "switched to offline mode")
}

func TestGetStatus(t *testing.T) {
	fc := newFakeClient()
	a, _ := newTestApp(t, fc, "")
	assert.Equal(t, "", a.getStatus())

	a.setMode(ModeOffline)
	assert.Equal(t, "(offline)", a.getStatus())

	fc.mu.Lock()
	fc.username = "alice"
	fc.mu.Unlock()
	assert.Equal(t, "(alice offline)", a.getStatus())
}

func TestOnlineStatusWatcher(t *testing.T) {
	fc := newFakeClient()
	fc.pingErr = client.ErrUnavailable
	a, _ := newTestApp(t, fc, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	fc.mu.Lock()
	fc.pingErr = nil
	fc.mu.Unlock()
	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestREPL_WithApp(t *testing.T) {
	fc := newFakeClient()
	input := strings.Join([]string{
		"help",
		"login alice",
		"pw",
		"send bob hi bob",
		"logout",
		"exit",
	}, "\n") + "\n"
	a, out := newTestApp(t, fc, input)

	runREPL(context.Background(), a, a.getStatus, a.reader, a.out)

	assert.Equal(t, [][2]string{{"bob", "hi bob"}}, fc.sent)

	calls := fc.Calls()
	assert.ElementsMatch(t, []string{"login", "subscribe", "send", "disconnect", "logout"}, calls)
	assert.Equal(t, []string{"disconnect", "logout"}, calls[len(calls)-2:])
	assert.Contains(t, out.String(), helpLoggedOut)
	assert.Contains(t, out.String(), "chat (alice)> ")
	assert.True(t, strings.HasSuffix(out.String(), "Bye!\n"))
}
