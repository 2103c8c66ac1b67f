package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicateConflictsAndFirstWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "alice", "pw1")

	_, err := env.accounts.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, common.CodeConflict, common.Code(err))

	_, err = env.accounts.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = env.accounts.Login(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegister_EmptyInput(t *testing.T) {
	env := newTestEnv(t)

	for _, c := range [][2]string{{"", "pw"}, {"alice", ""}, {"", ""}} {
		_, err := env.accounts.Register(context.Background(), c[0], c[1])
		assert.ErrorIs(t, err, ErrEmptyCredentials)
		assert.Equal(t, "Username and password cannot be empty", common.Message(err, ""))
	}
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	env := newTestEnv(t)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins, conflicts int
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.accounts.Register(context.Background(), "alice", "pw")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrUsernameTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, conflicts)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "pw1")

	tok, err := env.accounts.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	u, err := env.sessions.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", u)

	tok, err = env.accounts.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.Empty(t, tok)

	_, err = env.accounts.Login(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = env.accounts.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrEmptyCredentials)
}

func TestLogin_SHA256Scheme(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.PasswordScheme = auth.SchemeSHA256 })
	ctx := context.Background()
	env.register(t, "alice", "pw1")

	stored, err := env.rm.Accounts(env.db).PasswordHash(ctx, "alice")
	require.NoError(t, err)
	want, _ := auth.SHA256Hasher{}.Hash("pw1")
	assert.Equal(t, want, stored)

	_, err = env.accounts.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = env.accounts.Login(ctx, "alice", "nope")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_LegacyDigestUnderArgon2(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	legacy, _ := auth.SHA256Hasher{}.Hash("old-pw")
	ok, err := env.rm.Accounts(env.db).Create(ctx, &models.Account{Username: "old", PasswordHash: legacy, CreatedAt: 1})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = env.accounts.Login(ctx, "old", "old-pw")
	require.NoError(t, err)
	_, err = env.accounts.Login(ctx, "old", "new-pw")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tok := env.register(t, "alice", "pw")

	require.NoError(t, env.accounts.Logout(ctx, tok))
	assert.ErrorIs(t, env.accounts.Logout(ctx, tok), ErrInvalidSession)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tokA := env.register(t, "alice", "pw")
	tokB := env.register(t, "bob", "pw")

	_, err := env.messaging.SendMessage(ctx, tokA, "bob", "hi bob")
	require.NoError(t, err)
	_, err = env.messaging.SendMessage(ctx, tokB, "alice", "hi alice")
	require.NoError(t, err)

	hA, err := env.messaging.Connect(ctx, tokA)
	require.NoError(t, err)
	hB, err := env.messaging.Connect(ctx, tokB)
	require.NoError(t, err)
	assert.Equal(t, events.UserOnline{Username: "bob"}, nextEvent(t, hA))

	require.NoError(t, env.accounts.DeleteAccount(ctx, tokA))

	assert.True(t, hA.Closed(), "live subscriptions are force-closed")
	assert.Equal(t, events.UserOffline{Username: "alice"}, nextEvent(t, hB))

	exists, err := env.rm.Accounts(env.db).Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	hist, err := env.messaging.GetMessages(ctx, tokB, "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, hist)

	_, err = env.sessions.Validate(ctx, tokA)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	assert.ErrorIs(t, env.accounts.DeleteAccount(ctx, tokA), ErrInvalidSession)
}

func TestDeleteAccount_SweepsSubscriptionRegisteredDuringDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tok := env.register(t, "alice", "pw")

	var late *registry.Handle
	env.accounts.beforePurge = func(ctx context.Context, _ string) {
		h, err := env.messaging.Connect(ctx, tok)
		require.NoError(t, err)
		late = h
	}

	require.NoError(t, env.accounts.DeleteAccount(ctx, tok))

	require.NotNil(t, late)
	assert.True(t, late.Closed())
	assert.False(t, env.reg.IsOnline("alice"))
}

func TestDeleteAccount_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	tok := env.register(t, "alice", "pw")

	require.NoError(t, env.db.Close())

	err := env.accounts.DeleteAccount(context.Background(), tok)
	assert.ErrorIs(t, err, common.ErrorInternal)
}
