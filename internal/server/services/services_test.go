package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/registry"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv wires the services over a private in-memory SQLite database with
// the real migrations applied.
type testEnv struct {
	db        *sql.DB
	cfg       *config.Config
	rm        repomanager.RepositoryManager
	reg       *registry.Registry
	sessions  *SessionService
	accounts  *AccountService
	messaging *MessagingService
}

func cheapArgon2() *auth.Argon2Hasher {
	return &auth.Argon2Hasher{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = dbx.DriverSQLite
	cfg.DatabaseDSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.ConnectionBufferSize = 32
	for _, o := range opts {
		o(cfg)
	}

	db, err := dbx.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager(cfg.DatabaseDriver)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	var hasher auth.PasswordHasher = cheapArgon2()
	if cfg.PasswordScheme == auth.SchemeSHA256 {
		hasher = auth.SHA256Hasher{}
	}

	clock := NewClock()
	reg := registry.New(logging.Nop{}, nil)
	sessions := NewSessionService(db, rm, cfg, clock)

	return &testEnv{
		db:        db,
		cfg:       cfg,
		rm:        rm,
		reg:       reg,
		sessions:  sessions,
		accounts:  NewAccountService(db, rm, sessions, reg, hasher, clock),
		messaging: NewMessagingService(db, rm, sessions, reg, cfg, clock),
	}
}

func (e *testEnv) register(t *testing.T, username, password string) string {
	t.Helper()
	token, err := e.accounts.Register(context.Background(), username, password)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

// nextEvent waits briefly for the next event on h.
func nextEvent(t *testing.T, h *registry.Handle) events.Event {
	t.Helper()
	select {
	case ev := <-h.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
		return nil
	}
}

// noEvent asserts nothing is queued on h.
func noEvent(t *testing.T, h *registry.Handle) {
	t.Helper()
	select {
	case ev := <-h.Events():
		t.Fatalf("unexpected event %#v", ev)
	default:
	}
}
