package services

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/anonchat/internal/cache"
	"github.com/thereayou/anonchat/internal/database"
	"github.com/thereayou/anonchat/pkg/auth"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	db     *database.Database
	cache  *cache.SessionCache
	redis  *miniredis.Miniredis
	tokens *auth.JWTManager
	log    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Connect(database.DriverSQLite, filepath.Join(t.TempDir(), "chat.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &testEnv{
		db:     db,
		cache:  cache.NewSessionCache(rdb),
		redis:  mr,
		tokens: auth.NewJWTManager(testSecret),
		log:    logs.GetLoggerFromLevel(slog.LevelDebug),
	}
}

func (e *testEnv) sessionService(readThrough bool) *SessionService {
	return NewSessionService(e.db, e.cache, e.tokens, e.log, SessionConfig{
		TTL:         DefaultSessionTTL,
		ReadThrough: readThrough,
	})
}

func (e *testEnv) messageService() *MessageService {
	return NewMessageService(e.db, e.log, MessageConfig{})
}

// fakeClock двигается только вручную
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func strPtr(s string) *string { return &s }
