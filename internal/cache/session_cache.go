package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

var (
	ErrMiss        = errors.New("session not cached")
	ErrNonPositive = errors.New("session ttl must be positive")
)

// SessionEntry денормализованная копия сессии. ExpiresAt в миллисекундах unix.
type SessionEntry struct {
	IdentityID  string `json:"identityId"`
	DisplayName string `json:"displayName"`
	IsAnonymous bool   `json:"isAnonymous"`
	ExpiresAt   int64  `json:"expiresAt"`
}

func (e SessionEntry) Expiry() time.Time {
	return time.UnixMilli(e.ExpiresAt).UTC()
}

type SessionCache struct {
	rdb *redis.Client
}

func NewSessionCache(rdb *redis.Client) *SessionCache {
	return &SessionCache{rdb: rdb}
}

func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Put сохраняет сессию; ttl должен совпадать с оставшимся временем жизни
func (c *SessionCache) Put(ctx context.Context, token string, entry SessionEntry, ttl time.Duration) error {
	// redis трактует 0 как "без срока"
	if ttl <= 0 {
		return ErrNonPositive
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, SessionKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (c *SessionCache) Get(ctx context.Context, token string) (*SessionEntry, error) {
	data, err := c.rdb.Get(ctx, SessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var entry SessionEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &entry, nil
}

func (c *SessionCache) Delete(ctx context.Context, token string) error {
	if err := c.rdb.Del(ctx, SessionKey(token)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
