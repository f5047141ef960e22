package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/cache"
	"github.com/thereayou/anonchat/internal/database"
	"github.com/thereayou/anonchat/internal/mocks"
	"github.com/thereayou/anonchat/internal/models"
	"go.uber.org/mock/gomock"
)

var placeholderPattern = regexp.MustCompile(`^(Guest|Anonymous|Unknown|Visitor|User)[0-9]{1,4}$`)

func TestSessionService_CreateAnonymousSession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.sessionService(true)
	ctx := context.Background()

	t.Run("should accept every nickname length from 1 to 20 and verify immediately", func(t *testing.T) {
		for n := 1; n <= 20; n++ {
			req := require.New(t)
			nickname := strings.Repeat("ж", n)

			res, err := svc.CreateAnonymousSession(ctx, &nickname)
			req.NoError(err)
			req.Equal(nickname, res.Identity.DisplayName)
			req.True(res.Identity.IsAnonymous)
			req.True(strings.HasPrefix(res.Identity.ID, "anon_"))

			summary, err := svc.VerifyToken(ctx, res.Token)
			req.NoError(err)
			req.Equal(res.Identity.ID, summary.ID)
			req.Equal(nickname, summary.DisplayName)
			req.True(summary.IsAnonymous)
		}
	})

	t.Run("should generate a placeholder nickname when none is supplied", func(t *testing.T) {
		req := require.New(t)

		res, err := svc.CreateAnonymousSession(ctx, nil)
		req.NoError(err)
		req.Regexp(placeholderPattern, res.Identity.DisplayName)

		stored, err := env.db.GetIdentity(ctx, res.Identity.ID)
		req.NoError(err)
		req.Equal(res.Identity.DisplayName, stored.DisplayName)
	})

	t.Run("should give distinct identities and tokens for the same nickname", func(t *testing.T) {
		req := require.New(t)

		a, err := svc.CreateAnonymousSession(ctx, strPtr("twin"))
		req.NoError(err)
		b, err := svc.CreateAnonymousSession(ctx, strPtr("twin"))
		req.NoError(err)

		req.NotEqual(a.Identity.ID, b.Identity.ID)
		req.NotEqual(a.Token, b.Token)
	})

	t.Run("should mirror the session into the cache with the full lifetime", func(t *testing.T) {
		req := require.New(t)
		clock := newFakeClock()
		svc := env.sessionService(true)
		svc.now = clock.Now

		res, err := svc.CreateAnonymousSession(ctx, strPtr("mirror"))
		req.NoError(err)
		req.Equal(clock.Now().Add(24*time.Hour), res.ExpiresAt)

		key := cache.SessionKey(res.Token)
		req.True(env.redis.Exists(key))
		req.Equal(24*time.Hour, env.redis.TTL(key))

		entry, err := env.cache.Get(ctx, res.Token)
		req.NoError(err)
		req.Equal(res.Identity.ID, entry.IdentityID)
		req.Equal("mirror", entry.DisplayName)
		req.Equal(res.ExpiresAt.UnixMilli(), entry.ExpiresAt)

		session, err := env.db.FindSessionByToken(ctx, res.Token)
		req.NoError(err)
		req.True(session.ExpiresAt.After(session.CreatedAt))
	})
}

func TestSessionService_CreateAnonymousSession_InvalidNickname(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	sessionCache := mocks.NewMockSessionCache(ctrl)
	env := newTestEnv(t)
	svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{})

	// никаких записей при ошибке валидации
	store.EXPECT().CreateIdentityWithSession(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	sessionCache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, nickname := range []string{"", strings.Repeat("a", 21), strings.Repeat("ж", 21)} {
		res, err := svc.CreateAnonymousSession(context.Background(), &nickname)
		require.Nil(t, res)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestSessionService_CreateAnonymousSession_PersistenceFailures(t *testing.T) {
	env := newTestEnv(t)

	t.Run("should fail without touching the cache when the durable write fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		sessionCache := mocks.NewMockSessionCache(ctrl)
		svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{})

		store.EXPECT().
			CreateIdentityWithSession(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset")).
			Times(1)
		sessionCache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := svc.CreateAnonymousSession(context.Background(), strPtr("Alice"))
		req.Nil(res)
		req.ErrorIs(err, apperrors.ErrPersistence)
	})

	t.Run("should fail when the cache mirror fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		sessionCache := mocks.NewMockSessionCache(ctrl)
		svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{})

		store.EXPECT().
			CreateIdentityWithSession(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, identity *models.Identity, session *models.Session) error {
				req.Equal(identity.ID, session.IdentityID)
				req.NotEmpty(session.Token)
				return nil
			}).
			Times(1)
		sessionCache.EXPECT().
			Put(gomock.Any(), gomock.Any(), gomock.Any(), DefaultSessionTTL).
			Return(errors.New("redis down")).
			Times(1)

		res, err := svc.CreateAnonymousSession(context.Background(), nil)
		req.Nil(res)
		req.ErrorIs(err, apperrors.ErrPersistence)
	})
}

func TestSessionService_VerifyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("should reject an empty token", func(t *testing.T) {
		_, err := env.sessionService(true).VerifyToken(ctx, "")
		require.ErrorIs(t, err, apperrors.ErrNoToken)
	})

	t.Run("should reject a token that was never issued", func(t *testing.T) {
		req := require.New(t)
		svc := env.sessionService(true)

		_, err := svc.VerifyToken(ctx, "never-issued")
		req.ErrorIs(err, apperrors.ErrInvalidToken)

		// подписан правильно, но сессии нет ни в кеше, ни в БД
		now := time.Now().UTC()
		forged, err := env.tokens.Generate("unknown-session", "anon_x", now, now.Add(time.Hour))
		req.NoError(err)
		_, err = svc.VerifyToken(ctx, forged)
		req.ErrorIs(err, apperrors.ErrInvalidToken)
	})

	t.Run("should expire lazily, drop the cache entry and stay expired", func(t *testing.T) {
		req := require.New(t)
		clock := newFakeClock()
		svc := env.sessionService(true)
		svc.now = clock.Now

		res, err := svc.CreateAnonymousSession(ctx, strPtr("Bob"))
		req.NoError(err)

		clock.Advance(24*time.Hour + time.Second)

		_, err = svc.VerifyToken(ctx, res.Token)
		req.ErrorIs(err, apperrors.ErrTokenExpired)
		req.False(env.redis.Exists(cache.SessionKey(res.Token)))

		_, err = svc.VerifyToken(ctx, res.Token)
		req.ErrorIs(err, apperrors.ErrTokenExpired)
		req.False(env.redis.Exists(cache.SessionKey(res.Token)))
	})

	t.Run("should still accept a session at its exact expiry instant", func(t *testing.T) {
		req := require.New(t)
		clock := newFakeClock()
		svc := env.sessionService(true)
		svc.now = clock.Now

		res, err := svc.CreateAnonymousSession(ctx, strPtr("Edge"))
		req.NoError(err)

		clock.Advance(24 * time.Hour)
		_, err = svc.VerifyToken(ctx, res.Token)
		req.NoError(err)
	})
}

func TestSessionService_VerifyToken_CacheMissPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("should restore an evicted session from the durable store", func(t *testing.T) {
		req := require.New(t)
		clock := newFakeClock()
		svc := env.sessionService(true)
		svc.now = clock.Now

		res, err := svc.CreateAnonymousSession(ctx, strPtr("Carol"))
		req.NoError(err)

		key := cache.SessionKey(res.Token)
		env.redis.Del(key)
		clock.Advance(time.Hour)

		summary, err := svc.VerifyToken(ctx, res.Token)
		req.NoError(err)
		req.Equal(res.Identity.ID, summary.ID)
		req.Equal("Carol", summary.DisplayName)

		req.True(env.redis.Exists(key))
		req.Equal(23*time.Hour, env.redis.TTL(key))
	})

	t.Run("should report an evicted and expired session as expired", func(t *testing.T) {
		req := require.New(t)
		clock := newFakeClock()
		svc := env.sessionService(true)
		svc.now = clock.Now

		res, err := svc.CreateAnonymousSession(ctx, strPtr("Dave"))
		req.NoError(err)
		env.redis.Del(cache.SessionKey(res.Token))
		clock.Advance(25 * time.Hour)

		_, err = svc.VerifyToken(ctx, res.Token)
		req.ErrorIs(err, apperrors.ErrTokenExpired)
		req.False(env.redis.Exists(cache.SessionKey(res.Token)))
	})

	t.Run("should treat a cache miss as invalid when read-through is off", func(t *testing.T) {
		req := require.New(t)
		svc := env.sessionService(false)

		res, err := svc.CreateAnonymousSession(ctx, strPtr("Erin"))
		req.NoError(err)
		env.redis.Del(cache.SessionKey(res.Token))

		_, err = svc.VerifyToken(ctx, res.Token)
		req.ErrorIs(err, apperrors.ErrInvalidToken)
	})
}

func TestSessionService_VerifyToken_StoreFailures(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	token, err := env.tokens.Generate("sess-1", "anon_1", now, now.Add(time.Hour))
	require.NoError(t, err)

	t.Run("should surface a cache outage as a persistence error", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		sessionCache := mocks.NewMockSessionCache(ctrl)
		svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{ReadThrough: true})

		sessionCache.EXPECT().Get(gomock.Any(), token).Return(nil, errors.New("i/o timeout")).Times(1)
		store.EXPECT().FindSessionByToken(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.VerifyToken(context.Background(), token)
		req.ErrorIs(err, apperrors.ErrPersistence)
	})

	t.Run("should surface a durable lookup failure as a persistence error", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		sessionCache := mocks.NewMockSessionCache(ctrl)
		svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{ReadThrough: true})

		sessionCache.EXPECT().Get(gomock.Any(), token).Return(nil, cache.ErrMiss).Times(1)
		store.EXPECT().FindSessionByToken(gomock.Any(), token).Return(nil, errors.New("too many connections")).Times(1)

		_, err := svc.VerifyToken(context.Background(), token)
		req.ErrorIs(err, apperrors.ErrPersistence)
	})

	t.Run("should succeed even if repopulating the cache fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		sessionCache := mocks.NewMockSessionCache(ctrl)
		svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{ReadThrough: true})

		sessionCache.EXPECT().Get(gomock.Any(), token).Return(nil, cache.ErrMiss).Times(1)
		store.EXPECT().FindSessionByToken(gomock.Any(), token).Return(&models.Session{
			ID:         "sess-1",
			IdentityID: "anon_1",
			Token:      token,
			ExpiresAt:  now.Add(time.Hour),
			CreatedAt:  now,
			Identity:   models.Identity{ID: "anon_1", DisplayName: "Guest1", IsAnonymous: true},
		}, nil).Times(1)
		sessionCache.EXPECT().Put(gomock.Any(), token, gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(1)

		summary, err := svc.VerifyToken(context.Background(), token)
		req.NoError(err)
		req.Equal("Guest1", summary.DisplayName)
	})

	t.Run("should map a missing durable row to invalid token", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		sessionCache := mocks.NewMockSessionCache(ctrl)
		svc := NewSessionService(store, sessionCache, env.tokens, env.log, SessionConfig{ReadThrough: true})

		sessionCache.EXPECT().Get(gomock.Any(), token).Return(nil, cache.ErrMiss).Times(1)
		store.EXPECT().FindSessionByToken(gomock.Any(), token).Return(nil, database.ErrNotFound).Times(1)

		_, err := svc.VerifyToken(context.Background(), token)
		req.ErrorIs(err, apperrors.ErrInvalidToken)
	})
}

func TestPlaceholderName(t *testing.T) {
	for i := 0; i < 200; i++ {
		require.Regexp(t, placeholderPattern, placeholderName())
	}
}

func TestSessionService_Profile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clock := newFakeClock()
	svc := env.sessionService(true)
	svc.now = clock.Now

	res, err := svc.CreateAnonymousSession(ctx, strPtr("Profiled"))
	require.NoError(t, err)

	t.Run("should count only unexpired sessions", func(t *testing.T) {
		req := require.New(t)

		profile, err := svc.Profile(ctx, res.Identity.ID)
		req.NoError(err)
		req.Equal("Profiled", profile.Identity.DisplayName)
		req.Equal(1, profile.ActiveSessions)

		clock.Advance(25 * time.Hour)
		profile, err = svc.Profile(ctx, res.Identity.ID)
		req.NoError(err)
		req.Equal(0, profile.ActiveSessions)
	})

	t.Run("should report an unknown identity", func(t *testing.T) {
		_, err := svc.Profile(ctx, "anon_missing")
		require.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = svc.GetIdentity(ctx, "anon_missing")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
