package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/cache"
	"github.com/thereayou/anonchat/internal/database"
	"github.com/thereayou/anonchat/internal/models"
	"github.com/thereayou/anonchat/pkg/auth"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	identityIDPrefix  = "anon_"
)

var placeholderNames = []string{"Guest", "Anonymous", "Unknown", "Visitor", "User"}

type SessionConfig struct {
	TTL time.Duration
	// ReadThrough включает чтение из БД при промахе кеша с восстановлением записи
	ReadThrough bool
}

type IdentitySummary struct {
	ID          string
	DisplayName string
	IsAnonymous bool
}

// Profile identity вместе с числом неистёкших сессий
type Profile struct {
	Identity       models.Identity
	ActiveSessions int
}

type SessionResult struct {
	Identity  models.Identity
	Token     string
	ExpiresAt time.Time
}

type SessionService struct {
	store  SessionStore
	cache  SessionCache
	tokens *auth.JWTManager
	log    *slog.Logger
	cfg    SessionConfig
	now    func() time.Time
}

func NewSessionService(store SessionStore, cache SessionCache, tokens *auth.JWTManager, log *slog.Logger, cfg SessionConfig) *SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &SessionService{
		store:  store,
		cache:  cache,
		tokens: tokens,
		log:    log,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateAnonymousSession создаёт identity и сессию, затем кладёт сессию в кеш
func (s *SessionService) CreateAnonymousSession(ctx context.Context, nickname *string) (*SessionResult, error) {
	displayName, err := resolveDisplayName(nickname)
	if err != nil {
		return nil, err
	}

	now := s.now()
	identity := &models.Identity{
		ID:           identityIDPrefix + uuid.NewString(),
		DisplayName:  displayName,
		IsAnonymous:  true,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	session := &models.Session{
		ID:         uuid.NewString(),
		IdentityID: identity.ID,
		ExpiresAt:  now.Add(s.cfg.TTL),
		CreatedAt:  now,
	}

	token, err := s.tokens.Generate(session.ID, identity.ID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return nil, apperrors.Persistence("failed to create anonymous user", fmt.Errorf("mint token: %w", err))
	}
	session.Token = token

	if err := s.store.CreateIdentityWithSession(ctx, identity, session); err != nil {
		s.log.Error("anonymous login: durable write failed", "identity_id", identity.ID, "error", err)
		return nil, apperrors.Persistence("failed to create anonymous user", err)
	}

	entry := cache.SessionEntry{
		IdentityID:  identity.ID,
		DisplayName: identity.DisplayName,
		IsAnonymous: identity.IsAnonymous,
		ExpiresAt:   session.ExpiresAt.UnixMilli(),
	}
	if err := s.cache.Put(ctx, token, entry, session.ExpiresAt.Sub(now)); err != nil {
		// строки в БД остаются историей, токен клиенту не отдаём
		s.log.Error("anonymous login: cache mirror failed", "identity_id", identity.ID, "session_id", session.ID, "error", err)
		return nil, apperrors.Persistence("failed to create anonymous user", err)
	}

	s.log.Info("anonymous session created", "identity_id", identity.ID, "session_id", session.ID)

	return &SessionResult{
		Identity:  *identity,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// VerifyToken проверяет токен по кешу; при промахе, если разрешено, читает БД
func (s *SessionService) VerifyToken(ctx context.Context, token string) (*IdentitySummary, error) {
	if token == "" {
		return nil, apperrors.ErrNoToken
	}
	if _, err := s.tokens.Verify(token); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	entry, err := s.cache.Get(ctx, token)
	switch {
	case err == nil:
		if entry.Expiry().Before(s.now()) {
			if err := s.cache.Delete(ctx, token); err != nil {
				s.log.Warn("verify: failed to drop expired session", "error", err)
			}
			return nil, apperrors.ErrTokenExpired
		}
		return &IdentitySummary{
			ID:          entry.IdentityID,
			DisplayName: entry.DisplayName,
			IsAnonymous: entry.IsAnonymous,
		}, nil

	case errors.Is(err, cache.ErrMiss):
		if !s.cfg.ReadThrough {
			return nil, apperrors.ErrInvalidToken
		}
		return s.readThrough(ctx, token)

	default:
		s.log.Error("verify: cache unavailable", "error", err)
		return nil, apperrors.Persistence("token verification failed", err)
	}
}

func (s *SessionService) readThrough(ctx context.Context, token string) (*IdentitySummary, error) {
	session, err := s.store.FindSessionByToken(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.ErrInvalidToken
	}
	if err != nil {
		s.log.Error("verify: durable lookup failed", "error", err)
		return nil, apperrors.Persistence("token verification failed", err)
	}

	now := s.now()
	if session.Expired(now) {
		return nil, apperrors.ErrTokenExpired
	}

	entry := cache.SessionEntry{
		IdentityID:  session.IdentityID,
		DisplayName: session.Identity.DisplayName,
		IsAnonymous: session.Identity.IsAnonymous,
		ExpiresAt:   session.ExpiresAt.UnixMilli(),
	}
	if err := s.cache.Put(ctx, token, entry, session.ExpiresAt.Sub(now)); err != nil {
		s.log.Warn("verify: cache repopulation failed", "session_id", session.ID, "error", err)
	} else {
		s.log.Debug("verify: session restored into cache", "session_id", session.ID)
	}

	return &IdentitySummary{
		ID:          session.IdentityID,
		DisplayName: session.Identity.DisplayName,
		IsAnonymous: session.Identity.IsAnonymous,
	}, nil
}

func (s *SessionService) GetIdentity(ctx context.Context, id string) (*models.Identity, error) {
	identity, err := s.store.GetIdentity(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to get user", err)
	}
	return identity, nil
}

// Profile возвращает identity и количество её действующих сессий
func (s *SessionService) Profile(ctx context.Context, identityID string) (*Profile, error) {
	identity, err := s.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.ListIdentitySessions(ctx, identityID)
	if err != nil {
		return nil, apperrors.Persistence("failed to get user", err)
	}

	now := s.now()
	active := lo.CountBy(sessions, func(session models.Session) bool {
		return !session.Expired(now)
	})
	return &Profile{Identity: *identity, ActiveSessions: active}, nil
}

func resolveDisplayName(nickname *string) (string, error) {
	if nickname == nil {
		return placeholderName(), nil
	}
	if !validNickname(*nickname) {
		return "", apperrors.Validation("nickname must be 1-20 characters")
	}
	return *nickname, nil
}

func placeholderName() string {
	base := placeholderNames[rand.IntN(len(placeholderNames))]
	return fmt.Sprintf("%s%d", base, rand.IntN(10000))
}
