package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/anonchat/internal/models"
)

func TestCreateIdentityWithSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("should persist both rows and find the session by token", func(t *testing.T) {
		req := require.New(t)
		identity := seedIdentity(t, db, "Guest1", now)

		sessions, err := db.ListIdentitySessions(ctx, identity.ID)
		req.NoError(err)
		req.Len(sessions, 1)

		found, err := db.FindSessionByToken(ctx, sessions[0].Token)
		req.NoError(err)
		req.Equal(identity.ID, found.IdentityID)
		req.Equal("Guest1", found.Identity.DisplayName)
		req.True(found.Identity.IsAnonymous)
	})

	t.Run("should roll back the identity when the session insert fails", func(t *testing.T) {
		req := require.New(t)
		existing := seedIdentity(t, db, "Guest2", now)
		sessions, err := db.ListIdentitySessions(ctx, existing.ID)
		req.NoError(err)

		identity := &models.Identity{
			ID:           "anon_" + uuid.NewString(),
			DisplayName:  "Dup",
			IsAnonymous:  true,
			CreatedAt:    now,
			LastActiveAt: now,
		}
		session := &models.Session{
			ID:         uuid.NewString(),
			IdentityID: identity.ID,
			Token:      sessions[0].Token,
			ExpiresAt:  now.Add(time.Hour),
			CreatedAt:  now,
		}

		err = db.CreateIdentityWithSession(ctx, identity, session)
		req.Error(err)

		_, err = db.GetIdentity(ctx, identity.ID)
		req.True(errors.Is(err, ErrNotFound))
		exists, err := db.IdentityExists(ctx, identity.ID)
		req.NoError(err)
		req.False(exists)
	})

	t.Run("should report a missing token as not found", func(t *testing.T) {
		_, err := db.FindSessionByToken(ctx, "never-issued")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
