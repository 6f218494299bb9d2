package auth_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tongpin/user-service/auth"
)

func seedUser(t *testing.T, repo auth.RepositoryManager, phone, nickname string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &auth.User{
		Phone:        phone,
		PasswordHash: hash,
		Nickname:     nickname,
	})
	require.NoError(t, err)
	return user
}

func TestUsersRegisterDefaults(t *testing.T) {
	repo := auth.NewRepositoryManager(setupTestDB(t))

	user := seedUser(t, repo, "+15550001", "alice")

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, auth.UserStatusActive, user.Status)
}

func TestUsersGetByPhone(t *testing.T) {
	repo := auth.NewRepositoryManager(setupTestDB(t))
	ctx := context.Background()

	seeded := seedUser(t, repo, "+15550001", "alice")

	t.Run("Found", func(t *testing.T) {
		user, err := repo.Users().GetByPhone(ctx, "+15550001")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
	})

	t.Run("Trims whitespace", func(t *testing.T) {
		user, err := repo.Users().GetByPhone(ctx, "  +15550001  ")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.Users().GetByPhone(ctx, "+15559999")
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersGetByID(t *testing.T) {
	repo := auth.NewRepositoryManager(setupTestDB(t))
	ctx := context.Background()

	seeded := seedUser(t, repo, "+15550001", "alice")

	user, err := repo.Users().GetByUserID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "+15550001", user.Phone)

	_, err = repo.Users().GetByUserID(ctx, uuid.New())
	assert.True(t, goerrors.IsNotFound(err))
}

func TestUsersSearchByNickname(t *testing.T) {
	repo := auth.NewRepositoryManager(setupTestDB(t))
	ctx := context.Background()

	seedUser(t, repo, "+15550001", "alice")
	seedUser(t, repo, "+15550002", "alicia")
	seedUser(t, repo, "+15550003", "bob")

	t.Run("Partial match with total", func(t *testing.T) {
		users, total, err := repo.Users().SearchByNickname(ctx, "ali", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Nickname)
		assert.Equal(t, "alicia", users[1].Nickname)
	})

	t.Run("Pagination window", func(t *testing.T) {
		users, total, err := repo.Users().SearchByNickname(ctx, "ali", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, users, 1)
		assert.Equal(t, "alicia", users[0].Nickname)
	})

	t.Run("No match", func(t *testing.T) {
		users, total, err := repo.Users().SearchByNickname(ctx, "zed", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, users)
	})
}

func TestUsersLoginBookkeeping(t *testing.T) {
	repo := auth.NewRepositoryManager(setupTestDB(t))
	ctx := context.Background()

	seeded := seedUser(t, repo, "+15550001", "alice")

	require.NoError(t, repo.Users().TrackAttemptedLogin(ctx, seeded))
	require.NoError(t, repo.Users().TrackAttemptedLogin(ctx, &auth.User{ID: seeded.ID, LoginAttempts: 1}))

	user, err := repo.Users().GetByUserID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, user.LoginAttempts)
	assert.NotNil(t, user.LoginAttemptAt)

	require.NoError(t, repo.Users().TrackSuccessfulLogin(ctx, user))

	user, err = repo.Users().GetByUserID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.Nil(t, user.LoginAttemptAt)
	assert.NotNil(t, user.LoggedInAt)
}

func TestUserSanitized(t *testing.T) {
	user := seedUser(t, auth.NewRepositoryManager(setupTestDB(t)), "+15550001", "alice")

	clean := user.Sanitized()
	assert.Empty(t, clean.PasswordHash)
	assert.Equal(t, user.ID, clean.ID)
	assert.Equal(t, "alice", clean.Nickname)

	// the original record is untouched
	assert.NotEmpty(t, user.PasswordHash)
}
