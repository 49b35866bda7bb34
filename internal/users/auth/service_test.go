// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/platform/sec"
	"github.com/hikawa/tankobon/internal/users/auth"
)

// # Test Doubles

// fakeUserRepository is an in-memory [auth.UserRepository].
type fakeUserRepository struct {
	users map[string]*auth.User // by id
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

// fakeSessionRepository is an in-memory [auth.SessionRepository] keyed by token hash.
type fakeSessionRepository struct {
	sessions map[string]*auth.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepository) Create(_ context.Context, tokenHash string, session *auth.Session) error {
	r.sessions[tokenHash] = session
	return nil
}

func (r *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	if session, ok := r.sessions[tokenHash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session")
}

func (r *fakeSessionRepository) Delete(_ context.Context, tokenHash string) error {
	delete(r.sessions, tokenHash)
	return nil
}

// fakeTokenProvider mints predictable access tokens.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

// # Helpers

func newTestStack() (*auth.Service, *fakeUserRepository, *fakeSessionRepository) {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	return auth.NewService(users, sessions, fakeTokenProvider{}), users, sessions
}

func registerTestUser(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username:    "guts",
		Email:       "guts@tankobon.shop",
		Password:    "band-of-the-hawk",
		DisplayName: "Guts",
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register covers enrollment and identity conflicts.
*/
func TestService_Register(t *testing.T) {
	t.Run("creates_member_account", func(t *testing.T) {
		service, users, _ := newTestStack()

		user := registerTestUser(t, service)

		assert.Len(t, user.ID, 36)
		assert.Equal(t, sec.RoleMember, user.Role)
		assert.NotEqual(t, "band-of-the-hawk", user.PasswordHash, "password must be hashed")
		assert.True(t, sec.CheckPasswordHash("band-of-the-hawk", user.PasswordHash))
		assert.Len(t, users.users, 1)
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		service, _, _ := newTestStack()
		registerTestUser(t, service)

		_, err := service.Register(context.Background(), auth.RegisterInput{
			Username: "different",
			Email:    "guts@tankobon.shop",
			Password: "irrelevant-pass",
		})

		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("duplicate_username_conflicts", func(t *testing.T) {
		service, _, _ := newTestStack()
		registerTestUser(t, service)

		_, err := service.Register(context.Background(), auth.RegisterInput{
			Username: "guts",
			Email:    "other@tankobon.shop",
			Password: "irrelevant-pass",
		})

		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})
}

// # Login & Sessions

/*
TestService_Login covers credential checks and session issuance.
*/
func TestService_Login(t *testing.T) {
	t.Run("valid_credentials_by_email", func(t *testing.T) {
		service, _, sessions := newTestStack()
		user := registerTestUser(t, service)

		session, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "guts@tankobon.shop",
			Password: "band-of-the-hawk",
		})

		require.NoError(t, err)
		assert.Equal(t, "jwt-for-"+user.ID, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Len(t, sessions.sessions, 1)

		// Only the hash of the refresh token is used as the session key.
		_, stored := sessions.sessions[sec.HashToken(session.RefreshToken)]
		assert.True(t, stored)
	})

	t.Run("valid_credentials_by_username", func(t *testing.T) {
		service, _, _ := newTestStack()
		registerTestUser(t, service)

		_, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "guts",
			Password: "band-of-the-hawk",
		})
		require.NoError(t, err)
	})

	t.Run("wrong_password", func(t *testing.T) {
		service, _, _ := newTestStack()
		registerTestUser(t, service)

		session, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "guts",
			Password: "wrong-password",
		})

		assert.Nil(t, session)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("unknown_user", func(t *testing.T) {
		service, _, _ := newTestStack()

		session, err := service.Login(context.Background(), auth.LoginInput{
			Login:    "nobody",
			Password: "irrelevant-pass",
		})

		assert.Nil(t, session)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

/*
TestService_RefreshSession verifies refresh-token rotation semantics.
*/
func TestService_RefreshSession(t *testing.T) {
	service, _, sessions := newTestStack()
	registerTestUser(t, service)

	original, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "guts",
		Password: "band-of-the-hawk",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), original.RefreshToken, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	assert.NotEqual(t, original.RefreshToken, rotated.RefreshToken, "refresh token must rotate")
	assert.Len(t, sessions.sessions, 1, "old session is revoked on rotation")

	// Replaying the consumed token must fail.
	replayed, err := service.RefreshSession(context.Background(), original.RefreshToken, "test-agent", "127.0.0.1")
	assert.Nil(t, replayed)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_Logout checks revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	service, _, sessions := newTestStack()
	registerTestUser(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "guts",
		Password: "band-of-the-hawk",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.Empty(t, sessions.sessions)

	// Logging out twice is fine.
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
}

// # Password Management

/*
TestService_ChangePassword verifies the current-password gate.
*/
func TestService_ChangePassword(t *testing.T) {
	service, users, _ := newTestStack()
	user := registerTestUser(t, service)

	t.Run("wrong_current_password", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), user.ID, "wrong", "new-password-123")
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("replaces_hash", func(t *testing.T) {
		err := service.ChangePassword(context.Background(), user.ID, "band-of-the-hawk", "new-password-123")
		require.NoError(t, err)

		assert.True(t, sec.CheckPasswordHash("new-password-123", users.users[user.ID].PasswordHash))
	})
}
