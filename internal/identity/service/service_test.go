package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aoiconsole/internal/identity/models"
	"aoiconsole/internal/identity/store"
	"aoiconsole/internal/identity/token"
	dErrors "aoiconsole/pkg/domain-errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	tokens := token.NewManager("test-signing-key", time.Hour)
	return New(store.NewMemory(), tokens, bcrypt.MinCost, logger)
}

func createUser(t *testing.T, svc *Service, email, password string) models.User {
	t.Helper()
	u, err := svc.Create(context.Background(), models.NewUser{
		Email: email, Password: password, Role: "user",
		Subdirectorate: "Ops-Planning", Division: "Finance-Ops",
	})
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createUser(t, svc, "ops@example.com", "s3cret")

	t.Run("valid credentials issue a session", func(t *testing.T) {
		session, err := svc.Login(ctx, models.Credentials{Email: "ops@example.com", Password: "s3cret"})
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "ops@example.com", session.User.Email)

		got, err := svc.tokens.ValidateToken(session.Token)
		require.NoError(t, err)
		assert.Equal(t, "Ops-Planning", got.Subdirectorate)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, models.Credentials{Email: "ops@example.com", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, models.Credentials{Email: "nobody@example.com", Password: "s3cret"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("missing fields are a bad request", func(t *testing.T) {
		_, err := svc.Login(ctx, models.Credentials{Email: "ops@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestCreateUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("requires email and password", func(t *testing.T) {
		_, err := svc.Create(ctx, models.NewUser{Email: "x@example.com"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("never stores the plaintext password", func(t *testing.T) {
		u := createUser(t, svc, "a@example.com", "plaintext")
		assert.NotEqual(t, "plaintext", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("plaintext")))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		createUser(t, svc, "dup@example.com", "pw")
		_, err := svc.Create(ctx, models.NewUser{Email: "dup@example.com", Password: "pw2"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestUpdateUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := createUser(t, svc, "move@example.com", "pw")

	t.Run("re-points organizational placement", func(t *testing.T) {
		got, err := svc.Update(ctx, u.ID, models.UserUpdate{
			Name: "Moved", Subdirectorate: "Other-Unit", Division: "Other-Div",
		})
		require.NoError(t, err)
		assert.Equal(t, "Other-Unit", got.Subdirectorate)
		assert.Equal(t, u.PasswordHash, got.PasswordHash, "blank password keeps the hash")
	})

	t.Run("non-blank password is rehashed", func(t *testing.T) {
		got, err := svc.Update(ctx, u.ID, models.UserUpdate{Password: "newpw"})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("newpw")))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, 424242, models.UserUpdate{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestDeleteUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := createUser(t, svc, "gone@example.com", "pw")

	require.NoError(t, svc.Delete(ctx, u.ID))
	require.NoError(t, svc.Delete(ctx, u.ID), "second delete is a no-op")

	_, err := svc.Get(ctx, u.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
