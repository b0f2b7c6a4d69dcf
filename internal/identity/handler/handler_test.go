package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aoiconsole/internal/identity/models"
	"aoiconsole/internal/identity/service"
	"aoiconsole/internal/identity/store"
	"aoiconsole/internal/identity/token"
	"aoiconsole/internal/platform/middleware"
	"aoiconsole/pkg/testutil"
)

// newTestHandler wires the real token manager through the session
// middleware so the login token round-trips the same way it does in
// production.
func newTestHandler(t *testing.T) (http.Handler, *service.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	tokens := token.NewManager("test-signing-key", time.Hour)
	svc := service.New(store.NewMemory(), tokens, bcrypt.MinCost, logger)

	r := chi.NewRouter()
	r.Use(middleware.SessionUser(tokens, logger))
	New(svc, logger).Register(r)
	return r, svc
}

func seedUser(t *testing.T, svc *service.Service, email, password, role string) models.User {
	t.Helper()
	u, err := svc.Create(context.Background(), models.NewUser{
		Email: email, Password: password, Role: role,
		Subdirectorate: "Ops-Planning", Division: "Finance-Ops",
	})
	require.NoError(t, err)
	return u
}

func TestLoginAndMe(t *testing.T) {
	h, svc := newTestHandler(t)
	seedUser(t, svc, "ops@example.com", "s3cret", "user")

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/login",
			models.Credentials{Email: "ops@example.com", Password: "nope"})
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/login",
		models.Credentials{Email: "ops@example.com", Password: "s3cret"})
	rr := testutil.DoRequest(h, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	session := testutil.UnmarshalResponse[service.Session](t, rr)
	require.NotEmpty(t, session.Token)

	t.Run("token round-trips through /api/me", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/me")
		req.Header.Set("Authorization", "Bearer "+session.Token)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, "Ops-Planning", (*got)["subdirectorate"])
	})

	t.Run("me without a token is unauthorized", func(t *testing.T) {
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/api/me"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("a mangled token proceeds anonymously and is rejected", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/me")
		req.Header.Set("Authorization", "Bearer garbage")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestUserAdminEndpoints(t *testing.T) {
	h, svc := newTestHandler(t)
	seedUser(t, svc, "root@example.com", "rootpw", "superadmin")
	member := seedUser(t, svc, "member@example.com", "pw", "user")

	login := func(t *testing.T, email, password string) string {
		t.Helper()
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/login",
			models.Credentials{Email: email, Password: password})
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		return testutil.UnmarshalResponse[service.Session](t, rr).Token
	}
	adminToken := login(t, "root@example.com", "rootpw")
	memberToken := login(t, "member@example.com", "pw")

	t.Run("listing is admin-only", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/users")
		req.Header.Set("Authorization", "Bearer "+memberToken)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("admin lists accounts without hashes", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/users")
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.NotContains(t, string(testutil.ReadBody(t, rr)), "passwordHash")
	})

	t.Run("admin creates an account", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users",
			models.NewUser{Email: "new@example.com", Password: "pw", Role: "user"})
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/users",
			models.NewUser{Email: "member@example.com", Password: "pw"})
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("admin deletes an account", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodDelete, "/api/users/"+itoa(member.ID))
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
