package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aoiconsole/internal/org/models"
	"aoiconsole/internal/org/service"
	"aoiconsole/internal/org/store"
	"aoiconsole/internal/platform/middleware"
	"aoiconsole/pkg/testutil"
)

func newTestHandler(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.NewIndex(mem, nil, logger), logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, mem
}

func seedTree(t *testing.T, mem *store.Memory, year int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.InsertDirectorate(ctx, models.Directorate{ID: 1, Name: "Operations", Year: year, Active: true}))
	require.NoError(t, mem.InsertSubdirectorate(ctx, models.Subdirectorate{ID: 2, Name: "Ops-Planning", Year: year, DirectorateID: 1, Active: true}))
	require.NoError(t, mem.InsertDivision(ctx, models.Division{ID: 3, Name: "Finance-Ops", Year: year, SubdirectorateID: 2, Active: true}))
}

func TestGetStructure(t *testing.T) {
	h, mem := newTestHandler(t)
	seedTree(t, mem, 2024)

	t.Run("requires a year", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/config/struktur-organisasi")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("returns the year snapshot", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/config/struktur-organisasi?year=2024")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Structure](t, rr)
		require.Len(t, got.Directorates, 1)
		require.Len(t, got.Subdirectorates, 1)
		require.Len(t, got.Divisions, 1)
		assert.Equal(t, "Operations", got.Directorates[0].Name)
	})

	t.Run("unseeded year is empty, not an error", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/config/struktur-organisasi?year=2019")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Structure](t, rr)
		assert.Empty(t, got.Directorates)
	})
}

func TestGetSelectionOptions(t *testing.T) {
	h, mem := newTestHandler(t)
	seedTree(t, mem, 2024)

	t.Run("nothing chosen disables both levels", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/config/struktur-organisasi/options?year=2024")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[service.SelectionOptions](t, rr)
		assert.Nil(t, got.Subdirectorates)
		assert.Nil(t, got.Divisions)
	})

	t.Run("chosen directorate offers subdirectorates", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/config/struktur-organisasi/options?year=2024&directorateId=1")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[service.SelectionOptions](t, rr)
		require.Len(t, got.Subdirectorates, 1)
		assert.Equal(t, "Ops-Planning", got.Subdirectorates[0].Name)
	})
}

func TestCreateNodeAuth(t *testing.T) {
	h, _ := newTestHandler(t)
	body := models.NewNode{Type: models.NodeDirectorate, Name: "IT", Year: 2024}

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/config/struktur-organisasi", body)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("non-elevated role is forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/config/struktur-organisasi", body)
		req = testutil.AsRole(req, "user", "Ops-Planning", "")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("both elevated spellings may write", func(t *testing.T) {
		for i, role := range []string{middleware.RoleSuperAdmin, middleware.RoleSuperAdminAlt} {
			node := models.NewNode{Type: models.NodeDirectorate, Name: body.Name, Year: 2024 + i}
			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/config/struktur-organisasi", node)
			req = testutil.AsRole(req, role, "", "")
			rr := testutil.DoRequest(h, req)
			testutil.AssertStatus(t, rr, http.StatusCreated)
		}
	})
}

func TestCreateNode(t *testing.T) {
	h, mem := newTestHandler(t)
	seedTree(t, mem, 2024)

	t.Run("creates under an existing parent", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/config/struktur-organisasi", models.NewNode{
			Type: models.NodeSubdirectorate, Name: "Ops-Reporting", Year: 2024, ParentID: 1,
		})
		req = testutil.AsRole(req, middleware.RoleSuperAdmin, "", "")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[map[string]int64](t, rr)
		assert.NotZero(t, (*got)["id"])
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/config/struktur-organisasi", models.NewNode{
			Type: models.NodeDirectorate, Name: "Operations", Year: 2024,
		})
		req = testutil.AsRole(req, middleware.RoleSuperAdmin, "", "")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})
}

func TestCreateNodesBatch(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/config/struktur-organisasi/batch", []models.NewNode{
		{Type: models.NodeDirectorate, Name: "A", Year: 2024},
		{Type: models.NodeDirectorate, Name: "B", Year: 2024},
		{Type: models.NodeDirectorate, Name: "A", Year: 2024},
	})
	req = testutil.AsRole(req, middleware.RoleSuperAdmin, "", "")
	rr := testutil.DoRequest(h, req)

	testutil.AssertStatus(t, rr, http.StatusConflict)
	got := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, float64(2), (*got)["created"])
}
