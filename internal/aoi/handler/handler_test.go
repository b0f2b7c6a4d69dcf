package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aoiconsole/internal/aoi/models"
	"aoiconsole/internal/aoi/service"
	"aoiconsole/internal/aoi/store"
	"aoiconsole/internal/aoi/visibility"
	orgservice "aoiconsole/internal/org/service"
	orgstore "aoiconsole/internal/org/store"
	"aoiconsole/pkg/requestcontext"
	"aoiconsole/pkg/testutil"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	filter := visibility.NewFilter(orgservice.NewIndex(orgstore.NewMemory(), nil, logger), logger, nil)
	svc := service.New(store.NewMemory(), filter, nil, nil, logger, nil)
	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func asMember(req *http.Request) *http.Request {
	return testutil.WithUser(req, requestcontext.SessionUser{
		ID: 7, Role: "user", Subdirectorate: "Ops-Planning", Division: "Finance-Ops",
	})
}

func createTable(t *testing.T, h http.Handler, name string, year int) models.RecordTable {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiTables", models.NewTable{Name: name, Year: year})
	rr := testutil.DoRequest(h, asMember(req))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return *testutil.UnmarshalResponse[models.RecordTable](t, rr)
}

func TestTableEndpoints(t *testing.T) {
	h := newTestHandler(t)

	t.Run("create requires a session", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiTables", models.NewTable{Name: "X", Year: 2024})
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("create validates the payload", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiTables", models.NewTable{Name: " ", Year: 2024})
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	table := createTable(t, h, "Audit Findings", 2024)

	t.Run("list requires a year", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiTables")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("list returns the visible set", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiTables?year=2024")
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[[]models.RecordTable](t, rr)
		require.Len(t, *got, 1)
		assert.Equal(t, table.ID, (*got)[0].ID)
	})

	t.Run("anonymous list is an empty array, not null", func(t *testing.T) {
		scoped := models.NewTable{
			Name: "Scoped", Year: 2024,
			TargetLevel: models.TargetDivision, TargetDivision: "Elsewhere",
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiTables", scoped)
		testutil.AssertStatus(t, testutil.DoRequest(h, asMember(req)), http.StatusCreated)

		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/api/aoiTables?year=2030"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.JSONEq(t, "[]", string(testutil.ReadBody(t, rr)))
	})

	t.Run("legacy query-parameter placement still filters", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiTables?year=2024&role=user&subdirectorate=Ops-Planning&division=Elsewhere")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[[]models.RecordTable](t, rr)
		require.Len(t, *got, 2)
	})

	t.Run("get by id", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/aoiTables/%d", table.ID))
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.RecordTable](t, rr)
		assert.Equal(t, "Audit Findings", got.Name)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiTables/424242")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("update replaces fields", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPut, fmt.Sprintf("/api/aoiTables/%d", table.ID), models.TableUpdate{Name: "Renamed"})
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.RecordTable](t, rr)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("delete", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodDelete, fmt.Sprintf("/api/aoiTables/%d", table.ID))
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/aoiTables/%d", table.ID)))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestRecommendationEndpoints(t *testing.T) {
	h := newTestHandler(t)
	table := createTable(t, h, "Findings", 2024)

	newRec := func(content string) models.NewRecommendation {
		return models.NewRecommendation{TableID: table.ID, Kind: models.KindRecommendation, Content: content}
	}

	t.Run("create requires a session", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiRecommendations", newRec("X"))
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("blank content is rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiRecommendations", newRec("  "))
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	var created models.Recommendation
	t.Run("create assigns the sequence", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiRecommendations", newRec("Improve audit cadence"))
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		created = *testutil.UnmarshalResponse[models.Recommendation](t, rr)
		assert.Equal(t, 1, created.Sequence)
		assert.Equal(t, models.UrgencyNone, created.Urgency)
	})

	t.Run("list by table", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, fmt.Sprintf("/api/aoiRecommendations?tableId=%d", table.ID))
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[[]models.Recommendation](t, rr)
		require.Len(t, *got, 1)
	})

	t.Run("list requires tableId", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiRecommendations")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("update", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPut, fmt.Sprintf("/api/aoiRecommendations/%d", created.ID),
			models.RecommendationUpdate{Content: "Tightened wording", Urgency: models.UrgencyMedium})
		rr := testutil.DoRequest(h, asMember(req))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Recommendation](t, rr)
		assert.Equal(t, "Tightened wording", got.Content)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		url := fmt.Sprintf("/api/aoiRecommendations/%d", created.ID)
		rr := testutil.DoRequest(h, asMember(testutil.NewRequest(t, http.MethodDelete, url)))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.DoRequest(h, asMember(testutil.NewRequest(t, http.MethodDelete, url)))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})
}
