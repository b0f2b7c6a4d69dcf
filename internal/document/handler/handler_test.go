package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aoiconsole/internal/document/models"
	"aoiconsole/internal/document/service"
	"aoiconsole/internal/document/store"
	"aoiconsole/pkg/requestcontext"
	"aoiconsole/pkg/testutil"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.New(store.NewMemory(), logger), logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func asUploader(req *http.Request) *http.Request {
	return testutil.WithUser(req, requestcontext.SessionUser{
		ID: 42, Role: "user", Subdirectorate: "Ops-Planning", Division: "Finance-Ops",
	})
}

func createDocument(t *testing.T, h http.Handler, name string, recommendationID int64) models.Document {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiDocuments", models.NewDocument{
		FileName: name, FileSize: 2048, RecommendationID: recommendationID,
		Kind: "RECOMMENDATION", Sequence: 1, FileType: "pdf", Year: 2024,
	})
	rr := testutil.DoRequest(h, asUploader(req))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return *testutil.UnmarshalResponse[models.Document](t, rr)
}

func TestDocumentEndpoints(t *testing.T) {
	h := newTestHandler(t)

	t.Run("create requires a session", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiDocuments", models.NewDocument{
			FileName: "report.pdf", RecommendationID: 9001, Year: 2024,
		})
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("create validates the payload", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/aoiDocuments", models.NewDocument{
			FileName: " ", RecommendationID: 9001, Year: 2024,
		})
		rr := testutil.DoRequest(h, asUploader(req))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	doc := createDocument(t, h, "report.pdf", 9001)
	assert.Regexp(t, `^aoi_\d+$`, doc.ID)
	assert.Equal(t, "42", doc.UploaderID)
	assert.Equal(t, "Ops-Planning", doc.UploaderSubdirectorate)

	t.Run("get returns the record", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiDocuments/"+doc.ID)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Document](t, rr)
		assert.Equal(t, "report.pdf", got.FileName)
	})

	t.Run("list filters by recommendation", func(t *testing.T) {
		createDocument(t, h, "other.xlsx", 9002)

		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiDocuments?recommendationId=9001")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[[]models.Document](t, rr)
		require.Len(t, *got, 1)
		assert.Equal(t, doc.ID, (*got)[0].ID)
	})

	t.Run("update replaces editable fields", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/aoiDocuments/"+doc.ID, models.DocumentUpdate{
			FileName: "report-final.pdf", FileType: "pdf",
		})
		rr := testutil.DoRequest(h, asUploader(req))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[models.Document](t, rr)
		assert.Equal(t, "report-final.pdf", got.FileName)
		assert.Equal(t, "active", got.Status)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		for range 2 {
			req := testutil.NewRequest(t, http.MethodDelete, "/api/aoiDocuments/"+doc.ID)
			rr := testutil.DoRequest(h, asUploader(req))
			testutil.AssertStatus(t, rr, http.StatusNoContent)
		}
	})

	t.Run("get after delete is not found", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/aoiDocuments/"+doc.ID)
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}
