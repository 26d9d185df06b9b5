package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/pkg/response"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := NewHandler(content.NewService(content.NewMemoryRepository(), 0))
	RegisterRoutes(r.Group("/v1"), h, func(c *gin.Context) { c.Next() })
	return r
}

func executeRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminContentCRUD(t *testing.T) {
	r := newTestRouter(t)
	var eventID string

	t.Run("Create Event: Success With Default Venue", func(t *testing.T) {
		date := time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)
		payload := CreateBody{
			Title:   "Barangay Fiesta",
			Excerpt: "Annual celebration",
			Content: "Join us at the plaza.",
			Date:    &date,
		}

		w := executeRequest(r, "POST", "/v1/admin/events", payload)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp ItemResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "events", resp.Collection)
		assert.Equal(t, content.DefaultVenue, resp.Venue)
		require.NotNil(t, resp.Date)
		assert.True(t, date.Equal(*resp.Date))
		assert.Equal(t, resp.CreatedAt, resp.UpdatedAt)

		eventID = resp.ID
	})

	t.Run("Create News: Missing Fields Reported Per Field", func(t *testing.T) {
		w := executeRequest(r, "POST", "/v1/admin/news", CreateBody{Title: "   ", Excerpt: "e", Content: "c"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "title")
		assert.Contains(t, resp.Fields, "author")
		assert.NotContains(t, resp.Fields, "content")
	})

	t.Run("Get: Success", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/admin/events/"+eventID, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Get: Wrong Collection Is Not Found", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/admin/news/"+eventID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Get: Malformed Id", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/admin/events/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update: Partial Patch Keeps Other Fields", func(t *testing.T) {
		venue := "Covered Court"
		w := executeRequest(r, "PATCH", "/v1/admin/events/"+eventID, UpdateBody{Venue: &venue})
		require.Equal(t, http.StatusOK, w.Code)

		var resp ItemResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Covered Court", resp.Venue)
		assert.Equal(t, "Barangay Fiesta", resp.Title)
		assert.False(t, resp.UpdatedAt.Before(resp.CreatedAt))
	})

	t.Run("Update: Blanking Required Field Rejected", func(t *testing.T) {
		empty := ""
		w := executeRequest(r, "PATCH", "/v1/admin/events/"+eventID, UpdateBody{Title: &empty})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List: Sort Parameters Validated", func(t *testing.T) {
		w := executeRequest(r, "GET", "/v1/admin/events?sort_by=password", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest(r, "GET", "/v1/admin/news?sort_by=date", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "news has no date")

		w = executeRequest(r, "GET", "/v1/admin/events?sort_by=title&order=desc", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Delete: Then List Omits Item", func(t *testing.T) {
		w := executeRequest(r, "DELETE", "/v1/admin/events/"+eventID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest(r, "GET", "/v1/admin/events", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp response.ListResponse[ItemResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotNil(t, resp.Items)
		assert.Empty(t, resp.Items)
	})

	t.Run("Delete: Second Delete Is Not Found", func(t *testing.T) {
		w := executeRequest(r, "DELETE", "/v1/admin/events/"+eventID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminServicesRequirements(t *testing.T) {
	r := newTestRouter(t)

	payload := CreateBody{
		Title:        "Barangay Clearance",
		Excerpt:      "Clearance for residents",
		Content:      "Bring the following.",
		Requirements: []string{"Valid ID", "", "Proof of residency"},
	}

	w := executeRequest(r, "POST", "/v1/admin/services", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Valid ID", "Proof of residency"}, resp.Requirements)
	assert.Empty(t, resp.Author, "news-only fields are dropped")
}
