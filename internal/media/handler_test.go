package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunescout/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()

	repo := newTestRepo(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/media"))
	return router, repo
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)

	_, err := repo.UpsertAll(context.Background(), []models.MediaItem{
		testItem(1, "Hello"), testItem(2, "Goodbye"),
	})
	require.NoError(t, err)

	w := doGet(router, "/media?q=hello")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total  int                `json:"total"`
		Limit  int                `json:"limit"`
		Offset int                `json:"offset"`
		Items  []models.MediaItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 20, resp.Limit)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Hello", resp.Items[0].TrackName)
}

func TestGetByIDEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)

	_, err := repo.UpsertAll(context.Background(), []models.MediaItem{testItem(42, "Answer")})
	require.NoError(t, err)

	w := doGet(router, "/media/42")
	require.Equal(t, http.StatusOK, w.Code)

	var item models.MediaItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, int64(42), item.TrackID)

	w = doGet(router, "/media/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(router, "/media/not-a-number")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
