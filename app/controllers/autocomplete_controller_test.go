package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/app/responses"
	"github.com/Tisseo/mimirsbrunn/app/services"
	"github.com/Tisseo/mimirsbrunn/internal/search"
)

type stubBackend struct {
	lastQuery search.Query
	hits      []*models.Place
	err       error
}

func (sb *stubBackend) EnsureIndex(ctx context.Context, dataset string, settings search.IndexSettings) error {
	return nil
}

func (sb *stubBackend) BulkIndex(ctx context.Context, dataset string, addrs []*models.Addr) error {
	return nil
}

func (sb *stubBackend) AdminsByDataset(ctx context.Context, dataset string) ([]*models.Admin, error) {
	return nil, nil
}

func (sb *stubBackend) Autocomplete(ctx context.Context, q search.Query) ([]*models.Place, error) {
	sb.lastQuery = q
	return sb.hits, sb.err
}

func newTestRouter(sb *stubBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewAutocompleteService(sb, nil, 1500*time.Millisecond, 10*time.Second, zap.NewNop())
	ctrl := NewAutocompleteController(svc, zap.NewNop())

	router := gin.New()
	router.GET("/v1/autocomplete", ctrl.Autocomplete)
	router.POST("/v1/autocomplete", ctrl.AutocompleteWithShape)
	router.GET("/health", ctrl.Health)
	return router
}

func TestAutocompleteEndpoint(t *testing.T) {
	sb := &stubBackend{hits: []*models.Place{{
		ID: "street:751010000A", Type: "street", Name: "Rue de la Paix", Label: "Rue de la Paix (Paris)",
	}}}
	router := newTestRouter(sb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/autocomplete?q=rue+de+la", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp responses.AutocompleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "Rue de la Paix (Paris)", resp.Places[0].Label)
	assert.EqualValues(t, 10, sb.lastQuery.Limit)
}

func TestAutocompleteEndpointMissingQuery(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/autocomplete", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutocompleteEndpointHalfCoord(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/autocomplete?q=rue&lon=2.37", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp responses.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_PARAM", resp.Error)
	assert.Equal(t, models.ErrLonLatPair.Msg, resp.Message)
}

func TestAutocompleteEndpointWithShape(t *testing.T) {
	sb := &stubBackend{}
	router := newTestRouter(sb)

	body := `{"shape":{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[2.2,48.8],[2.5,48.8],[2.5,48.95],[2.2,48.8]]]}}}`
	req := httptest.NewRequest("POST", "/v1/autocomplete?q=rue", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sb.lastQuery.Shape, 4)
	assert.Equal(t, [2]float64{48.8, 2.2}, sb.lastQuery.Shape[0], "vertices arrive in (lat, lon) order")
}

func TestAutocompleteEndpointRejectsShape(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	body := `{"shape":{"type":"FeatureCollection"}}`
	req := httptest.NewRequest("POST", "/v1/autocomplete?q=rue", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp responses.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_SHAPE", resp.Error)
	assert.Equal(t, "only feature is supported", resp.Message)
}

func TestAutocompleteEndpointBackendDown(t *testing.T) {
	sb := &stubBackend{err: &models.BackendError{Err: context.DeadlineExceeded}}
	router := newTestRouter(sb)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/autocomplete?q=rue", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
