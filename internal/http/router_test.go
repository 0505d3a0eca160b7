package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/domain"
	"studyhub/internal/http/handlers"
	"studyhub/internal/middleware"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, domain.DiagramRequest) (domain.DiagramResult, error) {
	return domain.DiagramResult{ImageURL: "https://img.example/x.png"}, nil
}

func (stubGenerator) Budget() time.Duration { return 2 * time.Second }

func newTestRouter() http.Handler {
	return NewRouter(handlers.NewApp(stubGenerator{}, nil), RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})
}

func TestRouterServesDiagrams(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/diagrams", "application/json", strings.NewReader(`{"topic":"volcanoes"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRouterRejectsNonJSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/diagrams", strings.NewReader("topic=volcanoes"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouterHealthAndUnknownRoutes(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/diagrams", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
