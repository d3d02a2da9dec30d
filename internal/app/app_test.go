package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	application, err := NewApplication(fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>dashboard</html>")},
	})
	require.NoError(t, err)
	return application
}

func TestApplicationRoutes(t *testing.T) {
	application := newTestApplication(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"readiness", http.MethodGet, "/api/health/ready", http.StatusOK},
		{"liveness", http.MethodGet, "/api/health/live", http.StatusOK},
		{"version", http.MethodGet, "/api/version", http.StatusOK},
		{"prometheus", http.MethodGet, "/metrics", http.StatusOK},
		{"frontend index", http.MethodGet, "/", http.StatusOK},
		{"frontend fallback", http.MethodGet, "/some/client/route", http.StatusOK},
		{"unknown dataset", http.MethodGet, "/api/datasets/00000000000000000000000000000000", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			application.Router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestApplicationSecurityHeaders(t *testing.T) {
	application := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApplicationServerConfig(t *testing.T) {
	application := newTestApplication(t)

	require.NotNil(t, application.Server)
	assert.Equal(t, ":8080", application.Server.Addr)
	assert.NotNil(t, application.Server.Handler)
}
