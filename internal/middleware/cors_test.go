package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casadocarlos/matriculas/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func corsHandler(config *middleware.CORSConfig) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.CORS(config)(next)
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	handler := corsHandler(middleware.DefaultCORSConfig())

	req := httptest.NewRequest(http.MethodGet, "/matriculas", nil)
	req.Header.Set("Origin", "https://matriculas.casadocarlos.info")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORS_ExplicitOriginList(t *testing.T) {
	config := middleware.DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://matriculas.casadocarlos.info"}
	handler := corsHandler(config)

	req := httptest.NewRequest(http.MethodGet, "/matriculas", nil)
	req.Header.Set("Origin", "https://matriculas.casadocarlos.info")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://matriculas.casadocarlos.info", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/matriculas", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})
	handler := middleware.CORS(middleware.DefaultCORSConfig())(next)

	req := httptest.NewRequest(http.MethodOptions, "/matriculas", nil)
	req.Header.Set("Origin", "https://matriculas.casadocarlos.info")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, reached)
}
