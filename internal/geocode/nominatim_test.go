package geocode_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/casadocarlos/matriculas/internal/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func newTestClient(serverURL string) *geocode.Client {
	return geocode.NewClient(serverURL, "matricula-app/1.0", "pt-PT", time.Second, testLogger())
}

func TestReverseGeocode_Success(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Rua Augusta, Lisboa, Portugal","place_id":12345}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	address := client.ReverseGeocode(context.Background(), 38.7139, -9.1394)

	require.NotNil(t, address)
	assert.Equal(t, "Rua Augusta, Lisboa, Portugal", *address)

	require.NotNil(t, captured)
	assert.Equal(t, "/reverse", captured.URL.Path)
	query := captured.URL.Query()
	assert.Equal(t, "jsonv2", query.Get("format"))
	assert.Equal(t, "38.7139", query.Get("lat"))
	assert.Equal(t, "-9.1394", query.Get("lon"))
	assert.Equal(t, "18", query.Get("zoom"))
	assert.Equal(t, "1", query.Get("addressdetails"))
	assert.Equal(t, "matricula-app/1.0", captured.Header.Get("User-Agent"))
	assert.Equal(t, "pt-PT", captured.Header.Get("Accept-Language"))
}

func TestReverseGeocode_Non200ReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.Nil(t, client.ReverseGeocode(context.Background(), 38.71, -9.14))
}

func TestReverseGeocode_UnparseableBodyReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.Nil(t, client.ReverseGeocode(context.Background(), 38.71, -9.14))
}

func TestReverseGeocode_EmptyDisplayNameReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.Nil(t, client.ReverseGeocode(context.Background(), 0, 0))
}

func TestReverseGeocode_TimeoutReturnsNilWithinBound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"display_name":"too late"}`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "matricula-app/1.0", "pt-PT", 50*time.Millisecond, testLogger())

	start := time.Now()
	address := client.ReverseGeocode(context.Background(), 38.71, -9.14)
	elapsed := time.Since(start)

	assert.Nil(t, address)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestReverseGeocode_UnreachableServerReturnsNil(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	assert.Nil(t, client.ReverseGeocode(context.Background(), 38.71, -9.14))
}
