package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casadocarlos/matriculas/internal/models"
	"github.com/casadocarlos/matriculas/internal/services"
	pkghttp "github.com/casadocarlos/matriculas/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks status code and the error message in the body
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error message mismatch")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error)
}

func (m *MockAuthService) Login(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, &models.CredentialsError{AttemptsRemaining: 4}
	}
	return m.LoginFunc(ctx, clientKey, username, password)
}

// MockPlateService implements PlateServiceInterface for testing
type MockPlateService struct {
	ListFunc     func(ctx context.Context) ([]*models.Plate, error)
	CreateFunc   func(ctx context.Context, input services.PlateInput) (*models.Plate, error)
	UpdateFunc   func(ctx context.Context, oldID string, input services.PlateInput) (*models.Plate, error)
	DeleteFunc   func(ctx context.Context, id string) error
	MarkSeenFunc func(ctx context.Context, id string, lat, lon models.Coordinate) (*models.Plate, error)
	HistoryFunc  func(ctx context.Context, id string) ([]*models.SeenEvent, error)
}

func (m *MockPlateService) List(ctx context.Context) ([]*models.Plate, error) {
	if m.ListFunc == nil {
		return []*models.Plate{}, nil
	}
	return m.ListFunc(ctx)
}

func (m *MockPlateService) Create(ctx context.Context, input services.PlateInput) (*models.Plate, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrConflict
	}
	return m.CreateFunc(ctx, input)
}

func (m *MockPlateService) Update(ctx context.Context, oldID string, input services.PlateInput) (*models.Plate, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, oldID, input)
}

func (m *MockPlateService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *MockPlateService) MarkSeen(ctx context.Context, id string, lat, lon models.Coordinate) (*models.Plate, error) {
	if m.MarkSeenFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.MarkSeenFunc(ctx, id, lat, lon)
}

func (m *MockPlateService) History(ctx context.Context, id string) ([]*models.SeenEvent, error) {
	if m.HistoryFunc == nil {
		return []*models.SeenEvent{}, nil
	}
	return m.HistoryFunc(ctx, id)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
// This helper allows tests to set URL parameters that would normally be extracted
// by the Chi router from the URL path.
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
