package services_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/casadocarlos/matriculas/internal/geocode"
	"github.com/casadocarlos/matriculas/internal/models"
	"github.com/casadocarlos/matriculas/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markSeenCall struct {
	id      string
	lat     *float64
	lon     *float64
	address *string
}

// stubPlateRepo records MarkSeen calls and simulates the append semantics:
// one history event per successful call.
type stubPlateRepo struct {
	plates    map[string]*models.Plate
	calls     []markSeenCall
	createErr error
}

func newStubPlateRepo(ids ...string) *stubPlateRepo {
	repo := &stubPlateRepo{plates: make(map[string]*models.Plate)}
	for _, id := range ids {
		repo.plates[id] = &models.Plate{ID: id}
	}
	return repo
}

func (r *stubPlateRepo) List(ctx context.Context) ([]*models.Plate, error) {
	plates := make([]*models.Plate, 0, len(r.plates))
	for _, p := range r.plates {
		plates = append(plates, p)
	}
	return plates, nil
}

func (r *stubPlateRepo) Create(ctx context.Context, plate *models.Plate) (*models.Plate, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.plates[plate.ID]; ok {
		return nil, models.ErrConflict
	}
	r.plates[plate.ID] = plate
	return plate, nil
}

func (r *stubPlateRepo) Update(ctx context.Context, oldID string, plate *models.Plate) (*models.Plate, error) {
	existing, ok := r.plates[oldID]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(r.plates, oldID)
	existing.ID = plate.ID
	existing.Contexto = plate.Contexto
	existing.Cor = plate.Cor
	if plate.Latitude != nil {
		existing.Latitude = plate.Latitude
	}
	if plate.Longitude != nil {
		existing.Longitude = plate.Longitude
	}
	r.plates[existing.ID] = existing
	return existing, nil
}

func (r *stubPlateRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.plates[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.plates, id)
	return nil
}

func (r *stubPlateRepo) MarkSeen(ctx context.Context, id string, now time.Time, lat, lon *float64, address *string) (*models.Plate, error) {
	plate, ok := r.plates[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.calls = append(r.calls, markSeenCall{id: id, lat: lat, lon: lon, address: address})
	plate.LastSeenAt = &now
	if lat != nil {
		plate.Latitude = lat
	}
	if lon != nil {
		plate.Longitude = lon
	}
	return plate, nil
}

type stubEventRepo struct {
	events map[string][]*models.SeenEvent
}

func (r *stubEventRepo) ListByPlate(ctx context.Context, plateID string) ([]*models.SeenEvent, error) {
	return r.events[plateID], nil
}

type stubGeocoder struct {
	address *string
	calls   int
}

func (g *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) *string {
	g.calls++
	return g.address
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func coord(v float64) models.Coordinate {
	return models.Coordinate{Value: v, Valid: true}
}

func TestPlateService_CreateNormalizesID(t *testing.T) {
	repo := newStubPlateRepo()
	service := services.NewPlateService(repo, &stubEventRepo{}, &stubGeocoder{}, testLogger())

	plate, err := service.Create(context.Background(), services.PlateInput{ID: "  AA-12-BB "})
	require.NoError(t, err)
	assert.Equal(t, "aa-12-bb", plate.ID)
}

func TestPlateService_MarkSeenGeocodesWhenBothCoordinatesPresent(t *testing.T) {
	repo := newStubPlateRepo("aa-12-bb")
	address := "Rua Augusta, Lisboa, Portugal"
	geocoder := &stubGeocoder{address: &address}
	service := services.NewPlateService(repo, &stubEventRepo{}, geocoder, testLogger())

	plate, err := service.MarkSeen(context.Background(), "AA-12-BB", coord(38.71), coord(-9.14))
	require.NoError(t, err)

	require.NotNil(t, plate.LastSeenAt)
	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	assert.Equal(t, "aa-12-bb", call.id)
	require.NotNil(t, call.lat)
	assert.Equal(t, 38.71, *call.lat)
	require.NotNil(t, call.lon)
	assert.Equal(t, -9.14, *call.lon)
	require.NotNil(t, call.address)
	assert.Equal(t, address, *call.address)
	assert.Equal(t, 1, geocoder.calls)
}

func TestPlateService_MarkSeenWithoutCoordinatesSkipsGeocode(t *testing.T) {
	repo := newStubPlateRepo("aa-12-bb")
	geocoder := &stubGeocoder{}
	service := services.NewPlateService(repo, &stubEventRepo{}, geocoder, testLogger())

	_, err := service.MarkSeen(context.Background(), "aa-12-bb", models.Coordinate{}, models.Coordinate{})
	require.NoError(t, err)

	require.Len(t, repo.calls, 1)
	assert.Nil(t, repo.calls[0].lat)
	assert.Nil(t, repo.calls[0].lon)
	assert.Nil(t, repo.calls[0].address)
	assert.Equal(t, 0, geocoder.calls)
}

func TestPlateService_MarkSeenWithOneCoordinateSkipsGeocode(t *testing.T) {
	repo := newStubPlateRepo("aa-12-bb")
	geocoder := &stubGeocoder{}
	service := services.NewPlateService(repo, &stubEventRepo{}, geocoder, testLogger())

	_, err := service.MarkSeen(context.Background(), "aa-12-bb", coord(38.71), models.Coordinate{})
	require.NoError(t, err)

	require.Len(t, repo.calls, 1)
	assert.NotNil(t, repo.calls[0].lat)
	assert.Nil(t, repo.calls[0].lon)
	assert.Equal(t, 0, geocoder.calls)
}

func TestPlateService_MarkSeenUnknownPlateAppendsNothing(t *testing.T) {
	repo := newStubPlateRepo()
	service := services.NewPlateService(repo, &stubEventRepo{}, &stubGeocoder{}, testLogger())

	_, err := service.MarkSeen(context.Background(), "zz-99-zz", models.Coordinate{}, models.Coordinate{})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, repo.calls)
}

func TestPlateService_MarkSeenAppendsOncePerSighting(t *testing.T) {
	repo := newStubPlateRepo("aa-12-bb")
	service := services.NewPlateService(repo, &stubEventRepo{}, &stubGeocoder{}, testLogger())

	for i := 0; i < 3; i++ {
		_, err := service.MarkSeen(context.Background(), "aa-12-bb", models.Coordinate{}, models.Coordinate{})
		require.NoError(t, err)
	}
	assert.Len(t, repo.calls, 3)
}

func TestPlateService_MarkSeenSurvivesGeocoderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"display_name":"too late"}`))
	}))
	defer server.Close()

	geocoder := geocode.NewClient(server.URL, "test-agent", "pt-PT", 50*time.Millisecond, testLogger())
	repo := newStubPlateRepo("aa-12-bb")
	service := services.NewPlateService(repo, &stubEventRepo{}, geocoder, testLogger())

	start := time.Now()
	plate, err := service.MarkSeen(context.Background(), "aa-12-bb", coord(38.71), coord(-9.14))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotNil(t, plate.LastSeenAt)
	require.Len(t, repo.calls, 1)
	assert.Nil(t, repo.calls[0].address)
	assert.NotNil(t, repo.calls[0].lat)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestPlateService_History(t *testing.T) {
	now := time.Now()
	events := &stubEventRepo{events: map[string][]*models.SeenEvent{
		"aa-12-bb": {
			{PlateID: "aa-12-bb", SeenAt: now},
			{PlateID: "aa-12-bb", SeenAt: now.Add(-time.Hour)},
		},
	}}
	service := services.NewPlateService(newStubPlateRepo("aa-12-bb"), events, &stubGeocoder{}, testLogger())

	history, err := service.History(context.Background(), "AA-12-BB")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = service.History(context.Background(), "zz-99-zz")
	require.NoError(t, err)
	assert.Empty(t, history)
}
