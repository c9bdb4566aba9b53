package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/casadocarlos/matriculas/internal/models"
)

// PlateRepository defines the persistence operations the service needs
type PlateRepository interface {
	List(ctx context.Context) ([]*models.Plate, error)
	Create(ctx context.Context, plate *models.Plate) (*models.Plate, error)
	Update(ctx context.Context, oldID string, plate *models.Plate) (*models.Plate, error)
	Delete(ctx context.Context, id string) error
	MarkSeen(ctx context.Context, id string, now time.Time, lat, lon *float64, address *string) (*models.Plate, error)
}

// SeenEventRepository reads the sighting history
type SeenEventRepository interface {
	ListByPlate(ctx context.Context, plateID string) ([]*models.SeenEvent, error)
}

// Geocoder resolves coordinates to a display address, or nil when none is
// available. Implementations absorb their own failures.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) *string
}

// PlateInput carries a create or update request after transport decoding.
type PlateInput struct {
	ID        string
	Contexto  string
	Cor       string
	Latitude  models.Coordinate
	Longitude models.Coordinate
}

// PlateService implements the plate bookkeeping workflows.
type PlateService struct {
	plates   PlateRepository
	events   SeenEventRepository
	geocoder Geocoder
	logger   *slog.Logger
}

func NewPlateService(plates PlateRepository, events SeenEventRepository, geocoder Geocoder, logger *slog.Logger) *PlateService {
	return &PlateService{
		plates:   plates,
		events:   events,
		geocoder: geocoder,
		logger:   logger,
	}
}

// normalizeID puts a plate id in its canonical lookup form.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// List returns every plate, newest first.
func (s *PlateService) List(ctx context.Context) ([]*models.Plate, error) {
	return s.plates.List(ctx)
}

// Create stores a new plate. The id is stored lowercase.
func (s *PlateService) Create(ctx context.Context, input PlateInput) (*models.Plate, error) {
	plate := &models.Plate{
		ID:        normalizeID(input.ID),
		Contexto:  input.Contexto,
		Cor:       input.Cor,
		Latitude:  input.Latitude.Ptr(),
		Longitude: input.Longitude.Ptr(),
	}
	return s.plates.Create(ctx, plate)
}

// Update edits (and possibly renames) the plate currently known as oldID.
// Omitted coordinates keep their stored values.
func (s *PlateService) Update(ctx context.Context, oldID string, input PlateInput) (*models.Plate, error) {
	plate := &models.Plate{
		ID:        normalizeID(input.ID),
		Contexto:  input.Contexto,
		Cor:       input.Cor,
		Latitude:  input.Latitude.Ptr(),
		Longitude: input.Longitude.Ptr(),
	}
	return s.plates.Update(ctx, normalizeID(oldID), plate)
}

// Delete removes a plate and, by cascade, its history.
func (s *PlateService) Delete(ctx context.Context, id string) error {
	return s.plates.Delete(ctx, normalizeID(id))
}

// MarkSeen stamps the plate's last sighting and appends one history entry.
// When both coordinates are present the address is resolved best-effort
// first; geocoding failures never fail the workflow, they just leave the
// history entry without an address.
func (s *PlateService) MarkSeen(ctx context.Context, id string, lat, lon models.Coordinate) (*models.Plate, error) {
	id = normalizeID(id)
	now := time.Now()

	var address *string
	if lat.Valid && lon.Valid {
		address = s.geocoder.ReverseGeocode(ctx, lat.Value, lon.Value)
	}

	return s.plates.MarkSeen(ctx, id, now, lat.Ptr(), lon.Ptr(), address)
}

// History returns a plate's sighting history, newest first.
func (s *PlateService) History(ctx context.Context, id string) ([]*models.SeenEvent, error) {
	return s.events.ListByPlate(ctx, normalizeID(id))
}
