package repositories

import (
	"context"

	"github.com/casadocarlos/matriculas/internal/database"
	"github.com/casadocarlos/matriculas/internal/models"
)

// SeenEventRepository reads the append-only sighting history. Writes happen
// inside PlateRepository.MarkSeen so they share its transaction.
type SeenEventRepository struct {
	db *database.DB
}

// NewSeenEventRepository creates a new SeenEventRepository
func NewSeenEventRepository(db *database.DB) *SeenEventRepository {
	return &SeenEventRepository{db: db}
}

// ListByPlate returns a plate's history, newest first. An unknown plate
// yields an empty list, not an error.
func (r *SeenEventRepository) ListByPlate(ctx context.Context, plateID string) ([]*models.SeenEvent, error) {
	query := `
		SELECT id, plate_id, seen_at, latitude, longitude, address
		FROM seen_events
		WHERE plate_id = $1
		ORDER BY seen_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, plateID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	events := []*models.SeenEvent{}
	for rows.Next() {
		var e models.SeenEvent
		err := rows.Scan(&e.ID, &e.PlateID, &e.SeenAt, &e.Latitude, &e.Longitude, &e.Address)
		if err != nil {
			return nil, database.MapPostgresError(err)
		}
		events = append(events, &e)
	}
	return events, database.MapPostgresError(rows.Err())
}
