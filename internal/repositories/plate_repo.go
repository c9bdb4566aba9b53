package repositories

import (
	"context"
	"time"

	"github.com/casadocarlos/matriculas/internal/database"
	"github.com/casadocarlos/matriculas/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const plateColumns = "id, contexto, cor, created_at, last_seen_at, latitude, longitude"

// PlateRepository handles database operations for plate records
type PlateRepository struct {
	db *database.DB
}

// NewPlateRepository creates a new PlateRepository
func NewPlateRepository(db *database.DB) *PlateRepository {
	return &PlateRepository{db: db}
}

func scanPlate(row pgx.Row) (*models.Plate, error) {
	var p models.Plate
	err := row.Scan(
		&p.ID,
		&p.Contexto,
		&p.Cor,
		&p.CreatedAt,
		&p.LastSeenAt,
		&p.Latitude,
		&p.Longitude,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

// List returns every plate, newest first.
func (r *PlateRepository) List(ctx context.Context) ([]*models.Plate, error) {
	query := `SELECT ` + plateColumns + ` FROM plates ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	plates := []*models.Plate{}
	for rows.Next() {
		p, err := scanPlate(rows)
		if err != nil {
			return nil, err
		}
		plates = append(plates, p)
	}
	return plates, database.MapPostgresError(rows.Err())
}

// Create inserts a new plate and returns the stored row.
func (r *PlateRepository) Create(ctx context.Context, plate *models.Plate) (*models.Plate, error) {
	query := `
		INSERT INTO plates (id, contexto, cor, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + plateColumns

	row := r.db.Pool.QueryRow(ctx, query,
		plate.ID,
		plate.Contexto,
		plate.Cor,
		plate.Latitude,
		plate.Longitude,
	)
	return scanPlate(row)
}

// Update rewrites a plate identified by oldID, possibly renaming it.
// Coordinates follow coalesce-on-null: a nil value keeps the stored one.
func (r *PlateRepository) Update(ctx context.Context, oldID string, plate *models.Plate) (*models.Plate, error) {
	query := `
		UPDATE plates
		SET id = $1, contexto = $2, cor = $3,
		    latitude = COALESCE($4, latitude),
		    longitude = COALESCE($5, longitude)
		WHERE LOWER(id) = $6
		RETURNING ` + plateColumns

	row := r.db.Pool.QueryRow(ctx, query,
		plate.ID,
		plate.Contexto,
		plate.Cor,
		plate.Latitude,
		plate.Longitude,
		oldID,
	)
	return scanPlate(row)
}

// Delete removes a plate; its seen events cascade away with it.
func (r *PlateRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM plates WHERE LOWER(id) = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkSeen stamps the plate's last sighting and appends one immutable seen
// event, in a single transaction so the history never references a stamp
// that was rolled back. Coordinates coalesce on null; the update runs first
// so an unknown plate produces no history row.
func (r *PlateRepository) MarkSeen(ctx context.Context, id string, now time.Time, lat, lon *float64, address *string) (*models.Plate, error) {
	var plate *models.Plate

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE plates
			SET last_seen_at = $1,
			    latitude = COALESCE($2, latitude),
			    longitude = COALESCE($3, longitude)
			WHERE LOWER(id) = $4
			RETURNING ` + plateColumns

		p, err := scanPlate(tx.QueryRow(ctx, query, now, lat, lon, id))
		if err != nil {
			return err
		}
		plate = p

		_, err = tx.Exec(ctx, `
			INSERT INTO seen_events (id, plate_id, seen_at, latitude, longitude, address)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), plate.ID, now, lat, lon, address,
		)
		return database.MapPostgresError(err)
	})
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return plate, nil
}
