package models

import (
	"time"

	"github.com/google/uuid"
)

// SeenEvent is one immutable history entry, appended each time a plate is
// marked as seen. Rows are never updated; deletion only cascades from the
// parent plate.
type SeenEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PlateID   string    `json:"matricula_id" db:"plate_id"`
	SeenAt    time.Time `json:"data" db:"seen_at"`
	Latitude  *float64  `json:"latitude" db:"latitude"`
	Longitude *float64  `json:"longitude" db:"longitude"`
	Address   *string   `json:"address" db:"address"`
}
