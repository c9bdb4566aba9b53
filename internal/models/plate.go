package models

import "time"

// Plate is a tracked license plate record. IDs are stored lowercase.
// JSON field names follow the public API, which predates this service.
type Plate struct {
	ID         string     `json:"id" db:"id"`
	Contexto   string     `json:"contexto" db:"contexto"`
	Cor        string     `json:"cor" db:"cor"`
	CreatedAt  time.Time  `json:"data" db:"created_at"`
	LastSeenAt *time.Time `json:"ultima_vista" db:"last_seen_at"`
	Latitude   *float64   `json:"latitude" db:"latitude"`
	Longitude  *float64   `json:"longitude" db:"longitude"`
}
