package models

import (
	"bytes"
	"math"
	"strconv"
)

// Coordinate is an optional latitude or longitude submitted by a client.
// It accepts either a JSON number or a numeric string; absent, null,
// unparseable and non-finite inputs all decode to "no value" rather than
// an error, so a bad coordinate never fails the enclosing request.
type Coordinate struct {
	Value float64
	Valid bool
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	c.Value, c.Valid = 0, false

	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	c.Value, c.Valid = v, true
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(c.Value, 'f', -1, 64)), nil
}

// Ptr returns the coordinate as a nullable float for COALESCE-style updates:
// nil means "keep whatever is stored".
func (c Coordinate) Ptr() *float64 {
	if !c.Valid {
		return nil
	}
	v := c.Value
	return &v
}
