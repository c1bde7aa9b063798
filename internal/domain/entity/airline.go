package entity

import "time"

// Airline is reference data used to label flights by their designator prefix
type Airline struct {
	ID        uint
	Code      string // IATA designator, e.g. "AD"
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
