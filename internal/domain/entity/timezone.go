package entity

import "time"

// Timezone represents timezone information for airports
type Timezone struct {
	ID          uint
	AirportCode string
	AirportName string
	CityCode    string
	CityName    string
	GmtTz       string
	TzName      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location loads the IANA zone of the airport
func (t *Timezone) Location() (*time.Location, error) {
	return time.LoadLocation(t.TzName)
}
