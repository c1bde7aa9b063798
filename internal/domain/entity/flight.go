package entity

import (
	"strconv"
	"time"
)

// Flight is an arrival tracked by the ramp team
type Flight struct {
	Code        string
	Origin      string
	Destination string
	ETA         time.Time
	Airline     string
	CreatedAt   time.Time
}

// FlightKey builds the natural key of a flight: code plus ETA at millisecond precision
func FlightKey(code string, eta time.Time) string {
	return code + "@" + strconv.FormatInt(eta.UnixMilli(), 10)
}

// Key returns the natural key of the flight
func (f Flight) Key() string {
	return FlightKey(f.Code, f.ETA)
}
