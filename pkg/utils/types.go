package utils

// Constants
const (
	CLOCK_LAYOUT = "15:04"
	DATE_LAYOUT  = "2006-01-02"
)
