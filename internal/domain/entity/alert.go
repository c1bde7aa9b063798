package entity

import "time"

// AlertKind identifies why an alert was scheduled
type AlertKind string

const (
	AlertFlightLanding    AlertKind = "flight_landing"
	AlertBoardingWarning  AlertKind = "boarding_warning"
	AlertBoardingUrgent   AlertKind = "boarding_urgent"
	AlertRunwayCutoff     AlertKind = "runway_cutoff"
	AlertProcessNearDue   AlertKind = "process_near_due"
	AlertProcessExpired   AlertKind = "process_expired"
	AlertLostItemDeadline AlertKind = "lost_item_deadline"
)

// Alert statuses
const (
	AlertStatusScheduled = "SCHEDULED"
	AlertStatusFailed    = "FAILED"
)

// Alert is a one-shot notification shown to the agent at a future instant
type Alert struct {
	ID        uint
	TaskID    string // id returned by the notification service
	Kind      AlertKind
	Subject   string // natural key of the record the alert refers to
	UserID    string
	Title     string
	Body      string
	FireAt    time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AlertFacts are the values a message template may interpolate
type AlertFacts struct {
	Kind    AlertKind
	Subject string // flight code, process number or item PIN
	Clock   string // HH:MM in the station time zone
}
