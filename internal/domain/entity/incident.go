package entity

import "time"

// IncidentReport is a ramp safety occurrence (AQD) sent by email
type IncidentReport struct {
	Reporter    string
	Title       string
	Description string
	Flight      string
	Latitude    *float64
	Longitude   *float64
	Attachments []Attachment
	OccurredAt  time.Time
}

// Attachment represents a photo or document sent with a report
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Incident delivery statuses
const (
	IncidentStatusSent   = "SENT"
	IncidentStatusFailed = "FAILED"
)

// IncidentLog records one delivery attempt of an incident report
type IncidentLog struct {
	ID          string    `bson:"_id,omitempty"`
	MessageID   string    `bson:"messageId"`
	Reporter    string    `bson:"reporter"`
	Title       string    `bson:"title"`
	Flight      string    `bson:"flight,omitempty"`
	Recipient   string    `bson:"recipient"`
	Status      string    `bson:"status"`
	ErrorDetail string    `bson:"errorDetail,omitempty"`
	SentAt      time.Time `bson:"sentAt"`
}
