package repository

import (
	"context"

	"groundops-service/internal/domain/entity"
)

// Mailer delivers incident reports by email
type Mailer interface {
	SendIncident(ctx context.Context, to string, report *entity.IncidentReport) (string, error)
}

// IncidentLogRepository keeps the delivery log of incident reports
type IncidentLogRepository interface {
	Save(ctx context.Context, log *entity.IncidentLog) error
	FindRecent(ctx context.Context, limit int) ([]*entity.IncidentLog, error)
}
