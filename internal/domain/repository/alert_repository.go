package repository

import (
	"context"

	"groundops-service/internal/domain/entity"
)

// AlertRepository keeps a log of scheduled alerts
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	FindBySubject(ctx context.Context, subject string) ([]*entity.Alert, error)
}

// AlertScheduler hands a one-shot alert to the device notification service
// and returns the task id assigned by it
type AlertScheduler interface {
	Schedule(ctx context.Context, alert *entity.Alert) (string, error)
}
