package repository

import (
	"context"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAlertRepository implements the AlertRepository interface
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GORM alert repository
func NewGormAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &GormAlertRepository{
		db: db,
	}
}

// Alerts GORM model for database mapping
type Alerts struct {
	gorm.Model
	TaskID  string    `gorm:"column:task_id"`
	Kind    string    `gorm:"column:kind"`
	Subject string    `gorm:"column:subject;index"`
	UserID  string    `gorm:"column:user_id"`
	Title   string    `gorm:"column:title"`
	Body    string    `gorm:"column:body"`
	FireAt  time.Time `gorm:"column:fire_at"`
	Status  string    `gorm:"column:status"`
}

// TableName overrides the default table name
func (Alerts) TableName() string {
	return "alerts"
}

// Create inserts a new alert into the database
func (r *GormAlertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	model := Alerts{
		TaskID:  alert.TaskID,
		Kind:    string(alert.Kind),
		Subject: alert.Subject,
		UserID:  alert.UserID,
		Title:   alert.Title,
		Body:    alert.Body,
		FireAt:  alert.FireAt,
		Status:  alert.Status,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	// Update the entity with the generated ID
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt

	return nil
}

// FindBySubject returns the alerts planned for one record, earliest first
func (r *GormAlertRepository) FindBySubject(ctx context.Context, subject string) ([]*entity.Alert, error) {
	var alerts []Alerts
	result := r.db.WithContext(ctx).
		Where("subject = ?", subject).
		Order("fire_at").
		Find(&alerts)

	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.Alert, 0, len(alerts))
	for _, a := range alerts {
		entities = append(entities, &entity.Alert{
			ID:        a.ID,
			TaskID:    a.TaskID,
			Kind:      entity.AlertKind(a.Kind),
			Subject:   a.Subject,
			UserID:    a.UserID,
			Title:     a.Title,
			Body:      a.Body,
			FireAt:    a.FireAt,
			Status:    a.Status,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}

	return entities, nil
}
