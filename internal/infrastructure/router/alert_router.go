package router

import (
	"fmt"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/usecase"
	"groundops-service/pkg/logger"
)

// AlertRouter routes alert kinds to their message templates
type AlertRouter struct {
	templates []usecase.AlertTemplate
	logger    logger.Logger
}

// NewAlertRouter creates a new alert router
func NewAlertRouter(logger logger.Logger) *AlertRouter {
	return &AlertRouter{
		templates: make([]usecase.AlertTemplate, 0),
		logger:    logger,
	}
}

// Register registers a template; the first registered template for a kind wins
func (r *AlertRouter) Register(template usecase.AlertTemplate) {
	r.templates = append(r.templates, template)
	r.logger.Debug("Registered alert template", "template", fmt.Sprintf("%T", template))
}

// GetTemplate returns the appropriate template for a given alert kind
func (r *AlertRouter) GetTemplate(kind entity.AlertKind) usecase.AlertTemplate {
	for _, template := range r.templates {
		if template.CanHandle(kind) {
			return template
		}
	}
	return nil
}
