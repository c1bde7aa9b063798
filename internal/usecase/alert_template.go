package usecase

import (
	"groundops-service/internal/domain/entity"
)

// AlertTemplate renders the text of one kind of alert
type AlertTemplate interface {
	// CanHandle determines if this template renders the given alert kind
	CanHandle(kind entity.AlertKind) bool

	// Render returns the alert title and body
	Render(facts entity.AlertFacts) (title, body string)
}

// TemplateRouter resolves the template of an alert kind
type TemplateRouter interface {
	// Register registers a template
	Register(template AlertTemplate)

	// GetTemplate returns the template for kind, or nil
	GetTemplate(kind entity.AlertKind) AlertTemplate
}
