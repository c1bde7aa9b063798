package templates

import (
	"fmt"

	"groundops-service/internal/domain/entity"
)

// FlightLandingTemplate warns the agent 15 minutes before a tracked flight lands
type FlightLandingTemplate struct{}

// NewFlightLandingTemplate creates a new flight landing template
func NewFlightLandingTemplate() *FlightLandingTemplate {
	return &FlightLandingTemplate{}
}

// CanHandle determines if this template renders the given alert kind
func (t *FlightLandingTemplate) CanHandle(kind entity.AlertKind) bool {
	return kind == entity.AlertFlightLanding
}

// Render returns the alert title and body
func (t *FlightLandingTemplate) Render(facts entity.AlertFacts) (string, string) {
	return "Voo — Atenção", fmt.Sprintf("Seu voo %s estará em solo às %s.", facts.Subject, facts.Clock)
}
