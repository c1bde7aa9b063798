package templates

import (
	"fmt"

	"groundops-service/internal/domain/entity"
)

// BoardingTemplate covers the T-20 and T-10 boarding alerts
type BoardingTemplate struct{}

// NewBoardingTemplate creates a new boarding template
func NewBoardingTemplate() *BoardingTemplate {
	return &BoardingTemplate{}
}

// CanHandle determines if this template renders the given alert kind
func (t *BoardingTemplate) CanHandle(kind entity.AlertKind) bool {
	return kind == entity.AlertBoardingWarning || kind == entity.AlertBoardingUrgent
}

// Render returns the alert title and body
func (t *BoardingTemplate) Render(facts entity.AlertFacts) (string, string) {
	if facts.Kind == entity.AlertBoardingUrgent {
		return "Embarque — Urgente", "Finalizar embarque agora (T-10)."
	}
	return "Embarque — Atenção", "Finalizar embarque o quanto antes (T-20)."
}

// RunwayCutoffTemplate fires at T-9 before take-off
type RunwayCutoffTemplate struct{}

// NewRunwayCutoffTemplate creates a new runway cutoff template
func NewRunwayCutoffTemplate() *RunwayCutoffTemplate {
	return &RunwayCutoffTemplate{}
}

// CanHandle determines if this template renders the given alert kind
func (t *RunwayCutoffTemplate) CanHandle(kind entity.AlertKind) bool {
	return kind == entity.AlertRunwayCutoff
}

// Render returns the alert title and body
func (t *RunwayCutoffTemplate) Render(facts entity.AlertFacts) (string, string) {
	if facts.Subject == "" {
		return "Pista — Atenção", fmt.Sprintf("Corte T-9 às %s.", facts.Clock)
	}
	return "Pista — Atenção", fmt.Sprintf("Voo %s: corte T-9 às %s.", facts.Subject, facts.Clock)
}
