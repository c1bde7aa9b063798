package templates

import (
	"fmt"

	"groundops-service/internal/domain/entity"
)

// ProcessDeadlineTemplate covers the near-expiry and expired claim alerts
type ProcessDeadlineTemplate struct{}

// NewProcessDeadlineTemplate creates a new process deadline template
func NewProcessDeadlineTemplate() *ProcessDeadlineTemplate {
	return &ProcessDeadlineTemplate{}
}

// CanHandle determines if this template renders the given alert kind
func (t *ProcessDeadlineTemplate) CanHandle(kind entity.AlertKind) bool {
	return kind == entity.AlertProcessNearDue || kind == entity.AlertProcessExpired
}

// Render returns the alert title and body
func (t *ProcessDeadlineTemplate) Render(facts entity.AlertFacts) (string, string) {
	if facts.Kind == entity.AlertProcessExpired {
		return "Processo — Vencido", fmt.Sprintf("Processo %s venceu.", facts.Subject)
	}
	return "Processo — Atenção", fmt.Sprintf("Processo %s está perto de vencer.", facts.Subject)
}
