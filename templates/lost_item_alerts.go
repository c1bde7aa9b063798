package templates

import (
	"fmt"

	"groundops-service/internal/domain/entity"
)

// LostItemDeadlineTemplate reminds the agent to discard or forward an item
type LostItemDeadlineTemplate struct{}

// NewLostItemDeadlineTemplate creates a new lost item template
func NewLostItemDeadlineTemplate() *LostItemDeadlineTemplate {
	return &LostItemDeadlineTemplate{}
}

// CanHandle determines if this template renders the given alert kind
func (t *LostItemDeadlineTemplate) CanHandle(kind entity.AlertKind) bool {
	return kind == entity.AlertLostItemDeadline
}

// Render returns the alert title and body
func (t *LostItemDeadlineTemplate) Render(facts entity.AlertFacts) (string, string) {
	return "LL — Atenção", fmt.Sprintf("Item %s deve ser descartado ou enviado para LZ VCP.", facts.Subject)
}
