package entity

import (
	"fmt"
	"strings"
)

// FieldIssue is one problem found on a field
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when caller supplied data is malformed
type ValidationError struct {
	Entity string
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// Add records an issue
func (e *ValidationError) Add(field, message string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Message: message})
}

// Has reports whether field has an issue
func (e *ValidationError) Has(field string) bool {
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no issue was recorded
func (e *ValidationError) OrNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}
