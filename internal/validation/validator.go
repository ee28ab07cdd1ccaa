package validation

import (
	"fitforge/exercise-engine/internal/domain"
)

// Validator is the contract every leaf validator implements. Validators are
// pure: they read an immutable exercise snapshot and report findings.
type Validator interface {
	// Name identifies the validator in summaries and fault reports.
	Name() string
	// Priority orders evaluation; higher runs first.
	Priority() int
	// ShouldApply filters validators that have nothing to say about the
	// given exercise (e.g. media checks on an exercise without media).
	ShouldApply(ex domain.Exercise) bool
	// Validate returns the validator's findings.
	Validate(ex domain.Exercise) Report
}

// Report carries one validator's findings.
type Report struct {
	Errors   []Error
	Warnings []Warning
}

// Passed reports whether the validator found no blocking errors.
func (r Report) Passed() bool {
	return len(r.Errors) == 0
}

// Clean reports whether the validator found nothing at all, warnings
// included. The completeness score counts clean validators, so advisory
// findings lower the score without ever blocking.
func (r Report) Clean() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

func (r *Report) addError(field, code, message string, severity Severity) {
	r.Errors = append(r.Errors, Error{Field: field, Code: code, Message: message, Severity: severity})
}

func (r *Report) addWarning(field, message, suggestion string) {
	r.Warnings = append(r.Warnings, Warning{Field: field, Message: message, Suggestion: suggestion})
}
