package validation

// Severity grades a validation error. CRITICAL errors block even a draft
// save; ERROR blocks publication only.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityError    Severity = "ERROR"
)

// Error is a blocking validation finding on a single field.
type Error struct {
	Field    string   `json:"field"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Warning is an advisory finding. Warnings never block anything.
type Warning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Mode selects which severities count as blocking for a validation pass.
type Mode string

const (
	ModeDraft       Mode = "draft"
	ModePublication Mode = "publication"
)

// Result is the outcome of running the validator set over an exercise.
type Result struct {
	Mode     Mode      `json:"mode"`
	Errors   []Error   `json:"errors"`
	Warnings []Warning `json:"warnings"`

	// RequiredForPublication lists the required fields still missing.
	RequiredForPublication []string `json:"requiredForPublication"`
}

// IsValid reports whether the pass found no blocking errors for its mode.
func (r Result) IsValid() bool {
	if r.Mode == ModeDraft {
		return r.IsDraftValid()
	}
	return len(r.Errors) == 0
}

// IsDraftValid reports whether the exercise can at least be stored as a
// draft: no CRITICAL errors.
func (r Result) IsDraftValid() bool {
	for _, e := range r.Errors {
		if e.Severity == SeverityCritical {
			return false
		}
	}
	return true
}

// CanSaveDraft reports whether a draft save may proceed.
func (r Result) CanSaveDraft() bool {
	return r.IsDraftValid()
}

// CanPublish reports whether publication may proceed: any error, CRITICAL
// or ERROR, blocks it.
func (r Result) CanPublish() bool {
	return len(r.Errors) == 0
}

// Summary is the aggregate health report over the validator set.
type Summary struct {
	OverallScore        int      `json:"overallScore"`        // Passed validators / applicable validators
	ReadinessPercentage int      `json:"readinessPercentage"` // Met required fields / total required fields
	MissingRequirements []string `json:"missingRequirements"`
	ValidatorsRun       int      `json:"validatorsRun"`
	ValidatorsPassed    int      `json:"validatorsPassed"`
}
