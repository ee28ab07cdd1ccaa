package validation

import (
	"fmt"

	"fitforge/exercise-engine/internal/domain"
)

// SafetyValidator covers the injury-prevention concern: high-risk exercise
// types and muscle groups must document contraindications, and advanced
// content must declare prerequisites.
type SafetyValidator struct{}

func (SafetyValidator) Name() string { return "SafetyValidator" }

func (SafetyValidator) Priority() int { return 90 }

// ShouldApply limits the validator to exercises with a safety dimension:
// high-risk type or difficulty, or a high-risk primary muscle.
func (SafetyValidator) ShouldApply(ex domain.Exercise) bool {
	if ex.Type.IsHighRisk() || ex.Difficulty.IsAdvanced() {
		return true
	}
	for _, m := range ex.PrimaryMuscles {
		if m.IsHighRisk() {
			return true
		}
	}
	return false
}

func (SafetyValidator) Validate(ex domain.Exercise) Report {
	var r Report

	if ex.Type.IsHighRisk() && len(ex.Contraindications) == 0 {
		r.addError("contraindications", "CONTRAINDICATIONS_REQUIRED",
			fmt.Sprintf("%s exercises must list contraindications", ex.Type), SeverityError)
	}

	for _, m := range ex.PrimaryMuscles {
		if m.IsHighRisk() && len(ex.Contraindications) == 0 {
			r.addError("contraindications", "HIGH_RISK_MUSCLE",
				fmt.Sprintf("exercises targeting %s must list contraindications", m), SeverityError)
			break
		}
	}

	if ex.Difficulty.IsAdvanced() {
		if len(ex.Prerequisites) == 0 {
			r.addError("prerequisites", "PREREQUISITES_REQUIRED",
				"advanced exercises must declare at least one prerequisite", SeverityError)
		}
		if len(ex.Contraindications) == 0 {
			r.addWarning("contraindications", "advanced exercise has no contraindications",
				"list conditions under which users should avoid this exercise")
		}
	}

	return r
}
