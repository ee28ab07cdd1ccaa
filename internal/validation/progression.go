package validation

import (
	"fmt"
	"strings"

	"fitforge/exercise-engine/internal/domain"
)

// ProgressionValidator checks the declared easier/harder variations.
// Applies to exercises that either declare progressions or sit high enough
// on the ladder that users will need a way up to them.
type ProgressionValidator struct{}

func (ProgressionValidator) Name() string { return "ProgressionValidator" }

func (ProgressionValidator) Priority() int { return 60 }

func (ProgressionValidator) ShouldApply(ex domain.Exercise) bool {
	return len(ex.Progressions) > 0 || ex.Difficulty.IsAdvanced()
}

func (ProgressionValidator) Validate(ex domain.Exercise) Report {
	var r Report

	for i, p := range ex.Progressions {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			r.addError("progressions", "PROGRESSION_EMPTY",
				fmt.Sprintf("progression %d is empty", i+1), SeverityError)
			continue
		}
		if strings.EqualFold(trimmed, strings.TrimSpace(ex.Name)) {
			r.addError("progressions", "PROGRESSION_SELF_REFERENCE",
				"a progression cannot reference the exercise itself", SeverityError)
		}
	}

	if ex.Difficulty.IsAdvanced() && len(ex.Progressions) == 0 {
		r.addWarning("progressions", "advanced exercise has no progressions",
			"list easier variations so users can work up to this exercise")
	}

	return r
}
