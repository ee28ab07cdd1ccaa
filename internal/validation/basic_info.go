package validation

import (
	"fmt"
	"strings"

	"fitforge/exercise-engine/internal/domain"
)

// BasicInfoValidator checks the identity fields every exercise must carry.
// Its empty-field findings are CRITICAL: without them the record is not even
// worth storing as a draft.
type BasicInfoValidator struct{}

func (BasicInfoValidator) Name() string { return "BasicInfoValidator" }

func (BasicInfoValidator) Priority() int { return 100 }

func (BasicInfoValidator) ShouldApply(domain.Exercise) bool { return true }

func (BasicInfoValidator) Validate(ex domain.Exercise) Report {
	var r Report

	name := strings.TrimSpace(ex.Name)
	switch {
	case name == "":
		r.addError("name", "NAME_REQUIRED", "exercise name is required", SeverityCritical)
	case len(name) < domain.MinNameLength:
		r.addError("name", "NAME_TOO_SHORT",
			fmt.Sprintf("exercise name must be at least %d characters", domain.MinNameLength),
			SeverityError)
	}

	desc := strings.TrimSpace(ex.Description)
	switch {
	case desc == "":
		r.addError("description", "DESCRIPTION_REQUIRED", "exercise description is required", SeverityCritical)
	case len(desc) < domain.MinDescriptionLength:
		r.addError("description", "DESCRIPTION_TOO_SHORT",
			fmt.Sprintf("exercise description must be at least %d characters", domain.MinDescriptionLength),
			SeverityError)
	case len(desc) < 50:
		r.addWarning("description", "description is quite brief",
			"expand the description so users understand purpose and setup")
	}

	if len(ex.PrimaryMuscles) == 0 {
		r.addError("primaryMuscles", "PRIMARY_MUSCLES_REQUIRED",
			"at least one primary muscle group is required", SeverityCritical)
	}

	if !ex.Difficulty.IsValid() {
		r.addError("difficulty", "DIFFICULTY_INVALID",
			fmt.Sprintf("unknown difficulty level %q", ex.Difficulty), SeverityError)
	}

	if ex.Type == "" {
		r.addError("type", "TYPE_REQUIRED", "exercise type is required", SeverityError)
	}

	return r
}
