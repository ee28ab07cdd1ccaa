package validation

import (
	"fmt"
	"strings"

	"fitforge/exercise-engine/internal/domain"
)

const maxInstructionLength = 500

// InstructionValidator checks the ordered instruction steps.
type InstructionValidator struct{}

func (InstructionValidator) Name() string { return "InstructionValidator" }

func (InstructionValidator) Priority() int { return 80 }

func (InstructionValidator) ShouldApply(domain.Exercise) bool { return true }

func (InstructionValidator) Validate(ex domain.Exercise) Report {
	var r Report

	if len(ex.Instructions) == 0 {
		r.addError("instructions", "INSTRUCTIONS_REQUIRED",
			"at least one instruction step is required", SeverityError)
		return r
	}

	for i, step := range ex.Instructions {
		if strings.TrimSpace(step) == "" {
			r.addError("instructions", "INSTRUCTION_EMPTY",
				fmt.Sprintf("instruction step %d is empty", i+1), SeverityError)
		} else if len(step) > maxInstructionLength {
			r.addWarning("instructions",
				fmt.Sprintf("instruction step %d is very long (%d characters)", i+1, len(step)),
				"split long steps so each describes a single action")
		}
	}

	if len(ex.Instructions) < 3 {
		r.addWarning("instructions", "fewer than 3 instruction steps",
			"most exercises need setup, execution and finish steps")
	}

	return r
}
