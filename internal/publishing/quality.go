package publishing

import (
	"context"
	"fmt"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/validation"
)

// DefaultQualityApprovalFloor is the validation score below which a
// publication is approval-gated even when nothing blocks it outright.
const DefaultQualityApprovalFloor = 80

// ContentQualityRule delegates to the validation facade: blocking
// validation errors become hard publication blocks, and a weak overall
// score becomes an approval gate carrying the score in its metadata.
type ContentQualityRule struct {
	facade        *validation.Facade
	approvalFloor int
}

// NewContentQualityRule builds the rule. A non-positive floor falls back to
// the default.
func NewContentQualityRule(facade *validation.Facade, approvalFloor int) *ContentQualityRule {
	if approvalFloor <= 0 {
		approvalFloor = DefaultQualityApprovalFloor
	}
	return &ContentQualityRule{facade: facade, approvalFloor: approvalFloor}
}

func (*ContentQualityRule) Name() string { return "ContentQualityRule" }

func (*ContentQualityRule) Priority() int { return 80 }

// ShouldApply skips drafts, matching the approver: quality gating applies
// to content leaving the draft stage.
func (*ContentQualityRule) ShouldApply(ex domain.Exercise, _ Context) bool {
	return !ex.IsDraft
}

func (q *ContentQualityRule) Evaluate(_ context.Context, ex domain.Exercise, _ Context) (RuleResult, error) {
	result := RuleResult{RuleName: q.Name(), Passed: true}

	vr := q.facade.ValidateForPublication(ex)
	if !vr.CanPublish() {
		result.Passed = false
		result.BlocksPublication = true
		for _, e := range vr.Errors {
			result.Messages = append(result.Messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
		return result, nil
	}

	summary := q.facade.Summarize(ex)
	if summary.OverallScore < q.approvalFloor {
		result.Passed = false
		result.RequiresApproval = true
		result.RequiredRole = domain.RoleTrainer
		result.Messages = append(result.Messages,
			fmt.Sprintf("validation score %d is below the quality floor %d", summary.OverallScore, q.approvalFloor))
		result.Metadata = map[string]any{
			"validationScore":     summary.OverallScore,
			"missingRequirements": summary.MissingRequirements,
		}
	}
	return result, nil
}
