package publishing

import (
	"context"

	"fitforge/exercise-engine/internal/domain"
)

// Approval escalation thresholds.
const (
	maxContraindicationsWithoutApproval = 3
	maxInstructionsWithoutApproval      = 10
)

// PublicationApprover decides whether a publication needs a human sign-off
// and from which role. Conditions are checked in a fixed order and only the
// first match is reported; a rehabilitation exercise that is also MASTER
// difficulty resolves to admin approval, not trainer.
type PublicationApprover struct{}

func (PublicationApprover) Name() string { return "PublicationApprover" }

func (PublicationApprover) Priority() int { return 90 }

// ShouldApply skips drafts: approval is only meaningful for an exercise
// actually leaving the draft stage.
func (PublicationApprover) ShouldApply(ex domain.Exercise, _ Context) bool {
	return !ex.IsDraft
}

func (a PublicationApprover) Evaluate(_ context.Context, ex domain.Exercise, pub Context) (RuleResult, error) {
	type check struct {
		matches bool
		role    domain.Role
		reason  string
	}
	checks := []check{
		{ex.Type == domain.TypeRehabilitation, domain.RoleAdmin,
			"rehabilitation content requires admin approval"},
		{ex.Difficulty.IsAdvanced(), domain.RoleTrainer,
			"advanced-tier content requires trainer approval"},
		{pub.TargetAudience == AudiencePublic, domain.RoleTrainer,
			"public publications require trainer approval"},
		{len(ex.Contraindications) > maxContraindicationsWithoutApproval, domain.RoleTrainer,
			"content with many contraindications requires trainer approval"},
		{len(ex.Instructions) > maxInstructionsWithoutApproval, domain.RoleTrainer,
			"unusually long instruction lists require trainer approval"},
	}

	for _, c := range checks {
		if c.matches {
			return RuleResult{
				RuleName:         a.Name(),
				Passed:           false,
				RequiresApproval: true,
				RequiredRole:     c.role,
				Messages:         []string{c.reason},
			}, nil
		}
	}
	if pub.ReviewerRequired {
		return RuleResult{
			RuleName:         a.Name(),
			Passed:           false,
			RequiresApproval: true,
			RequiredRole:     domain.RoleTrainer,
			Messages:         []string{"publication context explicitly requires a reviewer"},
		}, nil
	}
	return passResult(a.Name()), nil
}
