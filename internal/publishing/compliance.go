package publishing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/repository"
)

// ExerciseFinder is the read-only slice of the repository the compliance
// rule needs to resolve prerequisite references. It is consumed, never
// mutated.
type ExerciseFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
}

var (
	profanityPattern = regexp.MustCompile(`(?i)\b(fuck\w*|shit\w*|bitch\w*|asshole\w*|bastard\w*)\b`)

	// Medical claims that exercise content may not make.
	medicalClaimPattern = regexp.MustCompile(`(?i)\b(cures?d?|guaranteed?|100%|miracle|heals? (?:all|any|every)|eliminates? (?:all|any) pain|no (?:risk|injury) (?:at all|whatsoever))\b`)
)

// ComplianceChecker is the highest-priority publishing rule. It enforces
// medical-review requirements, safety compliance and content compliance.
// Content violations are hard blocks; a pending medical review is an
// approval gate.
type ComplianceChecker struct {
	finder ExerciseFinder
}

// NewComplianceChecker builds the rule. finder may be nil, in which case
// prerequisite references are not resolved.
func NewComplianceChecker(finder ExerciseFinder) *ComplianceChecker {
	return &ComplianceChecker{finder: finder}
}

func (*ComplianceChecker) Name() string { return "ComplianceChecker" }

func (*ComplianceChecker) Priority() int { return 100 }

func (*ComplianceChecker) ShouldApply(domain.Exercise, Context) bool { return true }

func (c *ComplianceChecker) Evaluate(ctx context.Context, ex domain.Exercise, pub Context) (RuleResult, error) {
	result := RuleResult{RuleName: c.Name(), Passed: true, Metadata: map[string]any{}}

	// Medical review: high-risk type or difficulty demands one unless the
	// context declares it already done.
	if (ex.Type.IsHighRisk() || ex.Difficulty.IsHighRisk()) && !pub.MedicalReviewDone {
		result.Passed = false
		result.RequiresApproval = true
		result.RequiredRole = domain.RoleAdmin
		result.Metadata["medicalReviewRequired"] = true
		result.Messages = append(result.Messages,
			"medical review is required before this exercise can be published")
	}

	// Safety compliance.
	if ex.Type.IsHighRisk() && len(ex.Contraindications) == 0 {
		c.block(&result, fmt.Sprintf("%s exercises must declare contraindications", ex.Type))
	}
	if ex.Difficulty.IsAdvanced() && len(ex.Prerequisites) == 0 {
		c.block(&result, "advanced exercises must declare prerequisites")
	}
	for _, m := range ex.PrimaryMuscles {
		if m.IsHighRisk() && len(ex.Contraindications) == 0 {
			c.block(&result, fmt.Sprintf("exercises targeting %s must declare contraindications", m))
			break
		}
	}

	// Content compliance over all user-authored text.
	text := contentText(ex)
	if match := profanityPattern.FindString(text); match != "" {
		c.block(&result, fmt.Sprintf("content contains prohibited language: %q", match))
	}
	if match := medicalClaimPattern.FindString(text); match != "" {
		c.block(&result, fmt.Sprintf("content contains an unsupported medical claim: %q", match))
	}

	// Prerequisite references must resolve to real exercises.
	if c.finder != nil {
		for _, p := range ex.Prerequisites {
			if _, err := c.finder.GetByID(ctx, p.ExerciseID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					c.block(&result, fmt.Sprintf("prerequisite references unknown exercise %s", p.ExerciseID.Hex()))
					continue
				}
				return RuleResult{}, err
			}
		}
	}

	return result, nil
}

func (*ComplianceChecker) block(r *RuleResult, message string) {
	r.Passed = false
	r.BlocksPublication = true
	r.Messages = append(r.Messages, message)
}

// contentText concatenates every user-authored text field for scanning.
func contentText(ex domain.Exercise) string {
	parts := []string{ex.Name, ex.Description}
	parts = append(parts, ex.Instructions...)
	parts = append(parts, ex.Progressions...)
	return strings.Join(parts, "\n")
}
