package publishing

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
)

// Audience is who a publication is intended for.
type Audience string

const (
	AudiencePublic  Audience = "PUBLIC"
	AudienceClients Audience = "CLIENTS"
	AudiencePrivate Audience = "PRIVATE"
)

// Context carries the circumstances of a publication attempt. It is
// optional; the zero value means a private publication with no prior review.
type Context struct {
	PublishedBy    primitive.ObjectID
	TargetAudience Audience
	// ReviewerRequired forces human approval regardless of rule outcomes.
	ReviewerRequired bool
	// MedicalReviewDone declares that a medical review has already been
	// performed, suppressing the compliance demand for one.
	MedicalReviewDone bool
}

// Rule is the contract every publishing rule implements. Evaluate may reach
// into injected collaborators (and so can fail); the engine isolates a
// returned error into a blocking result instead of aborting the pipeline.
type Rule interface {
	Name() string
	// Priority orders evaluation; higher runs first. Order is semantic:
	// later rules assume earlier conditions have not already matched.
	Priority() int
	ShouldApply(ex domain.Exercise, pub Context) bool
	Evaluate(ctx context.Context, ex domain.Exercise, pub Context) (RuleResult, error)
}

// RuleResult is one rule's verdict.
type RuleResult struct {
	RuleName string `json:"ruleName"`
	Passed   bool   `json:"passed"`
	// BlocksPublication is a hard fail: no role can override it.
	BlocksPublication bool `json:"blocksPublication"`
	// RequiresApproval is a soft gate: publication proceeds only with a
	// qualifying human sign-off.
	RequiresApproval bool           `json:"requiresApproval"`
	RequiredRole     domain.Role    `json:"requiredRole,omitempty"`
	Messages         []string       `json:"messages,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

func passResult(name string) RuleResult {
	return RuleResult{RuleName: name, Passed: true}
}

// Result aggregates all rule verdicts into the publication decision.
type Result struct {
	CanPublish       bool           `json:"canPublish"`
	RequiresApproval bool           `json:"requiresApproval"`
	BlockedBy        []string       `json:"blockedBy"`
	ApprovalRequired []string       `json:"approvalRequired"`
	RuleResults      []RuleResult   `json:"ruleResults"`
	Summary          string         `json:"summary"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// RequiredRole returns the strongest approval role demanded by any rule.
// Admin outranks trainer; empty means no approval is needed.
func (r Result) RequiredRole() domain.Role {
	var role domain.Role
	for _, rr := range r.RuleResults {
		if !rr.RequiresApproval || rr.RequiredRole == "" {
			continue
		}
		if rr.RequiredRole == domain.RoleAdmin {
			return domain.RoleAdmin
		}
		role = rr.RequiredRole
	}
	return role
}

// ReadinessReport summarizes how close an exercise is to publishable.
type ReadinessReport struct {
	Score           int      `json:"score"` // Passed rules / total rules
	Blockers        int      `json:"blockers"`
	Warnings        int      `json:"warnings"` // Approval-gated outcomes
	Recommendations []string `json:"recommendations"`
}
