package publishing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/validation"
)

// Engine evaluates the publishing rule set over an exercise snapshot. Rules
// run sequentially in descending priority; a rule that fails with an error
// or panics is converted into a blocking result tagged with its name so one
// broken rule never takes out the rest of the pipeline.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over the given rules, sorted once by priority.
func NewEngine(rules ...Rule) *Engine {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})
	return &Engine{rules: sorted}
}

// NewDefaultEngine wires the standard rule set: compliance, approval, then
// content quality.
func NewDefaultEngine(finder ExerciseFinder, facade *validation.Facade, qualityFloor int) *Engine {
	return NewEngine(
		NewComplianceChecker(finder),
		PublicationApprover{},
		NewContentQualityRule(facade, qualityFloor),
	)
}

// Evaluate runs every applicable rule and aggregates the decision. Blocking
// always takes precedence over approval in the aggregate: canPublish is
// false whenever any rule blocks, regardless of approvals on offer.
func (e *Engine) Evaluate(ctx context.Context, ex domain.Exercise, pub Context) Result {
	result := Result{
		BlockedBy:        []string{},
		ApprovalRequired: []string{},
		RuleResults:      []RuleResult{},
		Metadata:         map[string]any{},
	}

	for _, rule := range e.rules {
		if !rule.ShouldApply(ex, pub) {
			continue
		}
		rr, err := safeEvaluate(ctx, rule, ex, pub)
		if err != nil {
			rr = RuleResult{
				RuleName:          rule.Name(),
				Passed:            false,
				BlocksPublication: true,
				Messages:          []string{fmt.Sprintf("rule evaluation failed: %v", err)},
			}
		}
		result.RuleResults = append(result.RuleResults, rr)
		if rr.BlocksPublication {
			result.BlockedBy = append(result.BlockedBy, rr.RuleName)
		}
		if rr.RequiresApproval {
			result.ApprovalRequired = append(result.ApprovalRequired, rr.RuleName)
		}
		for k, v := range rr.Metadata {
			result.Metadata[k] = v
		}
	}

	result.CanPublish = len(result.BlockedBy) == 0
	result.RequiresApproval = len(result.ApprovalRequired) > 0
	result.Summary = summarize(result)
	return result
}

// safeEvaluate shields the pipeline from a panicking rule the same way a
// returned error is handled: the panic surfaces as the rule's error and is
// converted into a blocking result.
func safeEvaluate(ctx context.Context, rule Rule, ex domain.Exercise, pub Context) (rr RuleResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return rule.Evaluate(ctx, ex, pub)
}

// Readiness reports how close an exercise is to publishable, with the
// failing rules' messages flattened into recommendations.
func (e *Engine) Readiness(ctx context.Context, ex domain.Exercise, pub Context) ReadinessReport {
	result := e.Evaluate(ctx, ex, pub)

	report := ReadinessReport{
		Blockers:        len(result.BlockedBy),
		Warnings:        len(result.ApprovalRequired),
		Recommendations: []string{},
	}
	passed := 0
	for _, rr := range result.RuleResults {
		if rr.Passed {
			passed++
		} else {
			report.Recommendations = append(report.Recommendations, rr.Messages...)
		}
	}
	if total := len(result.RuleResults); total > 0 {
		report.Score = int(math.Round(float64(passed) / float64(total) * 100))
	} else {
		report.Score = 100
	}
	return report
}

func summarize(r Result) string {
	switch {
	case !r.CanPublish:
		return fmt.Sprintf("publication blocked by: %s", strings.Join(r.BlockedBy, ", "))
	case r.RequiresApproval:
		role := r.RequiredRole()
		if role == "" {
			return fmt.Sprintf("publication requires approval: %s", strings.Join(r.ApprovalRequired, ", "))
		}
		return fmt.Sprintf("publication requires %s approval: %s", role, strings.Join(r.ApprovalRequired, ", "))
	default:
		return "ready for publication"
	}
}
