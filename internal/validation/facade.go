package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fitforge/exercise-engine/internal/domain"
)

// Facade runs the validator set over an exercise in draft or publication
// mode. Validators are sorted once by descending priority at construction;
// evaluation is strictly sequential in that order.
type Facade struct {
	validators []Validator
}

// NewFacade builds a facade over the given validators.
func NewFacade(validators ...Validator) *Facade {
	sorted := append([]Validator(nil), validators...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})
	return &Facade{validators: sorted}
}

// NewDefaultFacade builds a facade with the standard validator set.
func NewDefaultFacade() *Facade {
	return NewFacade(
		BasicInfoValidator{},
		SafetyValidator{},
		InstructionValidator{},
		MediaValidator{},
		ProgressionValidator{},
	)
}

// requiredFields are the fields an exercise must populate before it can be
// published, in reporting order.
var requiredFields = []struct {
	name string
	met  func(domain.Exercise) bool
}{
	{"name", func(ex domain.Exercise) bool { return strings.TrimSpace(ex.Name) != "" }},
	{"description", func(ex domain.Exercise) bool { return strings.TrimSpace(ex.Description) != "" }},
	{"type", func(ex domain.Exercise) bool { return ex.Type != "" }},
	{"difficulty", func(ex domain.Exercise) bool { return ex.Difficulty.IsValid() }},
	{"primaryMuscles", func(ex domain.Exercise) bool { return len(ex.PrimaryMuscles) > 0 }},
	{"instructions", func(ex domain.Exercise) bool { return len(ex.Instructions) > 0 }},
}

// ValidateForDraft runs the lenient pass: only CRITICAL findings block the
// save, everything else is informational.
func (f *Facade) ValidateForDraft(ex domain.Exercise) Result {
	return f.run(ex, ModeDraft)
}

// ValidateForPublication runs the strict pass: any error blocks publication.
func (f *Facade) ValidateForPublication(ex domain.Exercise) Result {
	return f.run(ex, ModePublication)
}

func (f *Facade) run(ex domain.Exercise, mode Mode) Result {
	result := Result{
		Mode:     mode,
		Errors:   []Error{},
		Warnings: []Warning{},
	}
	for _, v := range f.validators {
		if !v.ShouldApply(ex) {
			continue
		}
		report := f.safeValidate(v, ex)
		result.Errors = append(result.Errors, report.Errors...)
		result.Warnings = append(result.Warnings, report.Warnings...)
	}
	result.RequiredForPublication = missingRequiredFields(ex)
	return result
}

// safeValidate isolates a panicking validator: the panic becomes a failing
// finding tagged with the validator's name instead of taking down the pass.
func (f *Facade) safeValidate(v Validator, ex domain.Exercise) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report = Report{Errors: []Error{{
				Field:    v.Name(),
				Code:     "VALIDATOR_FAILED",
				Message:  fmt.Sprintf("validator %s failed: %v", v.Name(), r),
				Severity: SeverityError,
			}}}
		}
	}()
	return v.Validate(ex)
}

// Summarize computes the aggregate health of an exercise: the share of
// applicable validators that pass cleanly and the share of required fields
// present. Warnings count against the score even though they never block.
func (f *Facade) Summarize(ex domain.Exercise) Summary {
	applicable, passed := 0, 0
	for _, v := range f.validators {
		if !v.ShouldApply(ex) {
			continue
		}
		applicable++
		if f.safeValidate(v, ex).Clean() {
			passed++
		}
	}

	missing := missingRequiredFields(ex)
	met := len(requiredFields) - len(missing)

	s := Summary{
		OverallScore:        100,
		ReadinessPercentage: int(math.Round(float64(met) / float64(len(requiredFields)) * 100)),
		MissingRequirements: missing,
		ValidatorsRun:       applicable,
		ValidatorsPassed:    passed,
	}
	if applicable > 0 {
		s.OverallScore = int(math.Round(float64(passed) / float64(applicable) * 100))
	}
	return s
}

func missingRequiredFields(ex domain.Exercise) []string {
	missing := []string{}
	for _, rf := range requiredFields {
		if !rf.met(ex) {
			missing = append(missing, rf.name)
		}
	}
	return missing
}
