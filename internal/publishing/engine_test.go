package publishing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/repository"
	"fitforge/exercise-engine/internal/validation"
)

// stubFinder resolves prerequisite references from an in-memory map.
type stubFinder struct {
	known map[primitive.ObjectID]*domain.Exercise
	err   error
}

func (f stubFinder) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	if f.err != nil {
		return nil, f.err
	}
	if ex, ok := f.known[id]; ok {
		return ex, nil
	}
	return nil, repository.ErrNotFound
}

func publishedCandidate() domain.Exercise {
	return domain.Exercise{
		ID:          primitive.NewObjectID(),
		OwnerID:     primitive.NewObjectID(),
		Name:        "Bodyweight Squat",
		Description: "A foundational lower-body movement performed without any equipment at all.",
		Type:        domain.TypeStrength,
		Difficulty:  domain.DifficultyBeginnerII,
		PrimaryMuscles: []domain.MuscleGroup{
			"QUADRICEPS", "GLUTES",
		},
		Instructions: []string{
			"Stand with feet shoulder-width apart",
			"Lower until thighs are parallel",
			"Drive back up through the heels",
		},
		IsDraft: false,
	}
}

func newTestEngine(finder ExerciseFinder) *Engine {
	return NewDefaultEngine(finder, validation.NewDefaultFacade(), DefaultQualityApprovalFloor)
}

func TestCleanCandidatePublishes(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	result := engine.Evaluate(context.Background(), publishedCandidate(), Context{})

	assert.True(t, result.CanPublish)
	assert.False(t, result.RequiresApproval)
	assert.Empty(t, result.BlockedBy)
	assert.Empty(t, result.ApprovalRequired)
	assert.Len(t, result.RuleResults, 3)
	assert.Equal(t, "ready for publication", result.Summary)
	assert.Equal(t, domain.Role(""), result.RequiredRole())
}

func TestRehabilitationNeedsAdminEvenAtMasterDifficulty(t *testing.T) {
	prereqID := primitive.NewObjectID()
	base := publishedCandidate()
	engine := newTestEngine(stubFinder{known: map[primitive.ObjectID]*domain.Exercise{
		prereqID: &base,
	}})

	ex := publishedCandidate()
	ex.Name = "Loaded Spinal Rehabilitation Hold"
	ex.Type = domain.TypeRehabilitation
	ex.Difficulty = domain.DifficultyMaster
	ex.Contraindications = []string{"Acute disc herniation"}
	ex.Progressions = []string{"Unloaded spinal hold"}
	ex.Prerequisites = []domain.Prerequisite{
		{ExerciseID: prereqID, Category: domain.CategoryHoldTime, MinRecommended: 30},
	}

	result := engine.Evaluate(context.Background(), ex, Context{MedicalReviewDone: true})

	require.True(t, result.CanPublish)
	assert.True(t, result.RequiresApproval)
	// Rehabilitation wins over the advanced-tier condition: the approver
	// reports admin, not trainer.
	assert.Equal(t, domain.RoleAdmin, result.RequiredRole())
	assert.Equal(t, []string{"PublicationApprover"}, result.ApprovalRequired)

	for _, rr := range result.RuleResults {
		if rr.RuleName == "PublicationApprover" {
			require.Len(t, rr.Messages, 1)
			assert.Contains(t, rr.Messages[0], "rehabilitation")
		}
	}
}

func TestMedicalReviewGateUnlessAlreadyDone(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	ex := publishedCandidate()
	ex.Type = domain.TypeRehabilitation
	ex.Contraindications = []string{"Acute injury"}

	result := engine.Evaluate(context.Background(), ex, Context{})
	assert.True(t, result.RequiresApproval)
	assert.Equal(t, domain.RoleAdmin, result.RequiredRole())
	assert.Equal(t, true, result.Metadata["medicalReviewRequired"])

	result = engine.Evaluate(context.Background(), ex, Context{MedicalReviewDone: true})
	assert.NotContains(t, result.ApprovalRequired, "ComplianceChecker")
	assert.NotContains(t, result.Metadata, "medicalReviewRequired")
}

func TestSafetyComplianceBlocks(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	ex := publishedCandidate()
	ex.Type = domain.TypeRehabilitation // no contraindications declared

	result := engine.Evaluate(context.Background(), ex, Context{MedicalReviewDone: true})

	assert.False(t, result.CanPublish)
	assert.Contains(t, result.BlockedBy, "ComplianceChecker")
	assert.Contains(t, result.Summary, "publication blocked by")
}

func TestContentComplianceBlocksMedicalClaims(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	ex := publishedCandidate()
	ex.Description = "This movement is guaranteed to fix your squat form within a week of practice."

	result := engine.Evaluate(context.Background(), ex, Context{})

	assert.False(t, result.CanPublish)
	require.Contains(t, result.BlockedBy, "ComplianceChecker")
	for _, rr := range result.RuleResults {
		if rr.RuleName == "ComplianceChecker" {
			require.Len(t, rr.Messages, 1)
			assert.Contains(t, rr.Messages[0], "medical claim")
		}
	}
}

func TestUnknownPrerequisiteReferenceBlocks(t *testing.T) {
	engine := newTestEngine(stubFinder{}) // empty: every lookup is not-found

	ex := publishedCandidate()
	ex.Prerequisites = []domain.Prerequisite{
		{ExerciseID: primitive.NewObjectID(), Category: domain.CategoryReps, MinRecommended: 10},
	}

	result := engine.Evaluate(context.Background(), ex, Context{})

	assert.False(t, result.CanPublish)
	assert.Contains(t, result.BlockedBy, "ComplianceChecker")
}

func TestRepositoryFailureIsIsolatedToTheFailingRule(t *testing.T) {
	engine := newTestEngine(stubFinder{err: errors.New("connection reset")})

	ex := publishedCandidate()
	ex.Prerequisites = []domain.Prerequisite{
		{ExerciseID: primitive.NewObjectID(), Category: domain.CategoryReps, MinRecommended: 10},
	}

	result := engine.Evaluate(context.Background(), ex, Context{})

	// The failing rule blocks, but every other rule still produced a result.
	assert.False(t, result.CanPublish)
	assert.Equal(t, []string{"ComplianceChecker"}, result.BlockedBy)
	require.Len(t, result.RuleResults, 3)

	for _, rr := range result.RuleResults {
		if rr.RuleName == "ComplianceChecker" {
			require.Len(t, rr.Messages, 1)
			assert.Contains(t, rr.Messages[0], "rule evaluation failed")
		} else {
			assert.True(t, rr.Passed)
		}
	}
}

func TestPublicAudienceNeedsTrainerApproval(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	result := engine.Evaluate(context.Background(), publishedCandidate(), Context{TargetAudience: AudiencePublic})

	assert.True(t, result.CanPublish)
	assert.True(t, result.RequiresApproval)
	assert.Equal(t, domain.RoleTrainer, result.RequiredRole())
	assert.Contains(t, result.Summary, "requires trainer approval")
}

func TestDraftsOnlyFaceCompliance(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	ex := publishedCandidate()
	ex.IsDraft = true

	result := engine.Evaluate(context.Background(), ex, Context{TargetAudience: AudiencePublic})

	// Approver and quality skip drafts; only compliance runs.
	require.Len(t, result.RuleResults, 1)
	assert.Equal(t, "ComplianceChecker", result.RuleResults[0].RuleName)
}

func TestExplicitReviewerRequirement(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	result := engine.Evaluate(context.Background(), publishedCandidate(), Context{ReviewerRequired: true})

	assert.True(t, result.CanPublish)
	assert.True(t, result.RequiresApproval)
	assert.Equal(t, domain.RoleTrainer, result.RequiredRole())
}

func TestWeakValidationScoreGatesOnApproval(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	ex := publishedCandidate()
	ex.Description = "Brief but valid"    // advisory: under 50 characters
	ex.Instructions = ex.Instructions[:2] // advisory: fewer than 3 steps

	result := engine.Evaluate(context.Background(), ex, Context{})

	assert.True(t, result.CanPublish)
	assert.True(t, result.RequiresApproval)
	assert.Contains(t, result.ApprovalRequired, "ContentQualityRule")
	assert.Equal(t, domain.RoleTrainer, result.RequiredRole())
	assert.Equal(t, 0, result.Metadata["validationScore"])
}

func TestValidationErrorsHardBlock(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	ex := publishedCandidate()
	ex.Name = "ab"

	result := engine.Evaluate(context.Background(), ex, Context{})

	assert.False(t, result.CanPublish)
	assert.Contains(t, result.BlockedBy, "ContentQualityRule")
}

func TestReadinessReport(t *testing.T) {
	engine := newTestEngine(stubFinder{})

	report := engine.Readiness(context.Background(), publishedCandidate(), Context{})
	assert.Equal(t, 100, report.Score)
	assert.Zero(t, report.Blockers)
	assert.Zero(t, report.Warnings)
	assert.Empty(t, report.Recommendations)

	ex := publishedCandidate()
	ex.Type = domain.TypeRehabilitation
	report = engine.Readiness(context.Background(), ex, Context{})
	assert.Less(t, report.Score, 100)
	assert.Positive(t, report.Blockers)
	assert.NotEmpty(t, report.Recommendations)
}

// panickingRule stands in for a rule with a crashing implementation.
type panickingRule struct{}

func (panickingRule) Name() string                              { return "PanickingRule" }
func (panickingRule) Priority() int                             { return 95 }
func (panickingRule) ShouldApply(domain.Exercise, Context) bool { return true }
func (panickingRule) Evaluate(context.Context, domain.Exercise, Context) (RuleResult, error) {
	panic("nil map write")
}

func TestPanickingRuleIsIsolated(t *testing.T) {
	engine := NewEngine(NewComplianceChecker(stubFinder{}), panickingRule{}, PublicationApprover{})

	result := engine.Evaluate(context.Background(), publishedCandidate(), Context{})

	assert.False(t, result.CanPublish)
	assert.Equal(t, []string{"PanickingRule"}, result.BlockedBy)
	require.Len(t, result.RuleResults, 3)
	for _, rr := range result.RuleResults {
		if rr.RuleName == "PanickingRule" {
			require.Len(t, rr.Messages, 1)
			assert.Contains(t, rr.Messages[0], "rule evaluation failed")
		} else {
			assert.True(t, rr.Passed)
		}
	}
}
