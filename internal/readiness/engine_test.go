package readiness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
)

func TestEvaluatePrerequisiteProgress(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	exID := primitive.NewObjectID()

	tests := []struct {
		name         string
		prereq       domain.Prerequisite
		perf         *domain.UserPerformance
		wantMet      bool
		wantProgress int
		wantMissing  []string
		wantDays     int
	}{
		{
			name:         "reps below minimum",
			prereq:       domain.Prerequisite{ExerciseID: exID, Category: domain.CategoryReps, MinRecommended: 20},
			perf:         &domain.UserPerformance{BestReps: 15},
			wantMet:      false,
			wantProgress: 75,
			wantMissing:  []string{"Need 5 more reps"},
			wantDays:     10,
		},
		{
			name:         "hold time above minimum",
			prereq:       domain.Prerequisite{ExerciseID: exID, Category: domain.CategoryHoldTime, MinRecommended: 25},
			perf:         &domain.UserPerformance{BestHoldTime: 30},
			wantMet:      true,
			wantProgress: 100,
			wantMissing:  []string{},
			wantDays:     0,
		},
		{
			name:         "form quality truncates rather than rounds",
			prereq:       domain.Prerequisite{ExerciseID: exID, Category: domain.CategoryForm, MinRecommended: 9},
			perf:         &domain.UserPerformance{FormQuality: 8},
			wantMet:      false,
			wantProgress: 88,
			wantMissing:  []string{"Improve form quality by 1.0 points"},
			wantDays:     7, // floor: round(1*2)=2 would be unrealistically soon
		},
		{
			name:         "weight deficit",
			prereq:       domain.Prerequisite{ExerciseID: exID, Category: domain.CategoryWeight, MinRecommended: 100},
			perf:         &domain.UserPerformance{BestWeight: 60},
			wantMet:      false,
			wantProgress: 60,
			wantMissing:  []string{"Need 40.0 more kg"},
			wantDays:     80,
		},
		{
			name:         "no performance data",
			prereq:       domain.Prerequisite{ExerciseID: exID, Category: domain.CategoryReps, MinRecommended: 20},
			perf:         nil,
			wantMet:      false,
			wantProgress: 0,
			wantMissing:  []string{"No performance data available"},
			wantDays:     30,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status := engine.EvaluatePrerequisite(tc.prereq, tc.perf)
			assert.Equal(t, tc.wantMet, status.IsMet)
			assert.Equal(t, tc.wantProgress, status.Progress)
			assert.Equal(t, tc.wantMissing, status.MissingRequirements)
			assert.Equal(t, tc.wantDays, status.EstimatedTimeToMeet)
		})
	}
}

func TestEvaluateExerciseAggregation(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	squatID := primitive.NewObjectID()
	plankID := primitive.NewObjectID()

	ex := domain.Exercise{
		Name: "Pistol Squat",
		Prerequisites: []domain.Prerequisite{
			{ExerciseID: squatID, Category: domain.CategoryReps, MinRecommended: 20},
			{ExerciseID: plankID, Category: domain.CategoryHoldTime, MinRecommended: 25},
		},
	}
	history := []domain.UserPerformance{
		{ExerciseID: squatID, BestReps: 15},     // 75%
		{ExerciseID: plankID, BestHoldTime: 30}, // met
	}

	r := engine.EvaluateExercise(ex, history)

	assert.Equal(t, 88, r.OverallReadiness) // round(mean(75, 100))
	assert.Len(t, r.Ready, 1)
	assert.Len(t, r.NearlyReady, 1) // 75 is above the 70 floor
	assert.Empty(t, r.Missing)
	assert.Equal(t, 75, r.CategoryReadiness[domain.CategoryReps])
	assert.Equal(t, 100, r.CategoryReadiness[domain.CategoryHoldTime])
	require.Len(t, r.ImprovementPlan, 1)
	assert.Equal(t, domain.CategoryReps, r.ImprovementPlan[0].Category)
}

func TestExerciseWithoutPrerequisitesIsFullyReady(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ex := domain.Exercise{Name: "Walking"}

	r := engine.EvaluateExercise(ex, nil)

	assert.Equal(t, 100, r.OverallReadiness)
	assert.Empty(t, r.Ready)
	assert.Empty(t, r.NearlyReady)
	assert.Empty(t, r.Missing)
	assert.Empty(t, r.ImprovementPlan)
	assert.True(t, engine.IsRecommendedFor(ex, nil))
}

func TestIsRecommendedFor(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	metID := primitive.NewObjectID()
	unmetID := primitive.NewObjectID()
	history := []domain.UserPerformance{
		{ExerciseID: metID, BestReps: 30},
		{ExerciseID: unmetID, BestReps: 5},
	}

	met := domain.Prerequisite{ExerciseID: metID, Category: domain.CategoryReps, MinRecommended: 20}
	unmet := domain.Prerequisite{ExerciseID: unmetID, Category: domain.CategoryReps, MinRecommended: 20}
	required := func(p domain.Prerequisite) domain.Prerequisite {
		p.IsRequired = true
		return p
	}

	tests := []struct {
		name    string
		prereqs []domain.Prerequisite
		want    bool
	}{
		{
			name:    "unmet required prerequisite disqualifies",
			prereqs: []domain.Prerequisite{met, required(unmet)},
			want:    false,
		},
		{
			name:    "all required met qualifies regardless of the rest",
			prereqs: []domain.Prerequisite{required(met), unmet, unmet},
			want:    true,
		},
		{
			name:    "no required: two of three met clears 60%",
			prereqs: []domain.Prerequisite{met, met, unmet},
			want:    true,
		},
		{
			name:    "no required: one of two met falls short",
			prereqs: []domain.Prerequisite{met, unmet},
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ex := domain.Exercise{Prerequisites: tc.prereqs}
			assert.Equal(t, tc.want, engine.IsRecommendedFor(ex, history))
		})
	}
}

func TestConfidence(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		perf domain.UserPerformance
		want int
	}{
		{
			name: "high volume, fresh, perfect form",
			perf: domain.UserPerformance{TotalSessions: 10, LastPerformed: now, FormQuality: 10},
			want: 100, // 100 - 0 + 25, clamped
		},
		{
			name: "moderate volume eroded by staleness",
			perf: domain.UserPerformance{TotalSessions: 5, LastPerformed: now.AddDate(0, 0, -10), FormQuality: 5},
			want: 30, // 50 - 20 + 0
		},
		{
			name: "staleness penalty caps at 50",
			perf: domain.UserPerformance{TotalSessions: 10, LastPerformed: now.AddDate(0, 0, -365), FormQuality: 5},
			want: 50, // 100 - 50 + 0
		},
		{
			name: "no sessions floors at zero",
			perf: domain.UserPerformance{TotalSessions: 0, LastPerformed: now.AddDate(0, 0, -30)},
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.Confidence(tc.perf, now))
		})
	}
}

func TestFreshnessBoundariesAreInclusive(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		days int
		want Freshness
	}{
		{0, FreshnessCurrent},
		{7, FreshnessCurrent},
		{8, FreshnessRecent},
		{30, FreshnessRecent},
		{31, FreshnessDated},
		{90, FreshnessDated},
		{91, FreshnessStale},
	}

	for _, tc := range tests {
		perf := domain.UserPerformance{LastPerformed: now.AddDate(0, 0, -tc.days)}
		assert.Equal(t, tc.want, engine.FreshnessOf(perf, now), "days=%d", tc.days)
	}
}

func TestDataQualityGrading(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name string
		perf domain.UserPerformance
		want DataQuality
	}{
		{
			name: "excellent: heavy volume and broad coverage",
			perf: domain.UserPerformance{TotalSessions: 25, BestReps: 10, BestHoldTime: 30, BestWeight: 40, FormQuality: 8},
			want: QualityExcellent,
		},
		{
			name: "good: solid volume, three metrics",
			perf: domain.UserPerformance{TotalSessions: 12, BestReps: 10, BestHoldTime: 30, FormQuality: 7},
			want: QualityGood,
		},
		{
			name: "fair by session count alone",
			perf: domain.UserPerformance{TotalSessions: 6, BestReps: 10},
			want: QualityFair,
		},
		{
			name: "fair by metric coverage alone",
			perf: domain.UserPerformance{TotalSessions: 2, BestReps: 10, FormQuality: 6},
			want: QualityFair,
		},
		{
			name: "poor: thin on both axes",
			perf: domain.UserPerformance{TotalSessions: 2, BestReps: 10},
			want: QualityPoor,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.DataQualityOf(tc.perf))
		})
	}
}

func TestImprovementPlanPrioritization(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	formTarget := primitive.NewObjectID()
	consistencyTarget := primitive.NewObjectID()

	unmet := []PrerequisiteStatus{
		{
			Prerequisite: domain.Prerequisite{
				ExerciseID: formTarget, Category: domain.CategoryForm, MinRecommended: 9,
			},
			Progress:            88,
			MissingRequirements: []string{"Improve form quality by 1.0 points"},
			EstimatedTimeToMeet: 7,
		},
		{
			Prerequisite: domain.Prerequisite{
				ExerciseID: consistencyTarget, Category: domain.CategoryConsistency,
				MinRecommended: 14, IsRequired: true,
			},
			Progress:            50,
			MissingRequirements: []string{"Need 7 more consistent days"},
			EstimatedTimeToMeet: 14,
		},
	}

	plan := engine.BuildImprovementPlan(unmet)
	require.Len(t, plan, 2)

	// Form outweighs consistency even though the consistency gap is larger
	// and required: category weight dominates the priority.
	assert.Equal(t, domain.CategoryForm, plan[0].Category)
	assert.Equal(t, 3*100+0+12, plan[0].Priority)
	assert.Equal(t, domain.CategoryConsistency, plan[1].Category)
	assert.Equal(t, 1*100+20+50, plan[1].Priority)
	assert.Equal(t, []primitive.ObjectID{formTarget}, plan[0].TargetExerciseIDs)
	assert.Equal(t, 14, plan[1].EstimatedDays)
}

func TestCustomConfigThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CurrentMaxDays = 3
	cfg.NearlyReadyFloor = 80
	engine := NewEngine(cfg)
	now := time.Now()

	perf := domain.UserPerformance{LastPerformed: now.AddDate(0, 0, -5)}
	assert.Equal(t, FreshnessRecent, engine.FreshnessOf(perf, now))

	exID := primitive.NewObjectID()
	ex := domain.Exercise{Prerequisites: []domain.Prerequisite{
		{ExerciseID: exID, Category: domain.CategoryReps, MinRecommended: 20},
	}}
	history := []domain.UserPerformance{{ExerciseID: exID, BestReps: 15}} // 75%

	r := engine.EvaluateExercise(ex, history)
	assert.Empty(t, r.NearlyReady) // 75 is below the raised floor
	assert.Len(t, r.Missing, 1)
}
