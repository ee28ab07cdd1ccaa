// Package recommend ranks published exercises for a user by combining
// prerequisite readiness with the user's stated criteria.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/readiness"
)

// PrerequisiteMode selects how hard prerequisite gating filters candidates.
type PrerequisiteMode string

const (
	// ModeStrict only surfaces exercises the user is recommended for.
	ModeStrict PrerequisiteMode = "strict"
	// ModeRecommended surfaces anything above the readiness threshold.
	ModeRecommended PrerequisiteMode = "recommended"
)

// Criteria are the user's ranking preferences. Zero values mean "no
// preference"; defaulting is resolved here, once, at scoring time.
type Criteria struct {
	FitnessLevel       domain.Difficulty
	AvailableTime      int // Minutes; 0 = unconstrained
	PreferredMuscles   []domain.MuscleGroup
	ExcludedEquipment  []string
	PrerequisiteMode   PrerequisiteMode
	ReadinessThreshold int // Percent floor for ModeRecommended; 0 = none
}

// Thresholds bucket candidates by readiness percentage.
type Thresholds struct {
	Immediate int // Readiness at or above: recommended now
	NearTerm  int // Readiness at or above: nearly ready
	LongTerm  int // Readiness at or above: future goal
}

// DefaultThresholds returns the standard 90/70/50 bucketing.
func DefaultThresholds() Thresholds {
	return Thresholds{Immediate: 90, NearTerm: 70, LongTerm: 50}
}

// Cap on how far out a future goal's readiness estimate may reach.
const maxEstimatedReadinessDays = 180

// Scored is one ranked candidate with everything the caller needs to
// present it.
type Scored struct {
	Exercise               domain.Exercise `json:"exercise"`
	Score                  int             `json:"score"`
	Readiness              int             `json:"readiness"`
	IsRecommended          bool            `json:"isRecommended"`
	Reason                 string          `json:"reason"`
	PrerequisiteGaps       []string        `json:"prerequisiteGaps,omitempty"`
	EstimatedReadinessDays int             `json:"estimatedReadinessDays,omitempty"`
}

// Result is the full recommendation output: the three readiness buckets
// plus the complete scored list and progression suggestions.
type Result struct {
	Recommended            []Scored `json:"recommended"`
	NearlyReady            []Scored `json:"nearlyReady"`
	FutureGoals            []Scored `json:"futureGoals"`
	Scores                 []Scored `json:"scores"`
	ProgressionSuggestions []string `json:"progressionSuggestions"`
}

// Scorer ranks candidates. It is pure; the readiness engine and thresholds
// are injected once at construction.
type Scorer struct {
	engine     *readiness.Engine
	thresholds Thresholds
}

// NewScorer builds a scorer. Zero thresholds fall back to the defaults.
func NewScorer(engine *readiness.Engine, thresholds Thresholds) *Scorer {
	if thresholds.Immediate == 0 {
		thresholds = DefaultThresholds()
	}
	return &Scorer{engine: engine, thresholds: thresholds}
}

// Recommend scores the entire candidate set against the user's history and
// criteria, then filters, sorts and buckets. Every candidate is scored
// before any ordering happens.
func (s *Scorer) Recommend(candidates []domain.Exercise, history []domain.UserPerformance, criteria Criteria) Result {
	result := Result{
		Recommended:            []Scored{},
		NearlyReady:            []Scored{},
		FutureGoals:            []Scored{},
		Scores:                 []Scored{},
		ProgressionSuggestions: []string{},
	}

	scored := make([]Scored, 0, len(candidates))
	for _, ex := range candidates {
		scored = append(scored, s.scoreOne(ex, history, criteria))
	}

	// Filter after the full set is scored.
	kept := scored[:0:0]
	for _, sc := range scored {
		if criteria.PrerequisiteMode == ModeStrict && !sc.IsRecommended {
			continue
		}
		if criteria.PrerequisiteMode != ModeStrict && sc.Readiness < criteria.ReadinessThreshold {
			continue
		}
		kept = append(kept, sc)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	for _, sc := range kept {
		result.Scores = append(result.Scores, sc)
		switch {
		case sc.Readiness >= s.thresholds.Immediate:
			result.Recommended = append(result.Recommended, sc)
		case sc.Readiness >= s.thresholds.NearTerm:
			result.NearlyReady = append(result.NearlyReady, sc)
			result.ProgressionSuggestions = append(result.ProgressionSuggestions, suggestions(sc.Exercise)...)
		case sc.Readiness >= s.thresholds.LongTerm:
			result.FutureGoals = append(result.FutureGoals, sc)
			result.ProgressionSuggestions = append(result.ProgressionSuggestions, suggestions(sc.Exercise)...)
		}
	}
	return result
}

// scoreOne computes a single candidate's score from a base of 50 with
// weighted adjustments, clamped to [0,100].
func (s *Scorer) scoreOne(ex domain.Exercise, history []domain.UserPerformance, criteria Criteria) Scored {
	r := s.engine.EvaluateExercise(ex, history)
	recommended := s.engine.IsRecommendedFor(ex, history)

	score := 50.0
	score += 30 * float64(r.OverallReadiness) / 100
	if recommended {
		score += 20
	}

	var notes []string
	if criteria.FitnessLevel.IsValid() {
		userLevel := criteria.FitnessLevel.Ordinal()
		exLevel := ex.Difficulty.Ordinal()
		switch {
		case exLevel <= userLevel:
			score += 10
		case exLevel > userLevel+1:
			score -= 15
			notes = append(notes, "above your current fitness level")
		}
	}
	if criteria.AvailableTime > 0 && ex.EstimatedDuration > 0 && ex.EstimatedDuration <= criteria.AvailableTime {
		score += 10
		notes = append(notes, "fits your available time")
	}
	if matches := muscleMatches(ex, criteria.PreferredMuscles); matches > 0 {
		score += float64(5 * matches)
		notes = append(notes, "targets your preferred muscles")
	}
	if usesExcludedEquipment(ex, criteria.ExcludedEquipment) {
		score -= 20
		notes = append(notes, "needs equipment you excluded")
	}

	score = math.Max(0, math.Min(100, score))

	sc := Scored{
		Exercise:      ex,
		Score:         int(math.Round(score)),
		Readiness:     r.OverallReadiness,
		IsRecommended: recommended,
		Reason:        reason(r.OverallReadiness, s.thresholds, notes),
	}
	for _, status := range append(r.NearlyReady, r.Missing...) {
		sc.PrerequisiteGaps = append(sc.PrerequisiteGaps, status.MissingRequirements...)
		if !status.IsMet && status.EstimatedTimeToMeet > sc.EstimatedReadinessDays {
			sc.EstimatedReadinessDays = status.EstimatedTimeToMeet
		}
	}
	if sc.EstimatedReadinessDays > maxEstimatedReadinessDays {
		sc.EstimatedReadinessDays = maxEstimatedReadinessDays
	}
	return sc
}

func muscleMatches(ex domain.Exercise, preferred []domain.MuscleGroup) int {
	matches := 0
	for _, m := range preferred {
		if ex.TargetsMuscle(m) {
			matches++
		}
	}
	return matches
}

func usesExcludedEquipment(ex domain.Exercise, excluded []string) bool {
	for _, eq := range excluded {
		if ex.RequiresEquipment(eq) {
			return true
		}
	}
	return false
}

func reason(ready int, t Thresholds, notes []string) string {
	var tier string
	switch {
	case ready >= t.Immediate:
		tier = "you are ready for this exercise"
	case ready >= t.NearTerm:
		tier = fmt.Sprintf("almost there, %d%% ready", ready)
	case ready >= t.LongTerm:
		tier = fmt.Sprintf("a solid future goal, %d%% ready", ready)
	default:
		tier = fmt.Sprintf("%d%% ready, needs significant preparation", ready)
	}
	if len(notes) == 0 {
		return tier
	}
	return tier + "; " + strings.Join(notes, ", ")
}

func suggestions(ex domain.Exercise) []string {
	if len(ex.Progressions) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("work toward %s via: %s", ex.Name, ex.Progressions[0])}
}
