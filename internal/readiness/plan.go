package readiness

import (
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
)

// PlanEntry is one improvement-plan item: a prerequisite category the user
// has not met, the exercises to work on, and how long that should take.
type PlanEntry struct {
	Category            domain.PrerequisiteCategory `json:"category"`
	Priority            int                         `json:"priority"`
	TargetExerciseIDs   []primitive.ObjectID        `json:"targetExerciseIds"`
	MissingRequirements []string                    `json:"missingRequirements"`
	EstimatedDays       int                         `json:"estimatedDays"`
}

// BuildImprovementPlan groups unmet prerequisite statuses by category and
// orders the groups by priority: category weight first, then how many of
// the unmet prerequisites are hard requirements, then how far the user is
// from the target.
func (e *Engine) BuildImprovementPlan(unmet []PrerequisiteStatus) []PlanEntry {
	groups := map[domain.PrerequisiteCategory][]PrerequisiteStatus{}
	for _, s := range unmet {
		if s.IsMet {
			continue
		}
		groups[s.Prerequisite.Category] = append(groups[s.Prerequisite.Category], s)
	}

	entries := make([]PlanEntry, 0, len(groups))
	for cat, statuses := range groups {
		entry := PlanEntry{
			Category:            cat,
			TargetExerciseIDs:   []primitive.ObjectID{},
			MissingRequirements: []string{},
		}
		progressSum, requiredCount := 0, 0
		for _, s := range statuses {
			entry.TargetExerciseIDs = append(entry.TargetExerciseIDs, s.Prerequisite.ExerciseID)
			entry.MissingRequirements = append(entry.MissingRequirements, s.MissingRequirements...)
			progressSum += s.Progress
			if s.Prerequisite.IsRequired {
				requiredCount++
			}
			if s.EstimatedTimeToMeet > entry.EstimatedDays {
				entry.EstimatedDays = s.EstimatedTimeToMeet
			}
		}
		meanProgress := int(math.Round(float64(progressSum) / float64(len(statuses))))
		entry.Priority = e.cfg.weight(cat)*100 + requiredCount*20 + (100 - meanProgress)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}
