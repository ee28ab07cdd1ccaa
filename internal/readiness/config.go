package readiness

import "fitforge/exercise-engine/internal/domain"

// Freshness classifies how recently a performance record was refreshed.
type Freshness string

const (
	FreshnessCurrent Freshness = "current"
	FreshnessRecent  Freshness = "recent"
	FreshnessDated   Freshness = "dated"
	FreshnessStale   Freshness = "stale"
)

// DataQuality grades how much signal a performance record carries.
type DataQuality string

const (
	QualityPoor      DataQuality = "poor"
	QualityFair      DataQuality = "fair"
	QualityGood      DataQuality = "good"
	QualityExcellent DataQuality = "excellent"
)

// Config carries the engine thresholds. Engines receive it by injection;
// there is no package-level mutable state.
type Config struct {
	// Freshness boundaries, inclusive, in days since last performed.
	CurrentMaxDays int
	RecentMaxDays  int
	DatedMaxDays   int

	// NearlyReadyFloor is the progress percentage at which an unmet
	// prerequisite counts as nearly ready.
	NearlyReadyFloor int

	// CategoryWeights bias improvement-plan priorities toward the
	// categories that matter most for safe progression.
	CategoryWeights map[domain.PrerequisiteCategory]int
}

// DefaultConfig returns the standard thresholds: 7/30/90 day freshness and
// form-first category weighting.
func DefaultConfig() Config {
	return Config{
		CurrentMaxDays:   7,
		RecentMaxDays:    30,
		DatedMaxDays:     90,
		NearlyReadyFloor: 70,
		CategoryWeights: map[domain.PrerequisiteCategory]int{
			domain.CategoryForm:        3,
			domain.CategoryReps:        2,
			domain.CategoryHoldTime:    2,
			domain.CategoryDuration:    2,
			domain.CategoryWeight:      2,
			domain.CategoryConsistency: 1,
		},
	}
}

func (c Config) weight(cat domain.PrerequisiteCategory) int {
	if w, ok := c.CategoryWeights[cat]; ok {
		return w
	}
	return 1
}
