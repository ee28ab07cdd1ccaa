package readiness

import (
	"fmt"
	"math"
	"time"

	"fitforge/exercise-engine/internal/domain"
)

// Days assumed until a prerequisite can be met when no performance data
// exists at all.
const noDataEstimateDays = 30

// PrerequisiteStatus is the evaluation of one prerequisite against a user's
// recorded performance.
type PrerequisiteStatus struct {
	Prerequisite        domain.Prerequisite `json:"prerequisite"`
	IsMet               bool                `json:"isMet"`
	Progress            int                 `json:"progress"` // 0..100
	ReadinessScore      int                 `json:"readinessScore"`
	MissingRequirements []string            `json:"missingRequirements"`
	EstimatedTimeToMeet int                 `json:"estimatedTimeToMeet"` // Days
}

// Readiness is the aggregate readiness of a user for one exercise.
type Readiness struct {
	OverallReadiness  int                                 `json:"overallReadiness"`
	CategoryReadiness map[domain.PrerequisiteCategory]int `json:"categoryReadiness"`
	Ready             []PrerequisiteStatus                `json:"readyPrerequisites"`
	NearlyReady       []PrerequisiteStatus                `json:"nearlyReadyPrerequisites"`
	Missing           []PrerequisiteStatus                `json:"missingPrerequisites"`
	ImprovementPlan   []PlanEntry                         `json:"improvementPlan"`
}

// Engine evaluates prerequisites against performance records. It is pure:
// all inputs are immutable snapshots and no state is kept between calls.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	if cfg.CurrentMaxDays <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// EvaluatePrerequisite scores one prerequisite. perf is the user's record
// for the referenced exercise, or nil when none exists.
func (e *Engine) EvaluatePrerequisite(p domain.Prerequisite, perf *domain.UserPerformance) PrerequisiteStatus {
	if perf == nil {
		return PrerequisiteStatus{
			Prerequisite:        p,
			MissingRequirements: []string{"No performance data available"},
			EstimatedTimeToMeet: noDataEstimateDays,
		}
	}

	current := perf.Metric(p.Category)
	met := current >= p.MinRecommended

	// Progress truncates rather than rounds so an unmet prerequisite never
	// shows 100%.
	progress := int(current / p.MinRecommended * 100)
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	status := PrerequisiteStatus{
		Prerequisite:        p,
		IsMet:               met,
		Progress:            progress,
		ReadinessScore:      progress,
		MissingRequirements: []string{},
	}
	if !met {
		status.MissingRequirements = append(status.MissingRequirements, deficitMessage(p, current))
		days := int(math.Round((p.MinRecommended - current) * 2))
		if days < 7 {
			days = 7
		}
		status.EstimatedTimeToMeet = days
	}
	return status
}

// EvaluateExercise evaluates every prerequisite on ex against the user's
// performance history and aggregates overall and per-category readiness.
// Exercises without prerequisites are always fully ready.
func (e *Engine) EvaluateExercise(ex domain.Exercise, history []domain.UserPerformance) Readiness {
	r := Readiness{
		CategoryReadiness: map[domain.PrerequisiteCategory]int{},
		Ready:             []PrerequisiteStatus{},
		NearlyReady:       []PrerequisiteStatus{},
		Missing:           []PrerequisiteStatus{},
		ImprovementPlan:   []PlanEntry{},
	}
	if len(ex.Prerequisites) == 0 {
		r.OverallReadiness = 100
		return r
	}

	byExercise := indexByExercise(history)

	total := 0
	categoryTotals := map[domain.PrerequisiteCategory][]int{}
	var unmet []PrerequisiteStatus
	for _, p := range ex.Prerequisites {
		status := e.EvaluatePrerequisite(p, byExercise[p.ExerciseID.Hex()])
		total += status.Progress
		categoryTotals[p.Category] = append(categoryTotals[p.Category], status.Progress)

		switch {
		case status.IsMet:
			r.Ready = append(r.Ready, status)
		case status.Progress >= e.cfg.NearlyReadyFloor:
			r.NearlyReady = append(r.NearlyReady, status)
			unmet = append(unmet, status)
		default:
			r.Missing = append(r.Missing, status)
			unmet = append(unmet, status)
		}
	}

	r.OverallReadiness = int(math.Round(float64(total) / float64(len(ex.Prerequisites))))
	for cat, progresses := range categoryTotals {
		sum := 0
		for _, p := range progresses {
			sum += p
		}
		r.CategoryReadiness[cat] = int(math.Round(float64(sum) / float64(len(progresses))))
	}
	r.ImprovementPlan = e.BuildImprovementPlan(unmet)
	return r
}

// IsRecommendedFor decides whether the user is fit to attempt ex. Exercises
// without prerequisites are always recommended. When any prerequisite is
// required, all required ones must be met; otherwise meeting 60% of the set
// suffices.
func (e *Engine) IsRecommendedFor(ex domain.Exercise, history []domain.UserPerformance) bool {
	if len(ex.Prerequisites) == 0 {
		return true
	}

	byExercise := indexByExercise(history)

	hasRequired := false
	metCount := 0
	for _, p := range ex.Prerequisites {
		status := e.EvaluatePrerequisite(p, byExercise[p.ExerciseID.Hex()])
		if p.IsRequired {
			hasRequired = true
			if !status.IsMet {
				return false
			}
		}
		if status.IsMet {
			metCount++
		}
	}
	if hasRequired {
		return true
	}
	needed := int(math.Ceil(0.6 * float64(len(ex.Prerequisites))))
	return metCount >= needed
}

// Confidence estimates how trustworthy a readiness measurement over perf
// is: session volume builds it, staleness erodes it, good form boosts it.
func (e *Engine) Confidence(perf domain.UserPerformance, now time.Time) int {
	sessionConfidence := math.Min(100, float64(perf.TotalSessions)/10*100)
	recencyPenalty := math.Min(50, float64(perf.DaysSinceLastPerformed(now))*2)
	formBonus := math.Max(0, (perf.FormQuality-5)*5)

	confidence := sessionConfidence - recencyPenalty + formBonus
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return int(math.Round(confidence))
}

// FreshnessOf classifies how recently the record was refreshed against the
// configured boundaries.
func (e *Engine) FreshnessOf(perf domain.UserPerformance, now time.Time) Freshness {
	days := perf.DaysSinceLastPerformed(now)
	switch {
	case days <= e.cfg.CurrentMaxDays:
		return FreshnessCurrent
	case days <= e.cfg.RecentMaxDays:
		return FreshnessRecent
	case days <= e.cfg.DatedMaxDays:
		return FreshnessDated
	default:
		return FreshnessStale
	}
}

// DataQualityOf grades the record by session volume and metric coverage.
func (e *Engine) DataQualityOf(perf domain.UserPerformance) DataQuality {
	metrics := perf.PopulatedMetrics()
	switch {
	case perf.TotalSessions >= 20 && metrics >= 4:
		return QualityExcellent
	case perf.TotalSessions >= 10 && metrics >= 3:
		return QualityGood
	case perf.TotalSessions >= 5 || metrics >= 2:
		return QualityFair
	default:
		return QualityPoor
	}
}

func indexByExercise(history []domain.UserPerformance) map[string]*domain.UserPerformance {
	byExercise := make(map[string]*domain.UserPerformance, len(history))
	for i := range history {
		byExercise[history[i].ExerciseID.Hex()] = &history[i]
	}
	return byExercise
}

func deficitMessage(p domain.Prerequisite, current float64) string {
	gap := p.MinRecommended - current
	switch p.Category {
	case domain.CategoryReps:
		return fmt.Sprintf("Need %d more reps", int(math.Ceil(gap)))
	case domain.CategoryHoldTime:
		return fmt.Sprintf("Need %d more seconds of hold time", int(math.Ceil(gap)))
	case domain.CategoryDuration:
		return fmt.Sprintf("Need %d more seconds of duration", int(math.Ceil(gap)))
	case domain.CategoryWeight:
		return fmt.Sprintf("Need %.1f more kg", gap)
	case domain.CategoryConsistency:
		return fmt.Sprintf("Need %d more consistent days", int(math.Ceil(gap)))
	case domain.CategoryForm:
		return fmt.Sprintf("Improve form quality by %.1f points", gap)
	default:
		return fmt.Sprintf("Need %.1f more to meet the recommended minimum", gap)
	}
}
