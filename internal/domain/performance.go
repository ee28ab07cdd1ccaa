package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserPerformance captures a user's recorded bests for one exercise. Records
// are supplied by the tracking side of the system and are read-only inputs
// to the readiness engine.
type UserPerformance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`

	BestReps       int     `bson:"bestReps,omitempty" json:"bestReps,omitempty"`
	BestHoldTime   int     `bson:"bestHoldTime,omitempty" json:"bestHoldTime,omitempty"` // Seconds
	BestDuration   int     `bson:"bestDuration,omitempty" json:"bestDuration,omitempty"` // Seconds
	BestWeight     float64 `bson:"bestWeight,omitempty" json:"bestWeight,omitempty"`     // Kilograms
	ConsistentDays int     `bson:"consistentDays,omitempty" json:"consistentDays,omitempty"`
	FormQuality    float64 `bson:"formQuality,omitempty" json:"formQuality,omitempty"` // 0-10 scale

	TotalSessions int       `bson:"totalSessions" json:"totalSessions"`
	LastPerformed time.Time `bson:"lastPerformed" json:"lastPerformed"`

	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Metric returns the recorded value for a prerequisite category.
func (p UserPerformance) Metric(c PrerequisiteCategory) float64 {
	switch c {
	case CategoryReps:
		return float64(p.BestReps)
	case CategoryHoldTime:
		return float64(p.BestHoldTime)
	case CategoryDuration:
		return float64(p.BestDuration)
	case CategoryWeight:
		return p.BestWeight
	case CategoryConsistency:
		return float64(p.ConsistentDays)
	case CategoryForm:
		return p.FormQuality
	}
	return 0
}

// PopulatedMetrics counts how many of the six metrics carry a value. It
// feeds the data-quality classification.
func (p UserPerformance) PopulatedMetrics() int {
	n := 0
	if p.BestReps > 0 {
		n++
	}
	if p.BestHoldTime > 0 {
		n++
	}
	if p.BestDuration > 0 {
		n++
	}
	if p.BestWeight > 0 {
		n++
	}
	if p.ConsistentDays > 0 {
		n++
	}
	if p.FormQuality > 0 {
		n++
	}
	return n
}

// DaysSinceLastPerformed returns whole days elapsed since the record was
// last refreshed, never negative.
func (p UserPerformance) DaysSinceLastPerformed(now time.Time) int {
	d := int(now.Sub(p.LastPerformed).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
