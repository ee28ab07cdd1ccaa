package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrerequisiteCategory names the performance metric a prerequisite measures.
type PrerequisiteCategory string

const (
	CategoryReps        PrerequisiteCategory = "REPS"
	CategoryHoldTime    PrerequisiteCategory = "HOLD_TIME"
	CategoryForm        PrerequisiteCategory = "FORM"
	CategoryDuration    PrerequisiteCategory = "DURATION"
	CategoryWeight      PrerequisiteCategory = "WEIGHT"
	CategoryConsistency PrerequisiteCategory = "CONSISTENCY"
)

// IsValid reports whether c is a known category.
func (c PrerequisiteCategory) IsValid() bool {
	switch c {
	case CategoryReps, CategoryHoldTime, CategoryForm, CategoryDuration,
		CategoryWeight, CategoryConsistency:
		return true
	}
	return false
}

// Prerequisite is a minimum-performance threshold on a referenced exercise
// that gates readiness (not access) for the exercise owning it.
type Prerequisite struct {
	ExerciseID     primitive.ObjectID   `bson:"exerciseId" json:"exerciseId"` // The exercise the user must perform
	Category       PrerequisiteCategory `bson:"category" json:"category"`
	MinRecommended float64              `bson:"minRecommended" json:"minRecommended"` // Always > 0
	IsRequired     bool                 `bson:"isRequired,omitempty" json:"isRequired,omitempty"`
}
