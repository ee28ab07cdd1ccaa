package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseBuilder accumulates fields fluently and produces an immutable
// Exercise on Build. New exercises always start life as drafts.
type ExerciseBuilder struct {
	ex Exercise
}

// NewExerciseBuilder starts a builder for an exercise owned by ownerID.
func NewExerciseBuilder(ownerID primitive.ObjectID) *ExerciseBuilder {
	return &ExerciseBuilder{ex: Exercise{
		OwnerID:    ownerID,
		Type:       TypeStrength,
		Difficulty: DifficultyBeginnerI,
		IsDraft:    true,
	}}
}

// BuilderFrom starts a builder pre-loaded with an existing exercise, for
// copy-on-write updates. Identity and lifecycle fields carry over.
func BuilderFrom(e Exercise) *ExerciseBuilder {
	return &ExerciseBuilder{ex: e.clone()}
}

func (b *ExerciseBuilder) Name(name string) *ExerciseBuilder {
	b.ex.Name = name
	return b
}

func (b *ExerciseBuilder) Description(description string) *ExerciseBuilder {
	b.ex.Description = description
	return b
}

func (b *ExerciseBuilder) Type(t ExerciseType) *ExerciseBuilder {
	b.ex.Type = t
	return b
}

func (b *ExerciseBuilder) Difficulty(d Difficulty) *ExerciseBuilder {
	b.ex.Difficulty = d
	return b
}

func (b *ExerciseBuilder) PrimaryMuscles(muscles ...MuscleGroup) *ExerciseBuilder {
	b.ex.PrimaryMuscles = append([]MuscleGroup(nil), muscles...)
	return b
}

func (b *ExerciseBuilder) SecondaryMuscles(muscles ...MuscleGroup) *ExerciseBuilder {
	b.ex.SecondaryMuscles = append([]MuscleGroup(nil), muscles...)
	return b
}

func (b *ExerciseBuilder) Equipment(equipment ...string) *ExerciseBuilder {
	b.ex.Equipment = append([]string(nil), equipment...)
	return b
}

func (b *ExerciseBuilder) Instructions(steps ...string) *ExerciseBuilder {
	b.ex.Instructions = append([]string(nil), steps...)
	return b
}

func (b *ExerciseBuilder) Progressions(progressions ...string) *ExerciseBuilder {
	b.ex.Progressions = append([]string(nil), progressions...)
	return b
}

func (b *ExerciseBuilder) Contraindications(notes ...string) *ExerciseBuilder {
	b.ex.Contraindications = append([]string(nil), notes...)
	return b
}

func (b *ExerciseBuilder) Prerequisites(prereqs ...Prerequisite) *ExerciseBuilder {
	b.ex.Prerequisites = append([]Prerequisite(nil), prereqs...)
	return b
}

func (b *ExerciseBuilder) EstimatedDuration(minutes int) *ExerciseBuilder {
	b.ex.EstimatedDuration = minutes
	return b
}

func (b *ExerciseBuilder) VideoURL(url string) *ExerciseBuilder {
	b.ex.VideoURL = url
	return b
}

// Build performs the draft invariant checks (name, description and primary
// muscles present) and returns the frozen entity. The full publication rule
// set runs later, at publish time.
func (b *ExerciseBuilder) Build(now time.Time) (Exercise, error) {
	switch {
	case b.ex.Name == "":
		return Exercise{}, &Error{Field: "name", Code: CodeInvalidField,
			Message: "exercise name is required"}
	case b.ex.Description == "":
		return Exercise{}, &Error{Field: "description", Code: CodeInvalidField,
			Message: "exercise description is required"}
	case len(b.ex.PrimaryMuscles) == 0:
		return Exercise{}, &Error{Field: "primaryMuscles", Code: CodeInvalidField,
			Message: "at least one primary muscle is required"}
	case !b.ex.Difficulty.IsValid():
		return Exercise{}, &Error{Field: "difficulty", Value: string(b.ex.Difficulty),
			Code: CodeInvalidField, Message: "unknown difficulty level"}
	}
	for _, p := range b.ex.Prerequisites {
		if p.MinRecommended <= 0 {
			return Exercise{}, &Error{Field: "prerequisites", Code: CodeInvalidField,
				Message: "prerequisite minimum must be greater than zero"}
		}
		if !p.Category.IsValid() {
			return Exercise{}, &Error{Field: "prerequisites", Value: string(p.Category),
				Code: CodeInvalidField, Message: "unknown prerequisite category"}
		}
	}
	e := b.ex.clone()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
	e.UpdatedAt = now.UTC()
	return e, nil
}
