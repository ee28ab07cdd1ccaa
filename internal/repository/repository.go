package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository defines the interface for interacting with exercise
// content. The rule engines consume only the read side of this interface
// and never mutate through it.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error)
	GetPublished(ctx context.Context) ([]domain.Exercise, error)
	GetByMuscleGroup(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID primitive.ObjectID) error // Owner must match
}

// PerformanceRepository defines the interface for interacting with user
// performance records. The readiness engine treats these as read-only
// inputs; the tracking side writes them through Upsert.
type PerformanceRepository interface {
	Upsert(ctx context.Context, perf *domain.UserPerformance) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.UserPerformance, error)
	GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.UserPerformance, error)
}
