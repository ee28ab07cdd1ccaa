package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/repository"
)

// PerformanceInput carries the tracked metrics for one exercise session
// summary.
type PerformanceInput struct {
	BestReps       int
	BestHoldTime   int
	BestDuration   int
	BestWeight     float64
	ConsistentDays int
	FormQuality    float64
	TotalSessions  int
	LastPerformed  time.Time
}

// PerformanceService records and retrieves user performance data.
type PerformanceService interface {
	RecordPerformance(ctx context.Context, userID, exerciseID primitive.ObjectID, input PerformanceInput) error
	GetHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.UserPerformance, error)
}

// performanceService implements the PerformanceService interface.
type performanceService struct {
	performanceRepo repository.PerformanceRepository
	exerciseRepo    repository.ExerciseRepository
}

// NewPerformanceService creates a new instance of performanceService.
func NewPerformanceService(performanceRepo repository.PerformanceRepository, exerciseRepo repository.ExerciseRepository) PerformanceService {
	return &performanceService{
		performanceRepo: performanceRepo,
		exerciseRepo:    exerciseRepo,
	}
}

// RecordPerformance upserts the (user, exercise) record after verifying the
// exercise exists and the metrics are in range.
func (s *performanceService) RecordPerformance(ctx context.Context, userID, exerciseID primitive.ObjectID, input PerformanceInput) error {
	if userID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return errors.New("user ID and exercise ID are required")
	}
	if input.FormQuality < 0 || input.FormQuality > 10 {
		return &domain.Error{Field: "formQuality", Code: domain.CodeInvalidField,
			Message: "form quality must be between 0 and 10"}
	}

	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(exerciseID)
		}
		return err
	}

	lastPerformed := input.LastPerformed
	if lastPerformed.IsZero() {
		lastPerformed = time.Now().UTC()
	}

	perf := &domain.UserPerformance{
		UserID:         userID,
		ExerciseID:     exerciseID,
		BestReps:       input.BestReps,
		BestHoldTime:   input.BestHoldTime,
		BestDuration:   input.BestDuration,
		BestWeight:     input.BestWeight,
		ConsistentDays: input.ConsistentDays,
		FormQuality:    input.FormQuality,
		TotalSessions:  input.TotalSessions,
		LastPerformed:  lastPerformed,
	}
	return s.performanceRepo.Upsert(ctx, perf)
}

// GetHistory returns the user's full performance history.
func (s *performanceService) GetHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.UserPerformance, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID cannot be nil")
	}
	return s.performanceRepo.GetByUserID(ctx, userID)
}
