package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/readiness"
	"fitforge/exercise-engine/internal/recommend"
	"fitforge/exercise-engine/internal/repository"
)

// PerformanceInsight pairs one performance record with the engine's
// trust assessment of it.
type PerformanceInsight struct {
	Performance domain.UserPerformance `json:"performance"`
	Confidence  int                    `json:"confidence"`
	Freshness   readiness.Freshness    `json:"freshness"`
	DataQuality readiness.DataQuality  `json:"dataQuality"`
}

// RecommendationService ranks the published library for a user and exposes
// per-exercise readiness.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID primitive.ObjectID, criteria recommend.Criteria) (recommend.Result, error)
	GetExerciseReadiness(ctx context.Context, userID, exerciseID primitive.ObjectID) (readiness.Readiness, error)
	GetPerformanceInsights(ctx context.Context, userID primitive.ObjectID) ([]PerformanceInsight, error)
}

// recommendationService implements the RecommendationService interface.
type recommendationService struct {
	exerciseRepo    repository.ExerciseRepository
	performanceRepo repository.PerformanceRepository
	userRepo        repository.UserRepository
	engine          *readiness.Engine
	scorer          *recommend.Scorer
}

// NewRecommendationService creates a new instance of recommendationService.
func NewRecommendationService(
	exerciseRepo repository.ExerciseRepository,
	performanceRepo repository.PerformanceRepository,
	userRepo repository.UserRepository,
	engine *readiness.Engine,
	scorer *recommend.Scorer,
) RecommendationService {
	return &recommendationService{
		exerciseRepo:    exerciseRepo,
		performanceRepo: performanceRepo,
		userRepo:        userRepo,
		engine:          engine,
		scorer:          scorer,
	}
}

// GetRecommendations loads the published candidate set and the user's
// performance history, defaults the fitness level from the user's profile
// when the criteria leave it unset, and runs the scorer.
func (s *recommendationService) GetRecommendations(ctx context.Context, userID primitive.ObjectID, criteria recommend.Criteria) (recommend.Result, error) {
	if userID == primitive.NilObjectID {
		return recommend.Result{}, errors.New("user ID is required for recommendations")
	}

	if criteria.FitnessLevel == "" {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err == nil && user.FitnessLevel.IsValid() {
			criteria.FitnessLevel = user.FitnessLevel
		}
	}
	if criteria.PrerequisiteMode == "" {
		criteria.PrerequisiteMode = recommend.ModeRecommended
	}

	candidates, err := s.exerciseRepo.GetPublished(ctx)
	if err != nil {
		return recommend.Result{}, err
	}
	history, err := s.performanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return recommend.Result{}, err
	}

	return s.scorer.Recommend(candidates, history, criteria), nil
}

// GetExerciseReadiness evaluates the user's readiness for one exercise.
func (s *recommendationService) GetExerciseReadiness(ctx context.Context, userID, exerciseID primitive.ObjectID) (readiness.Readiness, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return readiness.Readiness{}, notFoundError(exerciseID)
		}
		return readiness.Readiness{}, err
	}
	history, err := s.performanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return readiness.Readiness{}, err
	}
	return s.engine.EvaluateExercise(*exercise, history), nil
}

// GetPerformanceInsights returns confidence, freshness and data quality for
// every record in the user's history.
func (s *recommendationService) GetPerformanceInsights(ctx context.Context, userID primitive.ObjectID) ([]PerformanceInsight, error) {
	history, err := s.performanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	insights := make([]PerformanceInsight, 0, len(history))
	for _, perf := range history {
		insights = append(insights, PerformanceInsight{
			Performance: perf,
			Confidence:  s.engine.Confidence(perf, now),
			Freshness:   s.engine.FreshnessOf(perf, now),
			DataQuality: s.engine.DataQualityOf(perf),
		})
	}
	return insights, nil
}
