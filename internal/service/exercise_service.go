package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/publishing"
	"fitforge/exercise-engine/internal/repository"
	"fitforge/exercise-engine/internal/storage"
	"fitforge/exercise-engine/internal/validation"
)

// --- Error Definitions ---
var (
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrDraftInvalid         = errors.New("exercise fails draft validation")
	ErrPublicationBlocked   = errors.New("publication blocked by publishing rules")
	ErrApprovalRequired     = errors.New("publication requires approval by a qualifying role")
)

// ExerciseInput carries the author-editable fields of an exercise.
type ExerciseInput struct {
	Name              string
	Description       string
	Type              domain.ExerciseType
	Difficulty        domain.Difficulty
	PrimaryMuscles    []domain.MuscleGroup
	SecondaryMuscles  []domain.MuscleGroup
	Equipment         []string
	Instructions      []string
	Progressions      []string
	Contraindications []string
	Prerequisites     []domain.Prerequisite
	EstimatedDuration int
	VideoURL          string
}

// ExerciseService drives the draft/publish lifecycle of exercise content.
type ExerciseService interface {
	CreateDraft(ctx context.Context, ownerID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error)
	GetPublishedExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercisesByMuscle(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error)
	DeleteExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID) error

	ValidateExercise(ctx context.Context, exerciseID primitive.ObjectID, mode validation.Mode) (validation.Result, error)
	GetValidationSummary(ctx context.Context, exerciseID primitive.ObjectID) (validation.Summary, error)

	Publish(ctx context.Context, ownerID primitive.ObjectID, ownerRole domain.Role, exerciseID primitive.ObjectID, pub publishing.Context) (*domain.Exercise, *publishing.Result, error)
	GetPublicationReadiness(ctx context.Context, exerciseID primitive.ObjectID, pub publishing.Context) (publishing.ReadinessReport, error)
	Review(ctx context.Context, reviewerID primitive.ObjectID, exerciseID primitive.ObjectID) (*domain.Exercise, error)

	GenerateMediaUploadURL(ctx context.Context, ownerID, exerciseID primitive.ObjectID, fileName, contentType string) (uploadURL, objectKey string, err error)
	GenerateMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	validator    *validation.Facade
	publisher    *publishing.Engine
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	validator *validation.Facade,
	publisher *publishing.Engine,
	fileStorage storage.FileStorage,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		validator:    validator,
		publisher:    publisher,
		fileStorage:  fileStorage,
	}
}

// CreateDraft builds a new draft from the input, runs draft validation and
// persists it. Exercise names are unique across the library.
func (s *exerciseService) CreateDraft(ctx context.Context, ownerID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create an exercise")
	}
	if err := s.checkNameAvailable(ctx, input.Name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	exercise, err := applyInput(domain.NewExerciseBuilder(ownerID), input).Build(time.Now())
	if err != nil {
		return nil, err
	}

	if result := s.validator.ValidateForDraft(exercise); !result.CanSaveDraft() {
		return nil, fmt.Errorf("%w: %s", ErrDraftInvalid, result.Errors[0].Message)
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, &exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// UpdateExercise applies the input to a copy of the stored snapshot and
// persists the copy, enforcing ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	existing, err := s.getOwned(ctx, ownerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if input.Name != existing.Name {
		if err := s.checkNameAvailable(ctx, input.Name, exerciseID); err != nil {
			return nil, err
		}
	}

	updated, err := applyInput(domain.BuilderFrom(*existing), input).Build(time.Now())
	if err != nil {
		return nil, err
	}

	if result := s.validator.ValidateForDraft(updated); !result.CanSaveDraft() {
		return nil, fmt.Errorf("%w: %s", ErrDraftInvalid, result.Errors[0].Message)
	}

	if err := s.exerciseRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(exerciseID)
		}
		return nil, err
	}
	return &updated, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(exerciseID)
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByOwner retrieves all exercises authored by one trainer.
func (s *exerciseService) GetExercisesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID cannot be nil")
	}
	return s.exerciseRepo.GetByOwnerID(ctx, ownerID)
}

// GetPublishedExercises retrieves the published library.
func (s *exerciseService) GetPublishedExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetPublished(ctx)
}

// GetExercisesByMuscle retrieves published exercises whose primary muscles
// include the given group.
func (s *exerciseService) GetExercisesByMuscle(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error) {
	if muscle == "" {
		return nil, errors.New("muscle group is required")
	}
	return s.exerciseRepo.GetByMuscleGroup(ctx, muscle)
}

// DeleteExercise removes an exercise, enforcing ownership via the
// repository's combined filter. Uploaded media goes with it.
func (s *exerciseService) DeleteExercise(ctx context.Context, ownerID, exerciseID primitive.ObjectID) error {
	if ownerID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return errors.New("owner ID and exercise ID are required")
	}
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(exerciseID)
		}
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, exerciseID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(exerciseID)
		}
		return err
	}
	if existing.MediaObjectKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, existing.MediaObjectKey); err != nil {
			log.Printf("WARN: failed to delete media object %s: %v", existing.MediaObjectKey, err)
		}
	}
	return nil
}

// ValidateExercise runs the requested validation pass over the stored
// snapshot.
func (s *exerciseService) ValidateExercise(ctx context.Context, exerciseID primitive.ObjectID, mode validation.Mode) (validation.Result, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return validation.Result{}, err
	}
	if mode == validation.ModeDraft {
		return s.validator.ValidateForDraft(*exercise), nil
	}
	return s.validator.ValidateForPublication(*exercise), nil
}

// GetValidationSummary reports completeness and readiness percentages.
func (s *exerciseService) GetValidationSummary(ctx context.Context, exerciseID primitive.ObjectID) (validation.Summary, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return validation.Summary{}, err
	}
	return s.validator.Summarize(*exercise), nil
}

// Publish transitions a draft to published. The draft's publication
// invariants are re-checked, the publishing rule set runs over the
// published candidate, and an approval-gated result only proceeds when the
// publisher's role qualifies. The decision result is returned alongside
// any error so callers can surface the rule breakdown.
func (s *exerciseService) Publish(ctx context.Context, ownerID primitive.ObjectID, ownerRole domain.Role, exerciseID primitive.ObjectID, pub publishing.Context) (*domain.Exercise, *publishing.Result, error) {
	existing, err := s.getOwned(ctx, ownerID, exerciseID)
	if err != nil {
		return nil, nil, err
	}

	candidate, err := existing.Publish(time.Now())
	if err != nil {
		return nil, nil, err
	}

	result := s.publisher.Evaluate(ctx, candidate, pub)
	if !result.CanPublish {
		return nil, &result, ErrPublicationBlocked
	}
	if result.RequiresApproval {
		required := result.RequiredRole()
		if required == "" {
			required = domain.RoleTrainer
		}
		if !ownerRole.CanApprove(required) {
			return nil, &result, ErrApprovalRequired
		}
	}

	if err := s.exerciseRepo.Update(ctx, &candidate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &result, notFoundError(exerciseID)
		}
		return nil, &result, err
	}
	return &candidate, &result, nil
}

// GetPublicationReadiness reports how close an exercise is to publishable
// without attempting the transition.
func (s *exerciseService) GetPublicationReadiness(ctx context.Context, exerciseID primitive.ObjectID, pub publishing.Context) (publishing.ReadinessReport, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return publishing.ReadinessReport{}, err
	}
	return s.publisher.Readiness(ctx, *exercise, pub), nil
}

// Review records a reviewer on a published exercise, completing the
// lifecycle at Published-Reviewed.
func (s *exerciseService) Review(ctx context.Context, reviewerID primitive.ObjectID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	reviewed, err := exercise.Review(reviewerID, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.exerciseRepo.Update(ctx, &reviewed); err != nil {
		return nil, err
	}
	return &reviewed, nil
}

// GenerateMediaUploadURL creates a presigned PUT URL for an exercise demo
// video. The object key is recorded on the exercise so downloads and
// deletion can locate the object later; a previously uploaded object is
// removed once it is superseded.
func (s *exerciseService) GenerateMediaUploadURL(ctx context.Context, ownerID, exerciseID primitive.ObjectID, fileName, contentType string) (string, string, error) {
	owned, err := s.getOwned(ctx, ownerID, exerciseID)
	if err != nil {
		return "", "", err
	}

	objectKey := fmt.Sprintf("exercises/%s/media/%s%s", exerciseID.Hex(), uuid.NewString(), path.Ext(fileName))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}

	updated := owned.AttachMedia(objectKey, time.Now())
	if err := s.exerciseRepo.Update(ctx, &updated); err != nil {
		return "", "", err
	}
	if prev := owned.MediaObjectKey; prev != "" && prev != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, prev); err != nil {
			log.Printf("WARN: failed to delete superseded media object %s: %v", prev, err)
		}
	}
	return uploadURL, objectKey, nil
}

// GenerateMediaDownloadURL creates a presigned GET URL for the exercise's
// uploaded demo media. An external VideoURL is not an object in our bucket,
// so only the recorded object key is ever presigned.
func (s *exerciseService) GenerateMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return "", err
	}
	if exercise.MediaObjectKey == "" {
		return "", &domain.Error{Field: "media", Code: domain.CodeNotFound,
			Message: "exercise has no uploaded media"}
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.MediaObjectKey, storage.DefaultPresignedURLExpiry)
}

// --- helpers ---

func (s *exerciseService) getOwned(ctx context.Context, ownerID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if exercise.OwnerID != ownerID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

func (s *exerciseService) checkNameAvailable(ctx context.Context, name string, selfID primitive.ObjectID) error {
	existing, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return &domain.Error{Field: "name", Value: name, Code: domain.CodeNameTaken,
			Message: "an exercise with this name already exists"}
	}
	return nil
}

func notFoundError(id primitive.ObjectID) error {
	return &domain.Error{Field: "id", Value: id.Hex(), Code: domain.CodeNotFound,
		Message: "exercise not found"}
}

func applyInput(b *domain.ExerciseBuilder, input ExerciseInput) *domain.ExerciseBuilder {
	b = b.Name(input.Name).
		Description(input.Description).
		PrimaryMuscles(input.PrimaryMuscles...).
		SecondaryMuscles(input.SecondaryMuscles...).
		Equipment(input.Equipment...).
		Instructions(input.Instructions...).
		Progressions(input.Progressions...).
		Contraindications(input.Contraindications...).
		Prerequisites(input.Prerequisites...).
		EstimatedDuration(input.EstimatedDuration).
		VideoURL(input.VideoURL)
	if input.Type != "" {
		b = b.Type(input.Type)
	}
	if input.Difficulty != "" {
		b = b.Difficulty(input.Difficulty)
	}
	return b
}
