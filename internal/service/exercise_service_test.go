package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/publishing"
	"fitforge/exercise-engine/internal/repository"
	"fitforge/exercise-engine/internal/validation"
)

// fakeExerciseRepo is an in-memory ExerciseRepository.
type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[primitive.ObjectID]domain.Exercise{}}
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *ex
	stored.ID = id
	r.exercises[id] = stored
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ex, nil
}

func (r *fakeExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.exercises {
		if strings.EqualFold(ex.Name, name) {
			return &ex, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) GetByOwnerID(_ context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if ex.OwnerID == ownerID {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) GetPublished(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if ex.IsPublished() {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) GetByMuscleGroup(_ context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if ex.IsPublished() && ex.TargetsMuscle(muscle) {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[ex.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[ex.ID] = *ex
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok || ex.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

// fakeStorage records presign and delete calls and returns deterministic
// URLs.
type fakeStorage struct {
	lastUploadKey   string
	lastDownloadKey string
	deletedKeys     []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	f.lastUploadKey = objectKey
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	f.lastDownloadKey = objectKey
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

func newTestService(repo *fakeExerciseRepo) (ExerciseService, *fakeStorage) {
	facade := validation.NewDefaultFacade()
	engine := publishing.NewDefaultEngine(repo, facade, publishing.DefaultQualityApprovalFloor)
	store := &fakeStorage{}
	return NewExerciseService(repo, facade, engine, store), store
}

func draftInput() ExerciseInput {
	return ExerciseInput{
		Name:           "Bodyweight Squat",
		Description:    "A foundational lower-body movement performed without any equipment at all.",
		Type:           domain.TypeStrength,
		Difficulty:     domain.DifficultyBeginnerII,
		PrimaryMuscles: []domain.MuscleGroup{"QUADRICEPS", "GLUTES"},
		Instructions: []string{
			"Stand with feet shoulder-width apart",
			"Lower until thighs are parallel",
			"Drive back up through the heels",
		},
	}
}

func TestCreateDraft(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	assert.False(t, ex.ID.IsZero())
	assert.True(t, ex.IsDraft)
	assert.Equal(t, owner, ex.OwnerID)
	assert.Nil(t, ex.PublishedAt)

	stored, err := repo.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Name, stored.Name)
}

func TestCreateDraftRejectsDuplicateName(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)

	_, err := svc.CreateDraft(context.Background(), primitive.NewObjectID(), draftInput())
	require.NoError(t, err)

	_, err = svc.CreateDraft(context.Background(), primitive.NewObjectID(), draftInput())
	assert.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestUpdateExerciseEnforcesOwnership(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	input := draftInput()
	input.Description = "An updated description that still comfortably clears the length requirements."

	_, err = svc.UpdateExercise(context.Background(), primitive.NewObjectID(), ex.ID, input)
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	updated, err := svc.UpdateExercise(context.Background(), owner, ex.ID, input)
	require.NoError(t, err)
	assert.Equal(t, input.Description, updated.Description)
	assert.Equal(t, ex.CreatedAt, updated.CreatedAt)
}

func TestUpdateKeepsNameWhenUnchanged(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	// Re-submitting with the same name must not trip the uniqueness check.
	_, err = svc.UpdateExercise(context.Background(), owner, ex.ID, draftInput())
	assert.NoError(t, err)
}

func TestDeleteExercise(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	err = svc.DeleteExercise(context.Background(), primitive.NewObjectID(), ex.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteExercise(context.Background(), owner, ex.ID))
	_, err = svc.GetExerciseByID(context.Background(), ex.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublishHappyPath(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	published, result, err := svc.Publish(context.Background(), owner, domain.RoleTrainer, ex.ID, publishing.Context{})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.CanPublish)
	assert.True(t, published.IsPublished())

	stored, err := repo.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished())
}

func TestPublishBlockedLeavesDraftIntact(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	input := draftInput()
	input.Name = "Spinal Decompression Hold"
	input.Type = domain.TypeRehabilitation // no contraindications: compliance blocks

	ex, err := svc.CreateDraft(context.Background(), owner, input)
	require.NoError(t, err)

	published, result, err := svc.Publish(context.Background(), owner, domain.RoleAdmin, ex.ID, publishing.Context{
		MedicalReviewDone: true,
	})
	assert.ErrorIs(t, err, ErrPublicationBlocked)
	assert.Nil(t, published)
	require.NotNil(t, result)
	assert.Contains(t, result.BlockedBy, "ComplianceChecker")

	stored, err := repo.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDraft)
}

func TestPublishApprovalGating(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	input := draftInput()
	input.Name = "Spinal Decompression Hold"
	input.Type = domain.TypeRehabilitation
	input.Contraindications = []string{"Acute disc herniation"}

	ex, err := svc.CreateDraft(context.Background(), owner, input)
	require.NoError(t, err)

	pub := publishing.Context{MedicalReviewDone: true}

	// Rehabilitation content demands admin approval; a trainer cannot
	// self-approve it.
	published, result, err := svc.Publish(context.Background(), owner, domain.RoleTrainer, ex.ID, pub)
	assert.ErrorIs(t, err, ErrApprovalRequired)
	assert.Nil(t, published)
	require.NotNil(t, result)
	assert.Equal(t, domain.RoleAdmin, result.RequiredRole())

	published, _, err = svc.Publish(context.Background(), owner, domain.RoleAdmin, ex.ID, pub)
	require.NoError(t, err)
	assert.True(t, published.IsPublished())
}

func TestPublishTwiceFails(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	_, _, err = svc.Publish(context.Background(), owner, domain.RoleTrainer, ex.ID, publishing.Context{})
	require.NoError(t, err)

	_, _, err = svc.Publish(context.Background(), owner, domain.RoleTrainer, ex.ID, publishing.Context{})
	assert.ErrorIs(t, err, domain.ErrAlreadyPublished)
}

func TestReviewCompletesLifecycle(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()
	reviewer := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	// A draft cannot be reviewed.
	_, err = svc.Review(context.Background(), reviewer, ex.ID)
	assert.ErrorIs(t, err, domain.ErrNotPublished)

	_, _, err = svc.Publish(context.Background(), owner, domain.RoleTrainer, ex.ID, publishing.Context{})
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), reviewer, ex.ID)
	require.NoError(t, err)
	assert.True(t, reviewed.IsReviewed())
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer, *reviewed.ReviewedBy)
}

func TestValidateExerciseModes(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	input := draftInput()
	input.Description = "Brief but valid" // warning territory, no errors
	ex, err := svc.CreateDraft(context.Background(), owner, input)
	require.NoError(t, err)

	draft, err := svc.ValidateExercise(context.Background(), ex.ID, validation.ModeDraft)
	require.NoError(t, err)
	assert.True(t, draft.CanSaveDraft())

	strict, err := svc.ValidateExercise(context.Background(), ex.ID, validation.ModePublication)
	require.NoError(t, err)
	assert.True(t, strict.CanPublish())
	assert.NotEmpty(t, strict.Warnings)

	summary, err := svc.GetValidationSummary(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Less(t, summary.OverallScore, 100)
	assert.Equal(t, 100, summary.ReadinessPercentage)
}

func TestGetPublicationReadiness(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	report, err := svc.GetPublicationReadiness(context.Background(), ex.ID, publishing.Context{})
	require.NoError(t, err)
	assert.Equal(t, 100, report.Score)
	assert.Zero(t, report.Blockers)
}

func TestGenerateMediaUploadURL(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, store := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	_, _, err = svc.GenerateMediaUploadURL(context.Background(), primitive.NewObjectID(), ex.ID, "demo.mp4", "video/mp4")
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	uploadURL, objectKey, err := svc.GenerateMediaUploadURL(context.Background(), owner, ex.ID, "demo.mp4", "video/mp4")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(objectKey, "exercises/"+ex.ID.Hex()+"/media/"))
	assert.True(t, strings.HasSuffix(objectKey, ".mp4"))
	assert.Equal(t, objectKey, store.lastUploadKey)
	assert.Contains(t, uploadURL, objectKey)

	stored, err := repo.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, objectKey, stored.MediaObjectKey)
}

func TestGenerateMediaDownloadURLPresignsStoredKey(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, store := newTestService(repo)
	owner := primitive.NewObjectID()

	input := draftInput()
	input.VideoURL = "https://cdn.example.com/videos/squat.mp4"
	ex, err := svc.CreateDraft(context.Background(), owner, input)
	require.NoError(t, err)

	// An external video URL is not an object in our bucket; without an
	// uploaded object there is nothing to presign.
	_, err = svc.GenerateMediaDownloadURL(context.Background(), ex.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.lastDownloadKey)

	_, objectKey, err := svc.GenerateMediaUploadURL(context.Background(), owner, ex.ID, "squat.mp4", "video/mp4")
	require.NoError(t, err)

	downloadURL, err := svc.GenerateMediaDownloadURL(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, objectKey, store.lastDownloadKey)
	assert.Contains(t, downloadURL, objectKey)
}

func TestReuploadReplacesPreviousMediaObject(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, store := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	_, first, err := svc.GenerateMediaUploadURL(context.Background(), owner, ex.ID, "take1.mp4", "video/mp4")
	require.NoError(t, err)
	_, second, err := svc.GenerateMediaUploadURL(context.Background(), owner, ex.ID, "take2.mp4", "video/mp4")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.Equal(t, []string{first}, store.deletedKeys)
	stored, err := repo.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, second, stored.MediaObjectKey)
}

func TestDeleteExerciseRemovesUploadedMedia(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, store := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)
	_, objectKey, err := svc.GenerateMediaUploadURL(context.Background(), owner, ex.ID, "demo.mp4", "video/mp4")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(context.Background(), owner, ex.ID))
	assert.Equal(t, []string{objectKey}, store.deletedKeys)
}

func TestGetExercisesByMuscle(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	squat, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	pull := draftInput()
	pull.Name = "Band Pull Apart"
	pull.PrimaryMuscles = []domain.MuscleGroup{"UPPER_BACK"}
	row, err := svc.CreateDraft(context.Background(), owner, pull)
	require.NoError(t, err)

	for _, id := range []primitive.ObjectID{squat.ID, row.ID} {
		_, _, err := svc.Publish(context.Background(), owner, domain.RoleTrainer, id, publishing.Context{})
		require.NoError(t, err)
	}

	matches, err := svc.GetExercisesByMuscle(context.Background(), "UPPER_BACK")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Band Pull Apart", matches[0].Name)
}

func TestGenerateMediaDownloadURLNeedsMedia(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc, _ := newTestService(repo)
	owner := primitive.NewObjectID()

	ex, err := svc.CreateDraft(context.Background(), owner, draftInput())
	require.NoError(t, err)

	_, err = svc.GenerateMediaDownloadURL(context.Background(), ex.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
