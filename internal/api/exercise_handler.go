package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/publishing"
	"fitforge/exercise-engine/internal/service"
	"fitforge/exercise-engine/internal/validation"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// PrerequisiteRequest mirrors domain.Prerequisite with a hex exercise ID.
type PrerequisiteRequest struct {
	ExerciseID     string  `json:"exerciseId" binding:"required"`
	Category       string  `json:"category" binding:"required"`
	MinRecommended float64 `json:"minRecommended" binding:"required,gt=0"`
	IsRequired     bool    `json:"isRequired"`
}

// ExerciseRequest defines the JSON body for creating or updating an
// exercise.
type ExerciseRequest struct {
	Name              string                `json:"name" binding:"required"`
	Description       string                `json:"description" binding:"required"`
	Type              string                `json:"type" binding:"omitempty"`
	Difficulty        string                `json:"difficulty" binding:"omitempty"`
	PrimaryMuscles    []string              `json:"primaryMuscles" binding:"required,min=1"`
	SecondaryMuscles  []string              `json:"secondaryMuscles"`
	Equipment         []string              `json:"equipment"`
	Instructions      []string              `json:"instructions"`
	Progressions      []string              `json:"progressions"`
	Contraindications []string              `json:"contraindications"`
	Prerequisites     []PrerequisiteRequest `json:"prerequisites"`
	EstimatedDuration int                   `json:"estimatedDuration"`
	VideoURL          string                `json:"videoUrl" binding:"omitempty,url"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID                string                `json:"id"`
	OwnerID           string                `json:"ownerId"`
	Name              string                `json:"name"`
	Description       string                `json:"description,omitempty"`
	Type              domain.ExerciseType   `json:"type"`
	Difficulty        domain.Difficulty     `json:"difficulty"`
	PrimaryMuscles    []domain.MuscleGroup  `json:"primaryMuscles"`
	SecondaryMuscles  []domain.MuscleGroup  `json:"secondaryMuscles,omitempty"`
	Equipment         []string              `json:"equipment,omitempty"`
	Instructions      []string              `json:"instructions"`
	Progressions      []string              `json:"progressions,omitempty"`
	Contraindications []string              `json:"contraindications,omitempty"`
	Prerequisites     []domain.Prerequisite `json:"prerequisites,omitempty"`
	EstimatedDuration int                   `json:"estimatedDuration,omitempty"`
	VideoURL          string                `json:"videoUrl,omitempty"`
	IsDraft           bool                  `json:"isDraft"`
	PublishedAt       *time.Time            `json:"publishedAt,omitempty"`
	ReviewedBy        *string               `json:"reviewedBy,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// PublishRequest carries the publication context.
type PublishRequest struct {
	TargetAudience    string `json:"targetAudience" binding:"omitempty,oneof=PUBLIC CLIENTS PRIVATE"`
	ReviewerRequired  bool   `json:"reviewerRequired"`
	MedicalReviewDone bool   `json:"medicalReviewDone"`
}

// MediaUploadRequest asks for a presigned upload URL.
type MediaUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:                ex.ID.Hex(),
		OwnerID:           ex.OwnerID.Hex(),
		Name:              ex.Name,
		Description:       ex.Description,
		Type:              ex.Type,
		Difficulty:        ex.Difficulty,
		PrimaryMuscles:    ex.PrimaryMuscles,
		SecondaryMuscles:  ex.SecondaryMuscles,
		Equipment:         ex.Equipment,
		Instructions:      ex.Instructions,
		Progressions:      ex.Progressions,
		Contraindications: ex.Contraindications,
		Prerequisites:     ex.Prerequisites,
		EstimatedDuration: ex.EstimatedDuration,
		VideoURL:          ex.VideoURL,
		IsDraft:           ex.IsDraft,
		PublishedAt:       ex.PublishedAt,
		CreatedAt:         ex.CreatedAt,
		UpdatedAt:         ex.UpdatedAt,
	}
	if ex.ReviewedBy != nil {
		hex := ex.ReviewedBy.Hex()
		resp.ReviewedBy = &hex
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i, ex := range exercises {
		responses[i] = MapExerciseToResponse(&ex)
	}
	return responses
}

// --- Handler Methods ---

// CreateExercise creates a new draft for the authenticated trainer.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID, ok := authedObjectID(c)
	if !ok {
		return
	}

	input, err := mapRequestToInput(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateDraft(c.Request.Context(), ownerID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetOwnedExercises lists the authenticated trainer's exercises, drafts
// included.
func (h *ExerciseHandler) GetOwnedExercises(c *gin.Context) {
	ownerID, ok := authedObjectID(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.GetExercisesByOwner(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetPublishedExercises lists the published library, optionally narrowed
// to one primary muscle via ?muscle=.
func (h *ExerciseHandler) GetPublishedExercises(c *gin.Context) {
	var (
		exercises []domain.Exercise
		err       error
	)
	if muscle := c.Query("muscle"); muscle != "" {
		exercises, err = h.exerciseService.GetExercisesByMuscle(c.Request.Context(), domain.MuscleGroup(muscle))
	} else {
		exercises, err = h.exerciseService.GetPublishedExercises(c.Request.Context())
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise returns one exercise by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise applies a full update to an owned exercise.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID, ok := authedObjectID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	input, err := mapRequestToInput(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), ownerID, exerciseID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes an owned exercise.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	ownerID, ok := authedObjectID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), ownerID, exerciseID); err != nil {
		respondServiceError(c, err, "Failed to delete exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateExercise runs a validation pass; ?mode=draft selects the lenient
// pass, anything else the strict one.
func (h *ExerciseHandler) ValidateExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	mode := validation.ModePublication
	if c.Query("mode") == string(validation.ModeDraft) {
		mode = validation.ModeDraft
	}

	result, err := h.exerciseService.ValidateExercise(c.Request.Context(), exerciseID, mode)
	if err != nil {
		respondServiceError(c, err, "Failed to validate exercise.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isValid":                result.IsValid(),
		"canSaveDraft":           result.CanSaveDraft(),
		"canPublish":             result.CanPublish(),
		"errors":                 result.Errors,
		"warnings":               result.Warnings,
		"requiredForPublication": result.RequiredForPublication,
	})
}

// GetValidationSummary reports completeness scores.
func (h *ExerciseHandler) GetValidationSummary(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	summary, err := h.exerciseService.GetValidationSummary(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to summarize exercise.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// PublishExercise attempts the draft to published transition.
func (h *ExerciseHandler) PublishExercise(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty body means a default publication context.
		if !errors.Is(err, io.EOF) {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
		req = PublishRequest{}
	}

	ownerID, ok := authedObjectID(c)
	if !ok {
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify role from token.")
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	pub := publishing.Context{
		PublishedBy:       ownerID,
		TargetAudience:    publishing.Audience(req.TargetAudience),
		ReviewerRequired:  req.ReviewerRequired,
		MedicalReviewDone: req.MedicalReviewDone,
	}

	exercise, result, err := h.exerciseService.Publish(c.Request.Context(), ownerID, role, exerciseID, pub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPublicationBlocked):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "decision": result})
		case errors.Is(err, service.ErrApprovalRequired):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error(), "decision": result})
		default:
			respondServiceError(c, err, "Failed to publish exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercise": MapExerciseToResponse(exercise), "decision": result})
}

// GetPublicationReadiness reports the publishing rule breakdown without
// attempting publication.
func (h *ExerciseHandler) GetPublicationReadiness(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	report, err := h.exerciseService.GetPublicationReadiness(c.Request.Context(), exerciseID, publishing.Context{})
	if err != nil {
		respondServiceError(c, err, "Failed to compute publication readiness.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReviewExercise records the authenticated reviewer on a published
// exercise.
func (h *ExerciseHandler) ReviewExercise(c *gin.Context) {
	reviewerID, ok := authedObjectID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.Review(c.Request.Context(), reviewerID, exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to review exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetMediaUploadURL returns a presigned PUT URL for demo media.
func (h *ExerciseHandler) GetMediaUploadURL(c *gin.Context) {
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID, ok := authedObjectID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	uploadURL, objectKey, err := h.exerciseService.GenerateMediaUploadURL(
		c.Request.Context(), ownerID, exerciseID, req.FileName, req.ContentType)
	if err != nil {
		respondServiceError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}

// GetMediaDownloadURL returns a presigned GET URL for an exercise's
// uploaded demo media.
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	downloadURL, err := h.exerciseService.GenerateMediaDownloadURL(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate download URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}

// --- helpers ---

func authedObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func mapRequestToInput(req ExerciseRequest) (service.ExerciseInput, error) {
	input := service.ExerciseInput{
		Name:              req.Name,
		Description:       req.Description,
		Type:              domain.ExerciseType(req.Type),
		Difficulty:        domain.Difficulty(req.Difficulty),
		Equipment:         req.Equipment,
		Instructions:      req.Instructions,
		Progressions:      req.Progressions,
		Contraindications: req.Contraindications,
		EstimatedDuration: req.EstimatedDuration,
		VideoURL:          req.VideoURL,
	}
	for _, m := range req.PrimaryMuscles {
		input.PrimaryMuscles = append(input.PrimaryMuscles, domain.MuscleGroup(m))
	}
	for _, m := range req.SecondaryMuscles {
		input.SecondaryMuscles = append(input.SecondaryMuscles, domain.MuscleGroup(m))
	}
	for _, p := range req.Prerequisites {
		exID, err := primitive.ObjectIDFromHex(p.ExerciseID)
		if err != nil {
			return service.ExerciseInput{}, errors.New("invalid prerequisite exercise ID format")
		}
		input.Prerequisites = append(input.Prerequisites, domain.Prerequisite{
			ExerciseID:     exID,
			Category:       domain.PrerequisiteCategory(p.Category),
			MinRecommended: p.MinRecommended,
			IsRequired:     p.IsRequired,
		})
	}
	return input, nil
}

// respondServiceError maps service and domain errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var domErr *domain.Error
	switch {
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDraftInvalid):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &domErr):
		switch domErr.Code {
		case domain.CodeNotFound:
			abortWithError(c, http.StatusNotFound, domErr.Error())
		case domain.CodeNameTaken, domain.CodeAlreadyPublished:
			abortWithError(c, http.StatusConflict, domErr.Error())
		case domain.CodeInvalidField, domain.CodeNotPublished:
			abortWithError(c, http.StatusBadRequest, domErr.Error())
		case domain.CodeAccessDenied:
			abortWithError(c, http.StatusForbidden, domErr.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, fallback)
		}
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
