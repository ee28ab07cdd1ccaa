package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/recommend"
	"fitforge/exercise-engine/internal/service"
)

// RecommendationHandler holds the recommendation and performance service
// dependencies.
type RecommendationHandler struct {
	recommendationService service.RecommendationService
	performanceService    service.PerformanceService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(
	recommendationService service.RecommendationService,
	performanceService service.PerformanceService,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		performanceService:    performanceService,
	}
}

// --- DTOs ---

// RecommendationRequest carries ranking criteria. All fields are optional.
type RecommendationRequest struct {
	FitnessLevel       string   `json:"fitnessLevel"`
	AvailableTime      int      `json:"availableTime"`
	PreferredMuscles   []string `json:"preferredMuscles"`
	ExcludedEquipment  []string `json:"excludedEquipment"`
	PrerequisiteMode   string   `json:"prerequisiteMode" binding:"omitempty,oneof=strict recommended"`
	ReadinessThreshold int      `json:"readinessThreshold" binding:"omitempty,min=0,max=100"`
}

// PerformanceRequest records the tracked metrics for one exercise.
type PerformanceRequest struct {
	BestReps       int     `json:"bestReps" binding:"omitempty,min=0"`
	BestHoldTime   int     `json:"bestHoldTime" binding:"omitempty,min=0"`
	BestDuration   int     `json:"bestDuration" binding:"omitempty,min=0"`
	BestWeight     float64 `json:"bestWeight" binding:"omitempty,min=0"`
	ConsistentDays int     `json:"consistentDays" binding:"omitempty,min=0"`
	FormQuality    float64 `json:"formQuality" binding:"omitempty,min=0,max=10"`
	TotalSessions  int     `json:"totalSessions" binding:"omitempty,min=0"`
}

// --- Handler Methods ---

// GetRecommendations ranks the published library for the authenticated
// user.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := authedObjectID(c)
	if !ok {
		return
	}

	criteria := recommend.Criteria{
		FitnessLevel:       domain.Difficulty(req.FitnessLevel),
		AvailableTime:      req.AvailableTime,
		PrerequisiteMode:   recommend.PrerequisiteMode(req.PrerequisiteMode),
		ReadinessThreshold: req.ReadinessThreshold,
		ExcludedEquipment:  req.ExcludedEquipment,
	}
	for _, m := range req.PreferredMuscles {
		criteria.PreferredMuscles = append(criteria.PreferredMuscles, domain.MuscleGroup(m))
	}

	result, err := h.recommendationService.GetRecommendations(c.Request.Context(), userID, criteria)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute recommendations.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetExerciseReadiness reports the authenticated user's readiness for one
// exercise.
func (h *RecommendationHandler) GetExerciseReadiness(c *gin.Context) {
	userID, ok := authedObjectID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	result, err := h.recommendationService.GetExerciseReadiness(c.Request.Context(), userID, exerciseID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute readiness.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPerformanceInsights returns confidence/freshness/quality for the
// user's history.
func (h *RecommendationHandler) GetPerformanceInsights(c *gin.Context) {
	userID, ok := authedObjectID(c)
	if !ok {
		return
	}

	insights, err := h.recommendationService.GetPerformanceInsights(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load performance insights.")
		return
	}
	c.JSON(http.StatusOK, insights)
}

// RecordPerformance upserts the authenticated user's record for an
// exercise. totalSessions may also arrive as a query param for bulk
// imports.
func (h *RecommendationHandler) RecordPerformance(c *gin.Context) {
	var req PerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := authedObjectID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if req.TotalSessions == 0 {
		if v, err := strconv.Atoi(c.Query("totalSessions")); err == nil {
			req.TotalSessions = v
		}
	}

	input := service.PerformanceInput{
		BestReps:       req.BestReps,
		BestHoldTime:   req.BestHoldTime,
		BestDuration:   req.BestDuration,
		BestWeight:     req.BestWeight,
		ConsistentDays: req.ConsistentDays,
		FormQuality:    req.FormQuality,
		TotalSessions:  req.TotalSessions,
	}
	if err := h.performanceService.RecordPerformance(c.Request.Context(), userID, exerciseID, input); err != nil {
		respondServiceError(c, err, "Failed to record performance.")
		return
	}
	c.Status(http.StatusNoContent)
}
