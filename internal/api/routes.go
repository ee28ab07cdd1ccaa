package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/service"
)

// SetupRoutes wires handlers into the Gin engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	recommendationService service.RecommendationService,
	performanceService service.PerformanceService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	recommendationHandler := NewRecommendationHandler(recommendationService, performanceService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	{
		// Public auth endpoints.
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		// The published library is readable by any authenticated user.
		exercises := v1.Group("/exercises", authMiddleware)
		{
			exercises.GET("", exerciseHandler.GetPublishedExercises)
			exercises.GET("/:id", exerciseHandler.GetExercise)
			exercises.GET("/:id/readiness", recommendationHandler.GetExerciseReadiness)
			exercises.GET("/:id/media-download-url", exerciseHandler.GetMediaDownloadURL)
			exercises.POST("/:id/performance", recommendationHandler.RecordPerformance)

			// Authoring requires the trainer (or admin) role.
			authoring := exercises.Group("", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
			{
				authoring.POST("", exerciseHandler.CreateExercise)
				authoring.PUT("/:id", exerciseHandler.UpdateExercise)
				authoring.DELETE("/:id", exerciseHandler.DeleteExercise)
				authoring.GET("/:id/validation", exerciseHandler.ValidateExercise)
				authoring.GET("/:id/validation/summary", exerciseHandler.GetValidationSummary)
				authoring.POST("/:id/publish", exerciseHandler.PublishExercise)
				authoring.GET("/:id/publication-readiness", exerciseHandler.GetPublicationReadiness)
				authoring.POST("/:id/media-upload-url", exerciseHandler.GetMediaUploadURL)
			}

			// Review is an admin capability.
			exercises.POST("/:id/review", RoleMiddleware(domain.RoleAdmin), exerciseHandler.ReviewExercise)
		}

		me := v1.Group("/users/me", authMiddleware)
		{
			me.GET("/exercises", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), exerciseHandler.GetOwnedExercises)
			me.POST("/recommendations", recommendationHandler.GetRecommendations)
			me.GET("/performance-insights", recommendationHandler.GetPerformanceInsights)
		}
	}
}
