package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fitforge/exercise-engine/internal/api"
	"fitforge/exercise-engine/internal/config"
	"fitforge/exercise-engine/internal/publishing"
	"fitforge/exercise-engine/internal/readiness"
	"fitforge/exercise-engine/internal/recommend"
	"fitforge/exercise-engine/internal/repository/mongo"
	"fitforge/exercise-engine/internal/service"
	"fitforge/exercise-engine/internal/storage"
	"fitforge/exercise-engine/internal/validation"
)

func main() {
	log.Println("Starting exercise engine server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsurePerformanceIndexes(ctx, appDB.Collection("performances"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	performanceRepo := mongo.NewMongoPerformanceRepository(appDB)

	// --- Initialize Engines ---
	validator := validation.NewDefaultFacade()
	publisher := publishing.NewDefaultEngine(exerciseRepo, validator, cfg.Engine.Publishing.QualityApprovalFloor)

	readinessCfg := readiness.DefaultConfig()
	readinessCfg.CurrentMaxDays = cfg.Engine.Readiness.CurrentMaxDays
	readinessCfg.RecentMaxDays = cfg.Engine.Readiness.RecentMaxDays
	readinessCfg.DatedMaxDays = cfg.Engine.Readiness.DatedMaxDays
	readinessCfg.NearlyReadyFloor = cfg.Engine.Readiness.NearlyReadyFloor
	readinessEngine := readiness.NewEngine(readinessCfg)

	scorer := recommend.NewScorer(readinessEngine, recommend.Thresholds{
		Immediate: cfg.Engine.Recommendation.ImmediateThreshold,
		NearTerm:  cfg.Engine.Recommendation.NearTermThreshold,
		LongTerm:  cfg.Engine.Recommendation.LongTermThreshold,
	})

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, validator, publisher, fileStorage)
	recommendationService := service.NewRecommendationService(exerciseRepo, performanceRepo, userRepo, readinessEngine, scorer)
	performanceService := service.NewPerformanceService(performanceRepo, exerciseRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, exerciseService, recommendationService, performanceService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
