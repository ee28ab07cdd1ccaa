package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitforge/exercise-engine/internal/domain"
	"fitforge/exercise-engine/internal/repository"
)

const performanceCollectionName = "performances"

// mongoPerformanceRepository implements repository.PerformanceRepository.
type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

// NewMongoPerformanceRepository creates a UserPerformance repository backed
// by MongoDB.
func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{
		collection: db.Collection(performanceCollectionName),
	}
}

// Upsert stores or replaces the record for a (user, exercise) pair. One
// record per pair is the invariant the unique index enforces.
func (r *mongoPerformanceRepository) Upsert(ctx context.Context, perf *domain.UserPerformance) error {
	if perf.UserID == primitive.NilObjectID || perf.ExerciseID == primitive.NilObjectID {
		return errors.New("user ID and exercise ID are required")
	}

	perf.UpdatedAt = time.Now().UTC()

	filter := bson.M{"userId": perf.UserID, "exerciseId": perf.ExerciseID}
	update := bson.M{
		"$set": bson.M{
			"bestReps":       perf.BestReps,
			"bestHoldTime":   perf.BestHoldTime,
			"bestDuration":   perf.BestDuration,
			"bestWeight":     perf.BestWeight,
			"consistentDays": perf.ConsistentDays,
			"formQuality":    perf.FormQuality,
			"totalSessions":  perf.TotalSessions,
			"lastPerformed":  perf.LastPerformed,
			"updatedAt":      perf.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"userId":     perf.UserID,
			"exerciseId": perf.ExerciseID,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByUserID retrieves the user's full performance history.
func (r *mongoPerformanceRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.UserPerformance, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.UserPerformance
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByUserAndExercise retrieves the single record for a (user, exercise)
// pair.
func (r *mongoPerformanceRepository) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.UserPerformance, error) {
	var perf domain.UserPerformance
	filter := bson.M{"userId": userID, "exerciseId": exerciseID}

	err := r.collection.FindOne(ctx, filter).Decode(&perf)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &perf, nil
}

// EnsurePerformanceIndexes creates the indexes for performance lookups.
func EnsurePerformanceIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: failed to ensure performance indexes: %v", err)
	}
}
