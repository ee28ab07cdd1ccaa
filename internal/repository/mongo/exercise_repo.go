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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates an Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise snapshot.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise name and owner ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = now
	}
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByName retrieves an exercise by its exact name. Used to enforce name
// uniqueness at the service layer.
func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByOwnerID retrieves all exercises authored by one trainer, drafts
// included, newest first.
func (r *mongoExerciseRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Exercise, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

// GetPublished retrieves every published exercise. This is the candidate
// set the recommendation service draws from.
func (r *mongoExerciseRepository) GetPublished(ctx context.Context) ([]domain.Exercise, error) {
	return r.find(ctx, bson.M{"isDraft": false, "publishedAt": bson.M{"$ne": nil}})
}

// GetByMuscleGroup retrieves published exercises whose primary muscles
// include the given group.
func (r *mongoExerciseRepository) GetByMuscleGroup(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error) {
	return r.find(ctx, bson.M{"isDraft": false, "primaryMuscles": muscle})
}

func (r *mongoExerciseRepository) find(ctx context.Context, filter bson.M) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update replaces the stored snapshot with a new one. The owner is never
// changed by an update.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":              exercise.Name,
			"description":       exercise.Description,
			"type":              exercise.Type,
			"difficulty":        exercise.Difficulty,
			"primaryMuscles":    exercise.PrimaryMuscles,
			"secondaryMuscles":  exercise.SecondaryMuscles,
			"equipment":         exercise.Equipment,
			"instructions":      exercise.Instructions,
			"progressions":      exercise.Progressions,
			"contraindications": exercise.Contraindications,
			"prerequisites":     exercise.Prerequisites,
			"estimatedDuration": exercise.EstimatedDuration,
			"videoUrl":          exercise.VideoURL,
			"mediaObjectKey":    exercise.MediaObjectKey,
			"isDraft":           exercise.IsDraft,
			"publishedAt":       exercise.PublishedAt,
			"reviewedBy":        exercise.ReviewedBy,
			"updatedAt":         time.Now().UTC(),
			// ownerId deliberately not set here
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise, ensuring it belongs to the given owner. The
// combined filter enforces ownership at the DB level.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID primitive.ObjectID) error {
	filter := bson.M{
		"_id":     id,
		"ownerId": ownerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the exercise didn't exist or it belongs to someone else;
		// the filter can't tell the difference.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseIndexes creates the indexes the exercise queries rely on.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isDraft", Value: 1}, {Key: "publishedAt", Value: -1}},
			Options: options.Index().SetName("published_listing"),
		},
		{
			Keys:    bson.D{{Key: "primaryMuscles", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: failed to ensure exercise indexes: %v", err)
	}
}
