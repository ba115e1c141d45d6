package mongo

import (
	"context"
	"errors"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutTypeCollectionName = "workoutTypes"

// mongoWorkoutTypeRepository implements repository.WorkoutTypeRepository
type mongoWorkoutTypeRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutTypeRepository creates a new WorkoutType repository.
func NewMongoWorkoutTypeRepository(db *mongo.Database) repository.WorkoutTypeRepository {
	return &mongoWorkoutTypeRepository{
		collection: db.Collection(workoutTypeCollectionName),
	}
}

// Create inserts a new workout type. Sections are stored separately.
func (r *mongoWorkoutTypeRepository) Create(ctx context.Context, wt *domain.WorkoutType) (primitive.ObjectID, error) {
	if wt.UserID == primitive.NilObjectID || wt.Name == "" {
		return primitive.NilObjectID, errors.New("workout type requires userId and name")
	}
	wt.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, wt)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout type ID")
	}
	return insertedID, nil
}

func (r *mongoWorkoutTypeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutType, error) {
	var wt domain.WorkoutType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &wt, nil
}

// ListByUser returns the user's types in creation order.
func (r *mongoWorkoutTypeRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutType, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	types := []domain.WorkoutType{}
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Update overwrites the editable fields. Owner and default flag never change.
func (r *mongoWorkoutTypeRepository) Update(ctx context.Context, wt *domain.WorkoutType) error {
	if wt.ID == primitive.NilObjectID {
		return errors.New("workout type ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":        wt.Name,
			"category":    wt.Category,
			"description": wt.Description,
			"duration":    wt.Duration,
			"calories":    wt.Calories,
			"display":     wt.Display,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": wt.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutTypeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutTypeIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutTypeIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index(),
		},
	})
}
