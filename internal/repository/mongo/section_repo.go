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

const sectionCollectionName = "workoutSections"

type mongoSectionRepository struct {
	collection *mongo.Collection
}

// NewMongoSectionRepository creates a new WorkoutSection repository.
func NewMongoSectionRepository(db *mongo.Database) repository.SectionRepository {
	return &mongoSectionRepository{
		collection: db.Collection(sectionCollectionName),
	}
}

func (r *mongoSectionRepository) Create(ctx context.Context, section *domain.WorkoutSection) (primitive.ObjectID, error) {
	if section.WorkoutTypeID == primitive.NilObjectID || section.Name == "" {
		return primitive.NilObjectID, errors.New("section requires workoutTypeId and name")
	}
	section.ID = primitive.NewObjectID()
	if section.Instructions == nil {
		section.Instructions = []string{}
	}

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted section ID")
	}
	return insertedID, nil
}

func (r *mongoSectionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSection, error) {
	var section domain.WorkoutSection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// ListByWorkoutType retrieves the sections of a type sorted by their order field.
func (r *mongoSectionRepository) ListByWorkoutType(ctx context.Context, workoutTypeID primitive.ObjectID) ([]domain.WorkoutSection, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"workoutTypeId": workoutTypeID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sections := []domain.WorkoutSection{}
	if err = cursor.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *mongoSectionRepository) Update(ctx context.Context, section *domain.WorkoutSection) error {
	if section.ID == primitive.NilObjectID {
		return errors.New("section ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":         section.Name,
			"duration":     section.Duration,
			"instructions": section.Instructions,
			"order":        section.Order,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": section.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSectionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSectionIndexes creates the parent lookup index.
func EnsureSectionIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutTypeId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
	})
}
