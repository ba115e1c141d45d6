package mongo

import (
	"context"
	"errors"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exportCollectionName = "exports"

// mongoExportRepository implements repository.ExportRepository
type mongoExportRepository struct {
	collection *mongo.Collection
}

// NewMongoExportRepository creates a new Export repository backed by MongoDB.
func NewMongoExportRepository(db *mongo.Database) repository.ExportRepository {
	return &mongoExportRepository{
		collection: db.Collection(exportCollectionName),
	}
}

// Create inserts new export metadata into the database.
func (r *mongoExportRepository) Create(ctx context.Context, export *domain.Export) (primitive.ObjectID, error) {
	if export.UserID == primitive.NilObjectID || export.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("export requires userId and objectKey")
	}

	export.ID = primitive.NewObjectID()
	export.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, export)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves export metadata by its ID.
func (r *mongoExportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Export, error) {
	var export domain.Export
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&export)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &export, nil
}

// ListByUser returns the user's exports, newest first.
func (r *mongoExportRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exports := []domain.Export{}
	if err = cursor.All(ctx, &exports); err != nil {
		return nil, err
	}
	return exports, nil
}

// EnsureExportIndexes creates necessary indexes for the exports collection.
func EnsureExportIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
