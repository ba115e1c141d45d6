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

const trackingCollectionName = "workouts"

type mongoTrackingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackingRepository creates a new tracking record repository.
func NewMongoTrackingRepository(db *mongo.Database) repository.TrackingRepository {
	return &mongoTrackingRepository{
		collection: db.Collection(trackingCollectionName),
	}
}

func (r *mongoTrackingRepository) FindByKey(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.TrackingRecord, error) {
	var record domain.TrackingRecord
	filter := bson.M{"userId": userID, "date": date, "category": category}
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert writes the record under its (user, date, category) key. A new record gets
// a fresh ID; an existing one keeps its own.
func (r *mongoTrackingRepository) Upsert(ctx context.Context, record *domain.TrackingRecord) error {
	if record.UserID == primitive.NilObjectID || record.Date == "" {
		return errors.New("tracking record requires userId and date")
	}
	record.UpdatedAt = time.Now().UTC()

	filter := bson.M{"userId": record.UserID, "date": record.Date, "category": record.Category}
	update := bson.M{
		"$set": bson.M{
			"completed": record.Completed,
			"weekStart": record.WeekStart,
			"updatedAt": record.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.TrackingRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return err
	}
	record.ID = stored.ID
	return nil
}

func (r *mongoTrackingRepository) ListByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) ([]domain.TrackingRecord, error) {
	return r.find(ctx, bson.M{"userId": userID, "weekStart": weekStart})
}

func (r *mongoTrackingRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.TrackingRecord, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoTrackingRepository) find(ctx context.Context, filter bson.M) ([]domain.TrackingRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "category", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.TrackingRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureTrackingIndexes creates the week index and the unique day key.
func EnsureTrackingIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "weekStart", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
