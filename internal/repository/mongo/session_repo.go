// internal/repository/mongo/session_repo.go
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

const sessionCollectionName = "workoutSessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new WorkoutSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID || session.Date == "" || session.WeekStart == "" {
		return primitive.NilObjectID, errors.New("session requires userId, date and weekStart")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *mongoSessionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoSessionRepository) ListByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) ([]domain.WorkoutSession, error) {
	return r.find(ctx, bson.M{"userId": userID, "weekStart": weekStart})
}

func (r *mongoSessionRepository) ListByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutSession, error) {
	return r.find(ctx, bson.M{"userId": userID, "date": date})
}

// find returns matching sessions ordered by day, then insertion.
func (r *mongoSessionRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutSession, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *mongoSessionRepository) FindByKey(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	filter := bson.M{"userId": userID, "date": date, "category": category}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update persists every mutable field of the session. Owner and creation time never change.
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.WorkoutSession) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}
	session.UpdatedAt = time.Now().UTC()

	updateDoc := bson.M{
		"$set": bson.M{
			"date":              session.Date,
			"weekStart":         session.WeekStart,
			"category":          session.Category,
			"workoutTypeId":     session.WorkoutTypeID,
			"workoutTypeName":   session.WorkoutTypeName,
			"planId":            session.PlanID,
			"completed":         session.Completed,
			"startTime":         session.StartTime,
			"endTime":           session.EndTime,
			"duration":          session.Duration,
			"notes":             session.Notes,
			"completedSections": session.CompletedSections,
			"completedSteps":    session.CompletedSteps,
			"updatedAt":         session.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByWeek removes every session of the user in the given week.
func (r *mongoSessionRepository) DeleteByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID, "weekStart": weekStart})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureSessionIndexes creates one index per query pattern. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "weekStart", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index(),
		},
	})
}
