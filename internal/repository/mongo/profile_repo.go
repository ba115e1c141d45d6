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

const profileCollectionName = "userProfiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new Profile repository backed by MongoDB.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

func (r *mongoProfileRepository) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("profile requires userId")
	}
	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted profile ID")
	}
	return insertedID, nil
}

// GetByUserID returns the first profile stored for the user.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	var profile domain.Profile
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *mongoProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == primitive.NilObjectID {
		return errors.New("profile ID is required for update")
	}
	profile.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":        profile.Name,
			"fitnessGoal": profile.FitnessGoal,
			"updatedAt":   profile.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes creates the user lookup index. One profile per user is
// enforced by the profile service, not here.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	})
}
