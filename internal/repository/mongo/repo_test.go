package mongo

import (
	"context"
	"testing"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash"}
		id, err := repo.Create(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &domain.User{Email: "ann@example.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ann"},
			{Key: "email", Value: "ann@example.com"},
		}))

		user, err := repo.GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Ann", user.Name)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("update missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(ctx, &domain.User{ID: primitive.NewObjectID(), Email: "x@example.com"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSessionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("create requires week key", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.WorkoutSession{UserID: userID, Date: "2024-01-10"})
		assert.Error(t, err)
	})

	mt.Run("list by week", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		first := mtest.CreateCursorResponse(1, "test.workoutSessions", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: userID},
				{Key: "date", Value: "2024-01-08"},
				{Key: "weekStart", Value: "2024-01-08"},
				{Key: "category", Value: "cardio"},
				{Key: "completed", Value: true},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: userID},
				{Key: "date", Value: "2024-01-10"},
				{Key: "weekStart", Value: "2024-01-08"},
				{Key: "category", Value: "strength"},
				{Key: "completedSections", Value: bson.A{true, false}},
			},
		)
		killCursors := mtest.CreateCursorResponse(0, "test.workoutSessions", mtest.NextBatch)
		mt.AddMockResponses(first, killCursors)

		sessions, err := repo.ListByWeek(ctx, userID, "2024-01-08")
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.True(t, sessions[0].Completed)
		assert.Equal(t, domain.CategoryStrength, sessions[1].Category)
		assert.Equal(t, []bool{true, false}, sessions[1].CompletedSections)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workoutSessions", mtest.FirstBatch))

		sessions, err := repo.ListByDate(ctx, userID, "2024-01-10")
		require.NoError(t, err)
		assert.NotNil(t, sessions)
		assert.Empty(t, sessions)
	})

	mt.Run("find by key not found", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workoutSessions", mtest.FirstBatch))

		_, err := repo.FindByKey(ctx, userID, "2024-01-10", domain.CategoryCardio)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		s := &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: userID, Date: "2024-01-10", WeekStart: "2024-01-08"}
		require.NoError(t, repo.Update(ctx, s))
		assert.False(t, s.UpdatedAt.IsZero())
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("delete week", func(mt *mtest.T) {
		repo := NewMongoSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := repo.DeleteByWeek(ctx, userID, "2024-01-08")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestTrackingRepository_Upsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("keeps stored id", func(mt *mtest.T) {
		repo := NewMongoTrackingRepository(mt.DB)
		storedID := primitive.NewObjectID()
		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: storedID},
			{Key: "userId", Value: userID},
			{Key: "date", Value: "2024-01-10"},
			{Key: "category", Value: "cardio"},
			{Key: "completed", Value: true},
			{Key: "weekStart", Value: "2024-01-08"},
		}}))

		record := &domain.TrackingRecord{
			UserID:    userID,
			Date:      "2024-01-10",
			Category:  domain.CategoryCardio,
			Completed: true,
			WeekStart: "2024-01-08",
		}
		require.NoError(t, repo.Upsert(ctx, record))
		assert.Equal(t, storedID, record.ID)
	})
}

func TestWorkoutTypeRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create requires name", func(mt *mtest.T) {
		repo := NewMongoWorkoutTypeRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.WorkoutType{UserID: primitive.NewObjectID()})
		assert.Error(t, err)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewMongoWorkoutTypeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(ctx, &domain.WorkoutType{ID: primitive.NewObjectID(), Name: "x"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("sections sorted by order", func(mt *mtest.T) {
		repo := NewMongoSectionRepository(mt.DB)
		typeID := primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "test.workoutSections", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "workoutTypeId", Value: typeID}, {Key: "name", Value: "Warm-up"}, {Key: "order", Value: 1}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "workoutTypeId", Value: typeID}, {Key: "name", Value: "Main"}, {Key: "order", Value: 2}},
		)
		killCursors := mtest.CreateCursorResponse(0, "test.workoutSections", mtest.NextBatch)
		mt.AddMockResponses(first, killCursors)

		sections, err := repo.ListByWorkoutType(ctx, typeID)
		require.NoError(t, err)
		require.Len(t, sections, 2)
		assert.Equal(t, "Warm-up", sections[0].Name)
	})
}
