package repository

import (
	"context"

	"fitcal/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetFirst(ctx context.Context) (*domain.User, error) // Oldest user, ErrNotFound when empty
	Update(ctx context.Context, user *domain.User) error
}

// ProfileRepository stores at most one profile per user (by convention, not by index).
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

// WorkoutTypeRepository stores workout types without their sections.
type WorkoutTypeRepository interface {
	Create(ctx context.Context, wt *domain.WorkoutType) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutType, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutType, error)
	Update(ctx context.Context, wt *domain.WorkoutType) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SectionRepository stores workout sections keyed by their parent type.
type SectionRepository interface {
	Create(ctx context.Context, section *domain.WorkoutSection) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSection, error)
	ListByWorkoutType(ctx context.Context, workoutTypeID primitive.ObjectID) ([]domain.WorkoutSection, error) // Sorted by order
	Update(ctx context.Context, section *domain.WorkoutSection) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionRepository stores dated workout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	ListByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) ([]domain.WorkoutSession, error)
	ListByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutSession, error)
	// FindByKey returns the first session for (user, date, category).
	FindByKey(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.WorkoutSession, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) (int64, error)
}

// TrackingRepository stores the per-day completion markers.
type TrackingRepository interface {
	FindByKey(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.TrackingRecord, error)
	// Upsert inserts or replaces the record for (user, date, category).
	Upsert(ctx context.Context, record *domain.TrackingRecord) error
	ListByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) ([]domain.TrackingRecord, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.TrackingRecord, error)
}

// ExportRepository defines the interface for interacting with export metadata.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.Export) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Export, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error)
}
