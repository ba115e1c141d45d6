package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingRecord is the lightweight per-day, per-category completion marker
// used for weekly progress and streaks, kept apart from WorkoutSession.
type TrackingRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Date      string             `bson:"date" json:"date"`
	Category  Category           `bson:"category" json:"category"`
	Completed bool               `bson:"completed" json:"completed"`
	WeekStart string             `bson:"weekStart" json:"weekStart"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
