package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DemoUserEmail identifies the shared demo account handed out when no real identity is available.
const DemoUserEmail = "demo@example.com"

// User represents a person using the tracker.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`                         // Should be unique
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`            // Never expose this via JSON
	IsDemo       bool               `bson:"isDemo,omitempty" json:"isDemo,omitempty"`   // Demo users have no password
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
