package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidGoal = errors.New("invalid fitness goal")

// FitnessGoal is what the user is training for.
type FitnessGoal string

const (
	GoalLoseWeight FitnessGoal = "lose_weight"
	GoalGainMuscle FitnessGoal = "gain_muscle"
	GoalMaintain   FitnessGoal = "maintain"
	GoalEndurance  FitnessGoal = "endurance"
)

// ParseFitnessGoal accepts the canonical goal names and the long aliases
// ("maintain_fitness", "improve_endurance") older clients send.
func ParseFitnessGoal(s string) (FitnessGoal, error) {
	switch s {
	case string(GoalLoseWeight):
		return GoalLoseWeight, nil
	case string(GoalGainMuscle):
		return GoalGainMuscle, nil
	case string(GoalMaintain), "maintain_fitness":
		return GoalMaintain, nil
	case string(GoalEndurance), "improve_endurance":
		return GoalEndurance, nil
	}
	return "", ErrInvalidGoal
}

// Profile holds per-user fitness settings. At most one per user; this is
// enforced by looking up before inserting, not by a unique index.
type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	FitnessGoal FitnessGoal        `bson:"fitnessGoal" json:"fitnessGoal"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
