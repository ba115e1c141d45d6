// internal/domain/workout_type.go
package domain

import (
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidCategory = errors.New("invalid workout category")

// Category groups workouts for scheduling and statistics.
type Category string

const (
	CategoryCardio     Category = "cardio"
	CategoryStrength   Category = "strength"
	CategoryStretching Category = "stretching"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryCardio, CategoryStrength, CategoryStretching}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Display carries presentation metadata for a workout type (emoji, CSS classes).
type Display struct {
	Emoji       string `bson:"emoji" json:"emoji"`
	Color       string `bson:"color,omitempty" json:"color,omitempty"`
	BgColor     string `bson:"bgColor,omitempty" json:"bgColor,omitempty"`
	LightBg     string `bson:"lightBg,omitempty" json:"lightBg,omitempty"`
	LightColor  string `bson:"lightColor,omitempty" json:"lightColor,omitempty"`
	BorderColor string `bson:"borderColor,omitempty" json:"borderColor,omitempty"`
	Gradient    string `bson:"gradient,omitempty" json:"gradient,omitempty"`
}

// WorkoutType is a reusable workout template owned by a user.
// Its sections live in their own collection and reference it by WorkoutTypeID.
type WorkoutType struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Category    Category           `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Duration    string             `bson:"duration" json:"duration"` // Free-form label, e.g. "30-45 min"
	Calories    string             `bson:"calories" json:"calories"` // Free-form label
	Display     Display            `bson:"display" json:"display"`
	IsDefault   bool               `bson:"isDefault" json:"isDefault"` // Seeded types; not deletable from the UI

	Sections []WorkoutSection `bson:"-" json:"sections"`
}

// WorkoutSection is one ordered phase of a WorkoutType.
type WorkoutSection struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutTypeID primitive.ObjectID `bson:"workoutTypeId" json:"workoutTypeId"`
	Name          string             `bson:"name" json:"name"`
	Duration      string             `bson:"duration" json:"duration"`
	Instructions  []string           `bson:"instructions" json:"instructions"`
	Order         int                `bson:"order" json:"order"`
}

// SortSections orders sections by their Order field, keeping insertion order for ties.
func SortSections(sections []WorkoutSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
}
