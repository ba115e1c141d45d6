package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
// Handlers map these to HTTP status codes; anything else is an internal error.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")

	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrWorkoutTypeNotFound = errors.New("workout type not found")
	ErrSectionNotFound     = errors.New("workout section not found")
	ErrSessionNotFound     = errors.New("workout session not found")
	ErrPlanNotFound        = errors.New("workout plan not found")
	ErrExportNotFound      = errors.New("export not found")
)

// invalid wraps err so that errors.Is(err, ErrValidation) holds.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflict(err error) error {
	return fmt.Errorf("%w: %w", ErrConflict, err)
}

func requireUser(userID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrNotAuthenticated
	}
	return nil
}
