package service

import (
	"context"
	"errors"
	"strings"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfilePatch holds the profile fields to change; nil means keep.
type ProfilePatch struct {
	Name        *string
	FitnessGoal *string
}

type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	// Create returns the existing profile unchanged when there is one.
	Create(ctx context.Context, userID primitive.ObjectID, name, goal string) (profile *domain.Profile, created bool, err error)
	Update(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*domain.Profile, error)
	// Save creates the profile or overwrites both fields of the existing one.
	Save(ctx context.Context, userID primitive.ObjectID, name, goal string) (*domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	notifier Notifier
}

func NewProfileService(profiles repository.ProfileRepository, notifier Notifier) ProfileService {
	return &profileService{profiles: profiles, notifier: orNop(notifier)}
}

func parseProfileFields(name, goal string) (string, domain.FitnessGoal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", invalidf("name is required")
	}
	g, err := domain.ParseFitnessGoal(goal)
	if err != nil {
		return "", "", invalid(err)
	}
	return name, g, nil
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *profileService) Create(ctx context.Context, userID primitive.ObjectID, name, goal string) (*domain.Profile, bool, error) {
	if err := requireUser(userID); err != nil {
		return nil, false, err
	}
	name, g, err := parseProfileFields(name, goal)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.Get(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	p := &domain.Profile{UserID: userID, Name: name, FitnessGoal: g}
	if _, err := s.profiles.Create(ctx, p); err != nil {
		return nil, false, err
	}
	s.notifier.Notify(userID)
	return p, true, nil
}

func (s *profileService) Update(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*domain.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	name, goal := p.Name, string(p.FitnessGoal)
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.FitnessGoal != nil {
		goal = *patch.FitnessGoal
	}
	if p.Name, p.FitnessGoal, err = parseProfileFields(name, goal); err != nil {
		return nil, err
	}

	if err := s.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	s.notifier.Notify(userID)
	return p, nil
}

func (s *profileService) Save(ctx context.Context, userID primitive.ObjectID, name, goal string) (*domain.Profile, error) {
	p, created, err := s.Create(ctx, userID, name, goal)
	if err != nil || created {
		return p, err
	}
	return s.Update(ctx, userID, ProfilePatch{Name: &name, FitnessGoal: &goal})
}
