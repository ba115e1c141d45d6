package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// WorkoutTypeInput describes a new workout type, optionally with its sections.
type WorkoutTypeInput struct {
	Name        string
	Category    domain.Category
	Description string
	Duration    string
	Calories    string
	Display     domain.Display
	Sections    []SectionInput
}

// WorkoutTypePatch holds the fields to change; nil means keep.
type WorkoutTypePatch struct {
	Name        *string
	Category    *domain.Category
	Description *string
	Duration    *string
	Calories    *string
	Display     *domain.Display
}

// SectionInput describes a new section. A nil Order appends after the last section.
type SectionInput struct {
	Name         string
	Duration     string
	Instructions []string
	Order        *int
}

// SectionPatch holds the section fields to change; nil means keep.
type SectionPatch struct {
	Name         *string
	Duration     *string
	Instructions []string
	Order        *int
}

type WorkoutTypeService interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutType, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutType, error)
	Create(ctx context.Context, userID primitive.ObjectID, in WorkoutTypeInput) (*domain.WorkoutType, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, patch WorkoutTypePatch) (*domain.WorkoutType, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	// SeedDefaults creates the default types unless the user already has them.
	SeedDefaults(ctx context.Context, userID primitive.ObjectID) (int, error)

	AddSection(ctx context.Context, userID, typeID primitive.ObjectID, in SectionInput) (*domain.WorkoutSection, error)
	UpdateSection(ctx context.Context, userID, sectionID primitive.ObjectID, patch SectionPatch) (*domain.WorkoutSection, error)
	DeleteSection(ctx context.Context, userID, sectionID primitive.ObjectID) error
}

type workoutTypeService struct {
	types    repository.WorkoutTypeRepository
	sections repository.SectionRepository
	notifier Notifier
}

func NewWorkoutTypeService(
	types repository.WorkoutTypeRepository,
	sections repository.SectionRepository,
	notifier Notifier,
) WorkoutTypeService {
	return &workoutTypeService{
		types:    types,
		sections: sections,
		notifier: orNop(notifier),
	}
}

// loadOwnedType fetches a type and hides it unless userID owns it.
func loadOwnedType(ctx context.Context, repo repository.WorkoutTypeRepository, userID, id primitive.ObjectID) (*domain.WorkoutType, error) {
	wt, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutTypeNotFound
		}
		return nil, err
	}
	if wt.UserID != userID {
		return nil, ErrWorkoutTypeNotFound
	}
	return wt, nil
}

func (s *workoutTypeService) withSections(ctx context.Context, wt *domain.WorkoutType) error {
	sections, err := s.sections.ListByWorkoutType(ctx, wt.ID)
	if err != nil {
		return err
	}
	domain.SortSections(sections)
	wt.Sections = sections
	return nil
}

func (s *workoutTypeService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutType, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	types, err := s.types.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if err := s.withSections(ctx, &types[i]); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (s *workoutTypeService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutType, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	wt, err := loadOwnedType(ctx, s.types, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.withSections(ctx, wt); err != nil {
		return nil, err
	}
	return wt, nil
}

func validateTypeFields(name string, category domain.Category) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("name is required")
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return invalid(err)
	}
	return nil
}

func (s *workoutTypeService) Create(ctx context.Context, userID primitive.ObjectID, in WorkoutTypeInput) (*domain.WorkoutType, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateTypeFields(in.Name, in.Category); err != nil {
		return nil, err
	}
	for _, sec := range in.Sections {
		if strings.TrimSpace(sec.Name) == "" {
			return nil, invalidf("section name is required")
		}
	}

	wt := &domain.WorkoutType{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Description: in.Description,
		Duration:    in.Duration,
		Calories:    in.Calories,
		Display:     in.Display,
		IsDefault:   false,
	}
	if _, err := s.types.Create(ctx, wt); err != nil {
		return nil, fmt.Errorf("create workout type: %w", err)
	}

	wt.Sections = make([]domain.WorkoutSection, 0, len(in.Sections))
	for i, sec := range in.Sections {
		order := i + 1
		if sec.Order != nil {
			order = *sec.Order
		}
		section := &domain.WorkoutSection{
			WorkoutTypeID: wt.ID,
			Name:          strings.TrimSpace(sec.Name),
			Duration:      sec.Duration,
			Instructions:  sec.Instructions,
			Order:         order,
		}
		if _, err := s.sections.Create(ctx, section); err != nil {
			return nil, fmt.Errorf("create section %q: %w", section.Name, err)
		}
		wt.Sections = append(wt.Sections, *section)
	}
	domain.SortSections(wt.Sections)

	s.notifier.Notify(userID)
	return wt, nil
}

func (s *workoutTypeService) Update(ctx context.Context, userID, id primitive.ObjectID, patch WorkoutTypePatch) (*domain.WorkoutType, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	wt, err := loadOwnedType(ctx, s.types, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		wt.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		wt.Category = *patch.Category
	}
	if patch.Description != nil {
		wt.Description = *patch.Description
	}
	if patch.Duration != nil {
		wt.Duration = *patch.Duration
	}
	if patch.Calories != nil {
		wt.Calories = *patch.Calories
	}
	if patch.Display != nil {
		wt.Display = *patch.Display
	}
	if err := validateTypeFields(wt.Name, wt.Category); err != nil {
		return nil, err
	}

	if err := s.types.Update(ctx, wt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutTypeNotFound
		}
		return nil, err
	}
	if err := s.withSections(ctx, wt); err != nil {
		return nil, err
	}
	s.notifier.Notify(userID)
	return wt, nil
}

// Delete removes the type and its sections. Sections go first, one by one; if any
// of them fails the type is kept and the collected errors are returned. Sessions
// that reference the type keep their cached name and dangle.
func (s *workoutTypeService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	wt, err := loadOwnedType(ctx, s.types, userID, id)
	if err != nil {
		return err
	}

	sections, err := s.sections.ListByWorkoutType(ctx, wt.ID)
	if err != nil {
		return err
	}
	var errs error
	for _, sec := range sections {
		if err := s.sections.Delete(ctx, sec.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			errs = multierr.Append(errs, fmt.Errorf("delete section %s: %w", sec.ID.Hex(), err))
		}
	}
	if errs != nil {
		log.Errorf("workout type %s: %d section deletes failed", wt.ID.Hex(), len(multierr.Errors(errs)))
		s.notifier.Notify(userID)
		return errs
	}

	if err := s.types.Delete(ctx, wt.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutTypeNotFound
		}
		return err
	}
	s.notifier.Notify(userID)
	return nil
}

func (s *workoutTypeService) SeedDefaults(ctx context.Context, userID primitive.ObjectID) (int, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	existing, err := s.types.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, wt := range existing {
		if wt.IsDefault {
			return 0, nil
		}
	}

	created := 0
	for _, def := range domain.DefaultWorkoutTypes() {
		wt := def.Type
		wt.UserID = userID
		if _, err := s.types.Create(ctx, &wt); err != nil {
			return created, fmt.Errorf("seed workout type %q: %w", wt.Name, err)
		}
		for _, sec := range def.Sections {
			sec.WorkoutTypeID = wt.ID
			if _, err := s.sections.Create(ctx, &sec); err != nil {
				return created, fmt.Errorf("seed section %q: %w", sec.Name, err)
			}
		}
		created++
	}
	log.Debugf("seeded %d default workout types for user %s", created, userID.Hex())
	s.notifier.Notify(userID)
	return created, nil
}

func (s *workoutTypeService) AddSection(ctx context.Context, userID, typeID primitive.ObjectID, in SectionInput) (*domain.WorkoutSection, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidf("section name is required")
	}
	wt, err := loadOwnedType(ctx, s.types, userID, typeID)
	if err != nil {
		return nil, err
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		existing, err := s.sections.ListByWorkoutType(ctx, wt.ID)
		if err != nil {
			return nil, err
		}
		for _, sec := range existing {
			if sec.Order > order {
				order = sec.Order
			}
		}
		order++
	}

	section := &domain.WorkoutSection{
		WorkoutTypeID: wt.ID,
		Name:          strings.TrimSpace(in.Name),
		Duration:      in.Duration,
		Instructions:  in.Instructions,
		Order:         order,
	}
	if _, err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	s.notifier.Notify(userID)
	return section, nil
}

// loadOwnedSection resolves ownership through the parent type.
func (s *workoutTypeService) loadOwnedSection(ctx context.Context, userID, sectionID primitive.ObjectID) (*domain.WorkoutSection, error) {
	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	if _, err := loadOwnedType(ctx, s.types, userID, section.WorkoutTypeID); err != nil {
		if errors.Is(err, ErrWorkoutTypeNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return section, nil
}

func (s *workoutTypeService) UpdateSection(ctx context.Context, userID, sectionID primitive.ObjectID, patch SectionPatch) (*domain.WorkoutSection, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	section, err := s.loadOwnedSection(ctx, userID, sectionID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalidf("section name is required")
		}
		section.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Duration != nil {
		section.Duration = *patch.Duration
	}
	if patch.Instructions != nil {
		section.Instructions = patch.Instructions
	}
	if patch.Order != nil {
		section.Order = *patch.Order
	}

	if err := s.sections.Update(ctx, section); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	s.notifier.Notify(userID)
	return section, nil
}

func (s *workoutTypeService) DeleteSection(ctx context.Context, userID, sectionID primitive.ObjectID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	section, err := s.loadOwnedSection(ctx, userID, sectionID)
	if err != nil {
		return err
	}
	if err := s.sections.Delete(ctx, section.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSectionNotFound
		}
		return err
	}
	s.notifier.Notify(userID)
	return nil
}
