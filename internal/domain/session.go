package domain

import (
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSessionCompleted = errors.New("workout session already completed")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrTooManySections  = errors.New("more completed sections than the workout has")
)

// SessionStatus is the execution state of a WorkoutSession.
type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// WorkoutSession is a dated occurrence of a workout.
type WorkoutSession struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID  `bson:"userId" json:"userId"`
	Date              string              `bson:"date" json:"date"`           // ISO day
	WeekStart         string              `bson:"weekStart" json:"weekStart"` // Monday of Date's week, denormalized for range queries
	Category          Category            `bson:"category" json:"category"`
	WorkoutTypeID     *primitive.ObjectID `bson:"workoutTypeId,omitempty" json:"workoutTypeId,omitempty"`
	WorkoutTypeName   string              `bson:"workoutTypeName,omitempty" json:"workoutTypeName,omitempty"` // Cached; survives deletion of the type
	PlanID            string              `bson:"planId,omitempty" json:"planId,omitempty"`                   // Built-in plan for step tracking
	Completed         bool                `bson:"completed" json:"completed"`
	StartTime         *time.Time          `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime           *time.Time          `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Duration          *int                `bson:"duration,omitempty" json:"duration,omitempty"` // Minutes
	Notes             string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CompletedSections []bool              `bson:"completedSections,omitempty" json:"completedSections,omitempty"`
	CompletedSteps    []int               `bson:"completedSteps,omitempty" json:"completedSteps,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewWorkoutSession builds an unstarted session for the given day with its week key filled in.
func NewWorkoutSession(userID primitive.ObjectID, date string, category Category) (*WorkoutSession, error) {
	weekStart, err := WeekStart(date)
	if err != nil {
		return nil, err
	}
	return &WorkoutSession{
		UserID:    userID,
		Date:      date,
		WeekStart: weekStart,
		Category:  category,
	}, nil
}

// Status derives the execution state from the persisted fields.
func (s *WorkoutSession) Status() SessionStatus {
	switch {
	case s.Completed:
		return StatusCompleted
	case s.StartTime != nil:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// Begin records the start time unless one is already persisted, so a reopened
// session keeps measuring from its original start.
func (s *WorkoutSession) Begin(now time.Time) error {
	if s.Completed {
		return ErrSessionCompleted
	}
	if s.StartTime == nil {
		t := now.UTC()
		s.StartTime = &t
	}
	return nil
}

// Restart (re)starts a step-tracked session: fresh start time, plan and empty step list.
func (s *WorkoutSession) Restart(now time.Time, planID string) error {
	if s.Completed {
		return ErrSessionCompleted
	}
	t := now.UTC()
	s.StartTime = &t
	s.PlanID = planID
	s.CompletedSteps = []int{}
	return nil
}

// SetStep marks step index done or not done. The step list stays sorted and unique.
func (s *WorkoutSession) SetStep(index, stepCount int, done bool) error {
	if s.Completed {
		return ErrSessionCompleted
	}
	if index < 0 || index >= stepCount {
		return ErrIndexOutOfRange
	}
	pos := sort.SearchInts(s.CompletedSteps, index)
	present := pos < len(s.CompletedSteps) && s.CompletedSteps[pos] == index
	switch {
	case done && !present:
		s.CompletedSteps = append(s.CompletedSteps, 0)
		copy(s.CompletedSteps[pos+1:], s.CompletedSteps[pos:])
		s.CompletedSteps[pos] = index
	case !done && present:
		s.CompletedSteps = append(s.CompletedSteps[:pos], s.CompletedSteps[pos+1:]...)
	}
	return nil
}

// ToggleStep flips step index in the completed set.
func (s *WorkoutSession) ToggleStep(index, stepCount int) error {
	return s.SetStep(index, stepCount, !s.HasStep(index))
}

// HasStep reports whether step index is completed.
func (s *WorkoutSession) HasStep(index int) bool {
	pos := sort.SearchInts(s.CompletedSteps, index)
	return pos < len(s.CompletedSteps) && s.CompletedSteps[pos] == index
}

// ToggleSection flips completedSections[index]. sectionCount is the referenced
// type's current section count (0 when the type is gone). A stored array that
// is shorter than sectionCount is padded with false first; indices beyond both
// the padded array and sectionCount are rejected.
func (s *WorkoutSession) ToggleSection(index, sectionCount int) error {
	if s.Completed {
		return ErrSessionCompleted
	}
	bound := len(s.CompletedSections)
	if sectionCount > bound {
		bound = sectionCount
	}
	if index < 0 || index >= bound {
		return ErrIndexOutOfRange
	}
	for len(s.CompletedSections) < bound {
		s.CompletedSections = append(s.CompletedSections, false)
	}
	s.CompletedSections[index] = !s.CompletedSections[index]
	return nil
}

// SetSections replaces the section checklist. The bound is the larger of the
// stored length and sectionCount: a shorter list is padded with false up to it,
// a longer one is rejected.
func (s *WorkoutSession) SetSections(sections []bool, sectionCount int) error {
	bound := max(len(s.CompletedSections), sectionCount)
	if len(sections) > bound {
		return ErrTooManySections
	}
	padded := make([]bool, bound)
	copy(padded, sections)
	s.CompletedSections = padded
	return nil
}

// Complete closes the session: end time, duration in whole minutes, completed flag.
// sections, when non-nil, replaces the stored section checklist under the
// SetSections rule.
func (s *WorkoutSession) Complete(now time.Time, sections []bool, sectionCount int, notes string) error {
	if s.Completed {
		return ErrSessionCompleted
	}
	if sections != nil {
		if err := s.SetSections(sections, sectionCount); err != nil {
			return err
		}
	}
	end := now.UTC()
	s.EndTime = &end
	s.Completed = true
	minutes := 0
	if s.StartTime != nil {
		minutes = int(end.Sub(*s.StartTime) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}
	}
	s.Duration = &minutes
	if notes != "" {
		s.Notes = notes
	}
	return nil
}

// Elapsed is the time spent so far: running while in progress, frozen once completed.
func (s *WorkoutSession) Elapsed(now time.Time) time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.Completed {
		if s.EndTime == nil {
			return 0
		}
		return s.EndTime.Sub(*s.StartTime)
	}
	if d := now.Sub(*s.StartTime); d > 0 {
		return d
	}
	return 0
}
