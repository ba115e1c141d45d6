package domain_test

import (
	"testing"
	"time"

	"fitcal/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newSession(t *testing.T) *domain.WorkoutSession {
	t.Helper()
	s, err := domain.NewWorkoutSession(primitive.NewObjectID(), "2024-01-10", domain.CategoryCardio)
	require.NoError(t, err)
	return s
}

func TestNewWorkoutSession_SetsWeekStart(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, "2024-01-08", s.WeekStart)
	assert.Equal(t, domain.StatusNotStarted, s.Status())

	_, err := domain.NewWorkoutSession(primitive.NewObjectID(), "bad", domain.CategoryCardio)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestSession_Lifecycle(t *testing.T) {
	s := newSession(t)
	start := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Begin(start))
	assert.Equal(t, domain.StatusInProgress, s.Status())
	assert.Equal(t, 10*time.Minute, s.Elapsed(start.Add(10*time.Minute)))

	// reopening keeps the persisted start time
	require.NoError(t, s.Begin(start.Add(time.Hour)))
	assert.Equal(t, start, *s.StartTime)

	end := start.Add(45*time.Minute + 30*time.Second)
	require.NoError(t, s.Complete(end, nil, 0, "felt good"))
	assert.Equal(t, domain.StatusCompleted, s.Status())
	require.NotNil(t, s.Duration)
	assert.Equal(t, 45, *s.Duration)
	assert.Equal(t, "felt good", s.Notes)

	// elapsed is frozen once completed
	assert.Equal(t, 45*time.Minute+30*time.Second, s.Elapsed(end.Add(3*time.Hour)))

	assert.ErrorIs(t, s.Begin(end), domain.ErrSessionCompleted)
	assert.ErrorIs(t, s.Restart(end, "x"), domain.ErrSessionCompleted)
	assert.ErrorIs(t, s.Complete(end, nil, 0, ""), domain.ErrSessionCompleted)
	assert.ErrorIs(t, s.ToggleSection(0, 3), domain.ErrSessionCompleted)
	assert.ErrorIs(t, s.ToggleStep(0, 3), domain.ErrSessionCompleted)
}

func TestSession_CompleteWithoutStart(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Complete(time.Now(), []bool{true, false}, 2, ""))
	assert.Equal(t, 0, *s.Duration)
	assert.Equal(t, []bool{true, false}, s.CompletedSections)
	assert.Equal(t, time.Duration(0), s.Elapsed(time.Now()))
}

func TestSession_SetSections(t *testing.T) {
	s := newSession(t)
	s.CompletedSections = []bool{false, false, false}

	assert.ErrorIs(t, s.SetSections(make([]bool, 9), 3), domain.ErrTooManySections)
	assert.Len(t, s.CompletedSections, 3, "rejected lists leave the checklist alone")

	require.NoError(t, s.SetSections([]bool{true}, 3))
	assert.Equal(t, []bool{true, false, false}, s.CompletedSections)

	// the type gained a section since the session was created
	require.NoError(t, s.SetSections([]bool{true, true, true, true}, 4))
	assert.Equal(t, []bool{true, true, true, true}, s.CompletedSections)

	// the type lost sections; the stored length still bounds the list
	require.NoError(t, s.SetSections([]bool{false, true}, 1))
	assert.Equal(t, []bool{false, true, false, false}, s.CompletedSections)
}

func TestSession_CompleteRejectsLongSectionList(t *testing.T) {
	s := newSession(t)
	s.CompletedSections = []bool{false, false, false}

	assert.ErrorIs(t, s.Complete(time.Now(), make([]bool, 9), 3, ""), domain.ErrTooManySections)
	assert.False(t, s.Completed)
	assert.Nil(t, s.EndTime)
	assert.Len(t, s.CompletedSections, 3)
}

func TestSession_Restart(t *testing.T) {
	s := newSession(t)
	first := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.Restart(first, "cardio-running"))
	require.NoError(t, s.ToggleStep(2, 6))

	second := first.Add(time.Hour)
	require.NoError(t, s.Restart(second, "cardio-hiit-beginner"))
	assert.Equal(t, second, *s.StartTime)
	assert.Equal(t, "cardio-hiit-beginner", s.PlanID)
	assert.Empty(t, s.CompletedSteps)
}

func TestSession_StepsStaySortedAndUnique(t *testing.T) {
	s := newSession(t)
	for _, i := range []int{4, 1, 3, 0} {
		require.NoError(t, s.ToggleStep(i, 6))
	}
	assert.Equal(t, []int{0, 1, 3, 4}, s.CompletedSteps)

	require.NoError(t, s.SetStep(3, 6, true)) // already there
	assert.Equal(t, []int{0, 1, 3, 4}, s.CompletedSteps)

	require.NoError(t, s.ToggleStep(1, 6))
	assert.Equal(t, []int{0, 3, 4}, s.CompletedSteps)

	require.NoError(t, s.SetStep(5, 6, false)) // absent, no-op
	assert.Equal(t, []int{0, 3, 4}, s.CompletedSteps)

	assert.ErrorIs(t, s.ToggleStep(6, 6), domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.ToggleStep(-1, 6), domain.ErrIndexOutOfRange)
}

func TestSession_ToggleTwiceIsIdentity(t *testing.T) {
	s := newSession(t)
	s.CompletedSections = []bool{true, false, false}
	before := append([]bool(nil), s.CompletedSections...)
	require.NoError(t, s.ToggleSection(1, 3))
	require.NoError(t, s.ToggleSection(1, 3))
	assert.Equal(t, before, s.CompletedSections)

	require.NoError(t, s.ToggleStep(2, 5))
	require.NoError(t, s.ToggleStep(2, 5))
	assert.Empty(t, s.CompletedSteps)
}

func TestSession_ToggleSectionPadsAfterTypeGrows(t *testing.T) {
	s := newSession(t)
	s.CompletedSections = []bool{true, false, false}

	// the type gained a fourth section after the session was created
	require.NoError(t, s.ToggleSection(3, 4))
	assert.Equal(t, []bool{true, false, false, true}, s.CompletedSections)

	assert.ErrorIs(t, s.ToggleSection(4, 4), domain.ErrIndexOutOfRange)
}

func TestSession_ToggleSectionWithDanglingType(t *testing.T) {
	s := newSession(t)
	s.CompletedSections = []bool{false, false}

	// the type was deleted: the stored array is the only bound
	require.NoError(t, s.ToggleSection(1, 0))
	assert.Equal(t, []bool{false, true}, s.CompletedSections)
	assert.ErrorIs(t, s.ToggleSection(2, 0), domain.ErrIndexOutOfRange)
}
