package domain_test

import (
	"testing"
	"time"

	"fitcal/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-01-08", "2024-01-08"}, // Monday
		{"2024-01-10", "2024-01-08"}, // Wednesday
		{"2024-01-14", "2024-01-08"}, // Sunday belongs to the previous Monday
		{"2024-01-15", "2024-01-15"},
		{"2024-03-03", "2024-02-26"}, // across a leap-year month end
		{"2025-01-01", "2024-12-30"}, // across a year end
	}
	for _, tc := range tests {
		t.Run(tc.day, func(t *testing.T) {
			got, err := domain.WeekStart(tc.day)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWeekStart_AlwaysMonday(t *testing.T) {
	day := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		ws, err := domain.WeekStart(domain.FormatDay(day))
		require.NoError(t, err)
		monday, err := domain.ParseDay(ws)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, monday.Weekday())
		assert.False(t, monday.After(day))
		assert.Less(t, day.Sub(monday), 7*24*time.Hour)
		day = day.AddDate(0, 0, 1)
	}
}

func TestWeekStart_InvalidDate(t *testing.T) {
	_, err := domain.WeekStart("10/01/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-09", domain.Today(now, nil))
	assert.Equal(t, "2024-01-10", domain.Today(now, time.FixedZone("UTC+2", 7200)))
}

func TestAddDays(t *testing.T) {
	got, err := domain.AddDays("2024-02-28", 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)
}

func TestParseFitnessGoal(t *testing.T) {
	tests := map[string]domain.FitnessGoal{
		"lose_weight":       domain.GoalLoseWeight,
		"gain_muscle":       domain.GoalGainMuscle,
		"maintain":          domain.GoalMaintain,
		"maintain_fitness":  domain.GoalMaintain,
		"endurance":         domain.GoalEndurance,
		"improve_endurance": domain.GoalEndurance,
	}
	for in, want := range tests {
		got, err := domain.ParseFitnessGoal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseFitnessGoal("get_rich")
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)
}

func TestParseCategory(t *testing.T) {
	c, err := domain.ParseCategory("strength")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryStrength, c)

	_, err = domain.ParseCategory("yoga")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestPlans(t *testing.T) {
	for _, c := range domain.Categories {
		p, ok := domain.DefaultPlanFor(c)
		require.True(t, ok, c)
		assert.Equal(t, c, p.Category)
		assert.NotEmpty(t, p.Steps)

		found, ok := domain.FindPlan(p.ID)
		require.True(t, ok)
		assert.Equal(t, p.Name, found.Name)
	}
	_, ok := domain.FindPlan("missing")
	assert.False(t, ok)
}

func TestDefaultWorkoutTypes(t *testing.T) {
	defaults := domain.DefaultWorkoutTypes()
	require.Len(t, defaults, 3)
	for _, d := range defaults {
		assert.True(t, d.Type.IsDefault)
		assert.NotEmpty(t, d.Sections)
		for i, s := range d.Sections {
			assert.Equal(t, i+1, s.Order)
		}
	}
}
