package service

import (
	"context"
	"testing"

	"fitcal/workout-tracker/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingService_Toggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.newUser(t)

	r, err := env.tracking.Toggle(ctx, userID, "2024-01-10", domain.CategoryCardio)
	require.NoError(t, err)
	assert.True(t, r.Completed, "first toggle creates a completed record")
	assert.Equal(t, "2024-01-08", r.WeekStart)

	r, err = env.tracking.Toggle(ctx, userID, "2024-01-10", domain.CategoryCardio)
	require.NoError(t, err)
	assert.False(t, r.Completed)

	_, err = env.tracking.Toggle(ctx, userID, "2024-01-10", "yoga")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.CounterTrackingToggles))
}

func TestTrackingService_WeekAndStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.newUser(t)

	for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-14", "2024-01-15"} {
		_, err := env.tracking.Toggle(ctx, userID, d, domain.CategoryStrength)
		require.NoError(t, err)
	}
	// untick one again
	_, err := env.tracking.Toggle(ctx, userID, "2024-01-09", domain.CategoryStrength)
	require.NoError(t, err)

	week, err := env.tracking.Week(ctx, userID, "2024-01-12")
	require.NoError(t, err)
	assert.Len(t, week, 3)

	progress, err := env.tracking.WeeklyStats(ctx, userID, "2024-01-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", progress.WeekStart)
	assert.Equal(t, 2, progress.Completed)
	assert.Equal(t, 3, progress.Total)
}
