package service

import (
	"context"
	"testing"
	"time"

	"fitcal/workout-tracker/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.newUser(t)

	for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10"} {
		s, err := env.sessions.Create(ctx, userID, SessionInput{Date: d, Category: domain.CategoryCardio})
		require.NoError(t, err)
		_, err = env.sessions.Complete(ctx, userID, s.ID, CompleteInput{})
		require.NoError(t, err)
	}
	_, err := env.sessions.Create(ctx, userID, SessionInput{Date: "2024-01-11", Category: domain.CategoryStrength})
	require.NoError(t, err)

	summary, err := env.stats.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", summary.Today)
	assert.Equal(t, 4, summary.TotalWorkouts)
	assert.Equal(t, 3, summary.CompletedWorkouts)
	assert.Equal(t, 75, summary.CompletionRate)
	assert.Equal(t, 3, summary.CurrentStreak)
	assert.Equal(t, 3, summary.TypeDistribution[domain.CategoryCardio])
	assert.Equal(t, 0, summary.TypeDistribution[domain.CategoryStretching])
	assert.Equal(t, 4, summary.Weekly.Total)
}

func TestStatsService_CacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.newUser(t)
	hits := env.metrics.CounterStatsCache.WithLabelValues("hit")
	misses := env.metrics.CounterStatsCache.WithLabelValues("miss")

	first, err := env.stats.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, first.TotalWorkouts)

	_, err = env.stats.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(misses))

	// a mutation through the services drops the cached summary
	_, err = env.sessions.Create(ctx, userID, SessionInput{Date: "2024-01-10", Category: domain.CategoryCardio})
	require.NoError(t, err)
	fresh, err := env.stats.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.TotalWorkouts)
	assert.Equal(t, 2.0, testutil.ToFloat64(misses))

	// a new day is a miss even with the entry still cached
	env.stats.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	nextDay, err := env.stats.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-11", nextDay.Today)
	assert.Equal(t, 3.0, testutil.ToFloat64(misses))
}

func TestStatsService_TTLSeconds(t *testing.T) {
	assert.Equal(t, 1, ttlSeconds(0))
	assert.Equal(t, 1, ttlSeconds(200*time.Millisecond), "sub-second ttl must not mean no expiry")
	assert.Equal(t, 1, ttlSeconds(time.Second))
	assert.Equal(t, 2, ttlSeconds(1500*time.Millisecond))
	assert.Equal(t, 300, ttlSeconds(5*time.Minute))

	svc := NewStatsService(nil, time.UTC, 1, 100*time.Millisecond, nil).(*statsService)
	assert.Equal(t, 1, svc.cacheTTL)
}
