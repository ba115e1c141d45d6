package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterRequests.WithLabelValues("GET", "200").Inc()
	m.CounterSessions.WithLabelValues(SessionCompleted).Inc()
	m.CounterSessions.WithLabelValues(SessionCompleted).Inc()
	m.GaugeSubscriptions.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterSessions.WithLabelValues(SessionCompleted)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GaugeSubscriptions))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["workout_tracker_test_server_request"])
	assert.True(t, names["workout_tracker_test_server_sessions"])
	assert.True(t, names["workout_tracker_test_server_live_subscriptions"])
}

func TestNewTestManager_Independent(t *testing.T) {
	// separate registries, so building twice must not panic on duplicate registration
	assert.NotPanics(t, func() {
		_ = NewTestManager()
		_ = NewTestManager()
	})
}
