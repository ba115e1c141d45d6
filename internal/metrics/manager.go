package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterSessions           *prometheus.CounterVec // by lifecycle event
	CounterTrackingToggles    prometheus.Counter
	CounterExports            prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter
	CounterStatsCache         *prometheus.CounterVec // hit / miss

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeSubscriptions prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

// Session lifecycle events.
const (
	SessionCreated   = "created"
	SessionStarted   = "started"
	SessionCompleted = "completed"
	SessionDeleted   = "deleted"
)

func NewTestManager() *Manager {
	return NewManager("workout_tracker", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workout_tracker", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterSessions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions",
		Help:      "Workout session lifecycle events",
	}, []string{"event"})
	counterTrackingToggles := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tracking_toggles",
		Help:      "The total number of weekly tracking toggles",
	})
	counterExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exports",
		Help:      "The total number of session exports written",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterStatsCache := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stats_cache",
		Help:      "Stats summary cache lookups",
	}, []string{"result"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeSubscriptions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_subscriptions",
		Help:      "Current number of live change subscriptions (SSE streams)",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05,
				0.1, 0.25, 0.5, 1, 2.5, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterSessions:           counterSessions,
		CounterTrackingToggles:    counterTrackingToggles,
		CounterExports:            counterExports,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		CounterStatsCache:         counterStatsCache,
		GaugeRequests:             gaugeRequests,
		GaugeSubscriptions:        gaugeSubscriptions,
		HistRequestDuration:       histReqDuration,
	}
}
