package metrics

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// RequestMetrics counts requests by method and status and observes their duration.
func RequestMetrics(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Add(1)
		defer func(begin time.Time) {
			m.GaugeRequests.Add(-1)
			m.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.With(
			prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(c.Writer.Status()),
			},
		).Inc()
	}
}

// PanicRecovery turns a handler panic into a 500 and counts it.
func PanicRecovery(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if m != nil {
					m.CounterHandleRequestPanic.Inc()
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()

		// handler call
		c.Next()
	}
}
