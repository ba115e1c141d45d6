package api

import (
	"context"
	"io"
	"net/http"

	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeFeed delivers a signal whenever a user's data changes.
type ChangeFeed interface {
	Subscribe(ctx context.Context, userID primitive.ObjectID) <-chan struct{}
}

type StatsHandler struct {
	statsService service.StatsService
	changes      ChangeFeed
}

func NewStatsHandler(statsService service.StatsService, changes ChangeFeed) *StatsHandler {
	return &StatsHandler{statsService: statsService, changes: changes}
}

// GetStats godoc
// @Summary Derived statistics of the current user
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} stats.Summary
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	summary, err := h.statsService.Summary(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// StreamStats godoc
// @Summary Stream the statistics, re-sent after every change
// @Description Server-sent "stats" events: one right away, then one per change of the user's data.
// @Tags Stats
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} stats.Summary
// @Router /stats/stream [get]
func (h *StatsHandler) StreamStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	summary, err := h.statsService.Summary(ctx, userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	changes := h.changes.Subscribe(ctx, userID)

	first := true
	c.Stream(func(w io.Writer) bool {
		if !first {
			if _, ok := <-changes; !ok {
				return false
			}
			if summary, err = h.statsService.Summary(ctx, userID); err != nil {
				if ctx.Err() == nil {
					log.Errorf("stats stream for user %s: %s", userID.Hex(), err)
				}
				return false
			}
		}
		first = false
		c.SSEvent("stats", summary)
		return true
	})
}
