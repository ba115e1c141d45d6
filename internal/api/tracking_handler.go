package api

import (
	"net/http"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	trackingService service.TrackingService
}

func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

type ToggleTrackingRequest struct {
	Date     string          `json:"date" binding:"required"`
	Category domain.Category `json:"category" binding:"required,oneof=cardio strength stretching"`
}

type TrackingResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Category  domain.Category `json:"category"`
	Completed bool            `json:"completed"`
	WeekStart string          `json:"weekStart"`
}

func MapTrackingToResponse(r *domain.TrackingRecord) TrackingResponse {
	return TrackingResponse{
		ID:        r.ID.Hex(),
		Date:      r.Date,
		Category:  r.Category,
		Completed: r.Completed,
		WeekStart: r.WeekStart,
	}
}

// ListWeek godoc
// @Summary List the tracking records of a week
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param week query string true "Any day of the week (YYYY-MM-DD)"
// @Success 200 {array} TrackingResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Router /tracking [get]
func (h *TrackingHandler) ListWeek(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	records, err := h.trackingService.Week(c.Request.Context(), userID, c.Query("week"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]TrackingResponse, len(records))
	for i := range records {
		resp[i] = MapTrackingToResponse(&records[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Toggle godoc
// @Summary Flip the done mark of a day and category
// @Description The first toggle creates the record as completed.
// @Tags Tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param toggle body ToggleTrackingRequest true "Day and category"
// @Success 200 {object} TrackingResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /tracking/toggle [post]
func (h *TrackingHandler) Toggle(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ToggleTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	record, err := h.trackingService.Toggle(c.Request.Context(), userID, req.Date, req.Category)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrackingToResponse(record))
}

// WeeklyStats godoc
// @Summary Completed and total tracking records of a week
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param week query string true "Any day of the week (YYYY-MM-DD)"
// @Success 200 {object} stats.Progress
// @Failure 400 {object} gin.H "Invalid date"
// @Router /tracking/weekly-stats [get]
func (h *TrackingHandler) WeeklyStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	progress, err := h.trackingService.WeeklyStats(c.Request.Context(), userID, c.Query("week"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
