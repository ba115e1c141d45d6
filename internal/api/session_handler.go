package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessionService service.SessionService
	timerInterval  time.Duration
}

func NewSessionHandler(sessionService service.SessionService, timerInterval time.Duration) *SessionHandler {
	if timerInterval <= 0 {
		timerInterval = time.Second
	}
	return &SessionHandler{sessionService: sessionService, timerInterval: timerInterval}
}

// --- DTOs for Sessions ---

type CreateSessionRequest struct {
	Date          string          `json:"date" binding:"required"`
	Category      domain.Category `json:"category" binding:"omitempty,oneof=cardio strength stretching"`
	WorkoutTypeID string          `json:"workoutTypeId"`
	Notes         string          `json:"notes"`
	Completed     bool            `json:"completed"`
}

type ScheduleSessionsRequest struct {
	WorkoutTypeID string   `json:"workoutTypeId" binding:"required"`
	Dates         []string `json:"dates" binding:"required,min=1"`
}

type PlanWeekRequest struct {
	Sessions []CreateSessionRequest `json:"sessions" binding:"dive"`
}

type StartSessionRequest struct {
	Date     string          `json:"date" binding:"required"`
	Category domain.Category `json:"category" binding:"required,oneof=cardio strength stretching"`
	PlanID   string          `json:"planId"`
}

type UpdateSessionRequest struct {
	Date              *string          `json:"date"`
	Category          *domain.Category `json:"category" binding:"omitempty,oneof=cardio strength stretching"`
	Notes             *string          `json:"notes"`
	Completed         *bool            `json:"completed"`
	CompletedSections []bool           `json:"completedSections"`
}

type CompleteSessionRequest struct {
	CompletedSections []bool `json:"completedSections"`
	Notes             string `json:"notes"`
}

type SetStepRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type SessionResponse struct {
	ID                string               `json:"id"`
	Date              string               `json:"date"`
	WeekStart         string               `json:"weekStart"`
	Category          domain.Category      `json:"category"`
	WorkoutTypeID     *string              `json:"workoutTypeId,omitempty"`
	WorkoutTypeName   string               `json:"workoutTypeName,omitempty"`
	PlanID            string               `json:"planId,omitempty"`
	Status            domain.SessionStatus `json:"status"`
	Completed         bool                 `json:"completed"`
	StartTime         *int64               `json:"startTime,omitempty"` // Epoch millis
	EndTime           *int64               `json:"endTime,omitempty"`   // Epoch millis
	Duration          *int                 `json:"duration,omitempty"`  // Minutes
	Notes             string               `json:"notes,omitempty"`
	CompletedSections []bool               `json:"completedSections"`
	CompletedSteps    []int                `json:"completedSteps"`
}

func MapSessionToResponse(s *domain.WorkoutSession) SessionResponse {
	resp := SessionResponse{
		ID:                s.ID.Hex(),
		Date:              s.Date,
		WeekStart:         s.WeekStart,
		Category:          s.Category,
		WorkoutTypeName:   s.WorkoutTypeName,
		PlanID:            s.PlanID,
		Status:            s.Status(),
		Completed:         s.Completed,
		StartTime:         toMillis(s.StartTime),
		EndTime:           toMillis(s.EndTime),
		Duration:          s.Duration,
		Notes:             s.Notes,
		CompletedSections: s.CompletedSections,
		CompletedSteps:    s.CompletedSteps,
	}
	if s.WorkoutTypeID != nil {
		id := s.WorkoutTypeID.Hex()
		resp.WorkoutTypeID = &id
	}
	if resp.CompletedSections == nil {
		resp.CompletedSections = []bool{}
	}
	if resp.CompletedSteps == nil {
		resp.CompletedSteps = []int{}
	}
	return resp
}

func mapSessions(sessions []domain.WorkoutSession) []SessionResponse {
	resp := make([]SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = MapSessionToResponse(&sessions[i])
	}
	return resp
}

func (req CreateSessionRequest) toInput() (service.SessionInput, bool) {
	in := service.SessionInput{
		Date:      req.Date,
		Category:  req.Category,
		Notes:     req.Notes,
		Completed: req.Completed,
	}
	if req.WorkoutTypeID != "" {
		id, err := primitive.ObjectIDFromHex(req.WorkoutTypeID)
		if err != nil {
			return in, false
		}
		in.WorkoutTypeID = &id
	}
	return in, true
}

func pathIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid index format.")
		return 0, false
	}
	return index, true
}

// --- Calendar ---

// ListSessions godoc
// @Summary List sessions
// @Description Filter by the week containing `week` or by a single `date`; no filter lists all.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param week query string false "Any day of the week (YYYY-MM-DD)"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {array} SessionResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessions, err := h.sessionService.List(c.Request.Context(), userID, service.SessionFilter{
		Week: c.Query("week"),
		Date: c.Query("date"),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessions(sessions))
}

// GetSession godoc
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	s, err := h.sessionService.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

// CreateSession godoc
// @Summary Create a session
// @Description With a workoutTypeId the category defaults to the type's and the name is cached.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Session"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout type not found"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, ok := req.toInput()
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutTypeId format.")
		return
	}
	s, err := h.sessionService.Create(c.Request.Context(), userID, in)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(s))
}

// ScheduleSessions godoc
// @Summary Schedule a workout type on several days
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param schedule body ScheduleSessionsRequest true "Type and dates"
// @Success 201 {array} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout type not found"
// @Router /sessions/schedule [post]
func (h *SessionHandler) ScheduleSessions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ScheduleSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	typeID, err := primitive.ObjectIDFromHex(req.WorkoutTypeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutTypeId format.")
		return
	}
	sessions, err := h.sessionService.Schedule(c.Request.Context(), userID, typeID, req.Dates)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapSessions(sessions))
}

// PlanWeek godoc
// @Summary Replace the sessions of a week
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weekStart path string true "Monday of the week (YYYY-MM-DD)"
// @Param plan body PlanWeekRequest true "New sessions of the week"
// @Success 200 {array} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /sessions/week/{weekStart} [put]
func (h *SessionHandler) PlanWeek(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PlanWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	items := make([]service.SessionInput, len(req.Sessions))
	for i, item := range req.Sessions {
		in, ok := item.toInput()
		if !ok {
			abortWithError(c, http.StatusBadRequest, "Invalid workoutTypeId format.")
			return
		}
		items[i] = in
	}
	sessions, err := h.sessionService.PlanWeek(c.Request.Context(), userID, c.Param("weekStart"), items)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessions(sessions))
}

// ToggleSession godoc
// @Summary Flip the completed flag of a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id}/toggle [post]
func (h *SessionHandler) ToggleSession(c *gin.Context) {
	h.sessionAction(c, h.sessionService.ToggleCompleted)
}

// UpdateSession godoc
// @Summary Partially update a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param session body UpdateSessionRequest true "Fields to change"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [patch]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	s, err := h.sessionService.Update(c.Request.Context(), userID, id, service.SessionPatch{
		Date:              req.Date,
		Category:          req.Category,
		Notes:             req.Notes,
		Completed:         req.Completed,
		CompletedSections: req.CompletedSections,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

// DeleteSession godoc
// @Summary Delete a session
// @Tags Sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Execution ---

// BeginSession godoc
// @Summary Start the clock of a session
// @Description Keeps the original start time of a reopened session.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H "Session not found"
// @Failure 409 {object} gin.H "Session already completed"
// @Router /sessions/{id}/begin [post]
func (h *SessionHandler) BeginSession(c *gin.Context) {
	h.sessionAction(c, h.sessionService.Begin)
}

// StartSession godoc
// @Summary Start a step-tracked session for a day and category
// @Description Reuses the session of (date, category) when there is one and restarts it.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param start body StartSessionRequest true "Day, category and optional plan"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Session already completed"
// @Router /sessions/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	s, err := h.sessionService.Start(c.Request.Context(), userID, req.Date, req.Category, req.PlanID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

// ToggleStep godoc
// @Summary Flip a plan step of a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param index path int true "Step index"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Index out of range"
// @Failure 409 {object} gin.H "Session already completed"
// @Router /sessions/{id}/steps/{index}/toggle [post]
func (h *SessionHandler) ToggleStep(c *gin.Context) {
	h.indexAction(c, h.sessionService.ToggleStep)
}

// SetStep godoc
// @Summary Mark a plan step done or not done
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param index path int true "Step index"
// @Param step body SetStepRequest true "Step state"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Index out of range"
// @Failure 409 {object} gin.H "Session already completed"
// @Router /sessions/{id}/steps/{index} [put]
func (h *SessionHandler) SetStep(c *gin.Context) {
	var req SetStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.indexAction(c, func(ctx context.Context, userID, id primitive.ObjectID, index int) (*domain.WorkoutSession, error) {
		return h.sessionService.SetStep(ctx, userID, id, index, *req.Completed)
	})
}

// ToggleSection godoc
// @Summary Flip a section check box of a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param index path int true "Section index"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Index out of range"
// @Failure 409 {object} gin.H "Session already completed"
// @Router /sessions/{id}/sections/{index}/toggle [post]
func (h *SessionHandler) ToggleSection(c *gin.Context) {
	h.indexAction(c, h.sessionService.ToggleSection)
}

// CompleteSession godoc
// @Summary Complete a session
// @Description Records the end time and duration and marks the day in weekly tracking.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param complete body CompleteSessionRequest false "Final section checklist and notes"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H "Session not found"
// @Failure 409 {object} gin.H "Session already completed"
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	s, err := h.sessionService.Complete(c.Request.Context(), userID, id, service.CompleteInput{
		CompletedSections: req.CompletedSections,
		Notes:             req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

// SessionTimer godoc
// @Summary Stream the elapsed time of a session
// @Description Server-sent "tick" events until the session completes or the client leaves.
// @Tags Sessions
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} service.TimerTick
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id}/timer [get]
func (h *SessionHandler) SessionTimer(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	ticks, err := h.sessionService.Timer(c.Request.Context(), userID, id, h.timerInterval)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		tick, ok := <-ticks
		if !ok {
			return false
		}
		c.SSEvent("tick", tick)
		return true
	})
}

// --- helpers ---

type sessionActionFunc func(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error)

type indexActionFunc func(ctx context.Context, userID, id primitive.ObjectID, index int) (*domain.WorkoutSession, error)

func (h *SessionHandler) sessionAction(c *gin.Context, action sessionActionFunc) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	s, err := action(c.Request.Context(), userID, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

func (h *SessionHandler) indexAction(c *gin.Context, action indexActionFunc) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	index, ok := pathIndex(c)
	if !ok {
		return
	}
	s, err := action(c.Request.Context(), userID, id, index)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}
