package api

import (
	"net/http"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutTypeHandler struct {
	workoutTypeService service.WorkoutTypeService
}

func NewWorkoutTypeHandler(workoutTypeService service.WorkoutTypeService) *WorkoutTypeHandler {
	return &WorkoutTypeHandler{workoutTypeService: workoutTypeService}
}

// --- DTOs for Workout Types ---

type SectionRequest struct {
	Name         string   `json:"name" binding:"required"`
	Duration     string   `json:"duration"`
	Instructions []string `json:"instructions"`
	Order        *int     `json:"order" binding:"omitempty,min=0"`
}

type SectionPatchRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1"`
	Duration     *string  `json:"duration"`
	Instructions []string `json:"instructions"`
	Order        *int     `json:"order" binding:"omitempty,min=0"`
}

type CreateWorkoutTypeRequest struct {
	Name        string           `json:"name" binding:"required"`
	Category    domain.Category  `json:"category" binding:"required,oneof=cardio strength stretching"`
	Description string           `json:"description"`
	Duration    string           `json:"duration"`
	Calories    string           `json:"calories"`
	Display     domain.Display   `json:"display"`
	Sections    []SectionRequest `json:"sections" binding:"omitempty,dive"`
}

type UpdateWorkoutTypeRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1"`
	Category    *domain.Category `json:"category" binding:"omitempty,oneof=cardio strength stretching"`
	Description *string          `json:"description"`
	Duration    *string          `json:"duration"`
	Calories    *string          `json:"calories"`
	Display     *domain.Display  `json:"display"`
}

type SectionResponse struct {
	ID            string   `json:"id"`
	WorkoutTypeID string   `json:"workoutTypeId"`
	Name          string   `json:"name"`
	Duration      string   `json:"duration"`
	Instructions  []string `json:"instructions"`
	Order         int      `json:"order"`
}

type WorkoutTypeResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    domain.Category   `json:"category"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	Calories    string            `json:"calories"`
	Display     domain.Display    `json:"display"`
	IsDefault   bool              `json:"isDefault"`
	Sections    []SectionResponse `json:"sections"`
}

func MapSectionToResponse(s *domain.WorkoutSection) SectionResponse {
	instructions := s.Instructions
	if instructions == nil {
		instructions = []string{}
	}
	return SectionResponse{
		ID:            s.ID.Hex(),
		WorkoutTypeID: s.WorkoutTypeID.Hex(),
		Name:          s.Name,
		Duration:      s.Duration,
		Instructions:  instructions,
		Order:         s.Order,
	}
}

func MapWorkoutTypeToResponse(wt *domain.WorkoutType) WorkoutTypeResponse {
	resp := WorkoutTypeResponse{
		ID:          wt.ID.Hex(),
		Name:        wt.Name,
		Category:    wt.Category,
		Description: wt.Description,
		Duration:    wt.Duration,
		Calories:    wt.Calories,
		Display:     wt.Display,
		IsDefault:   wt.IsDefault,
		Sections:    make([]SectionResponse, len(wt.Sections)),
	}
	for i := range wt.Sections {
		resp.Sections[i] = MapSectionToResponse(&wt.Sections[i])
	}
	return resp
}

func toSectionInput(req SectionRequest) service.SectionInput {
	return service.SectionInput{
		Name:         req.Name,
		Duration:     req.Duration,
		Instructions: req.Instructions,
		Order:        req.Order,
	}
}

// --- Handler Methods for Workout Types ---

// ListWorkoutTypes godoc
// @Summary List the user's workout types
// @Description Every type comes with its sections ordered by their order field.
// @Tags WorkoutTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutTypeResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workout-types [get]
func (h *WorkoutTypeHandler) ListWorkoutTypes(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	types, err := h.workoutTypeService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]WorkoutTypeResponse, len(types))
	for i := range types {
		resp[i] = MapWorkoutTypeToResponse(&types[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetWorkoutType godoc
// @Summary Get a workout type
// @Tags WorkoutTypes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout type ID"
// @Success 200 {object} WorkoutTypeResponse
// @Failure 404 {object} gin.H "Workout type not found"
// @Router /workout-types/{id} [get]
func (h *WorkoutTypeHandler) GetWorkoutType(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	wt, err := h.workoutTypeService.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutTypeToResponse(wt))
}

// CreateWorkoutType godoc
// @Summary Create a workout type
// @Tags WorkoutTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutType body CreateWorkoutTypeRequest true "Workout type with optional sections"
// @Success 201 {object} WorkoutTypeResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workout-types [post]
func (h *WorkoutTypeHandler) CreateWorkoutType(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateWorkoutTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	in := service.WorkoutTypeInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Duration:    req.Duration,
		Calories:    req.Calories,
		Display:     req.Display,
		Sections:    make([]service.SectionInput, len(req.Sections)),
	}
	for i, sec := range req.Sections {
		in.Sections[i] = toSectionInput(sec)
	}

	wt, err := h.workoutTypeService.Create(c.Request.Context(), userID, in)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutTypeToResponse(wt))
}

// UpdateWorkoutType godoc
// @Summary Partially update a workout type
// @Tags WorkoutTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout type ID"
// @Param workoutType body UpdateWorkoutTypeRequest true "Fields to change"
// @Success 200 {object} WorkoutTypeResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout type not found"
// @Router /workout-types/{id} [patch]
func (h *WorkoutTypeHandler) UpdateWorkoutType(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	wt, err := h.workoutTypeService.Update(c.Request.Context(), userID, id, service.WorkoutTypePatch{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Duration:    req.Duration,
		Calories:    req.Calories,
		Display:     req.Display,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutTypeToResponse(wt))
}

// DeleteWorkoutType godoc
// @Summary Delete a workout type and its sections
// @Description Sessions that reference the type keep their cached name.
// @Tags WorkoutTypes
// @Security BearerAuth
// @Param id path string true "Workout type ID"
// @Success 204
// @Failure 404 {object} gin.H "Workout type not found"
// @Router /workout-types/{id} [delete]
func (h *WorkoutTypeHandler) DeleteWorkoutType(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutTypeService.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SeedDefaults godoc
// @Summary Create the default workout types
// @Description Does nothing when the user already has them.
// @Tags WorkoutTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "Number of types created"
// @Router /workout-types/defaults [post]
func (h *WorkoutTypeHandler) SeedDefaults(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	created, err := h.workoutTypeService.SeedDefaults(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// --- Handler Methods for Sections ---

// AddSection godoc
// @Summary Add a section to a workout type
// @Tags WorkoutTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout type ID"
// @Param section body SectionRequest true "Section"
// @Success 201 {object} SectionResponse
// @Failure 404 {object} gin.H "Workout type not found"
// @Router /workout-types/{id}/sections [post]
func (h *WorkoutTypeHandler) AddSection(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	typeID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	section, err := h.workoutTypeService.AddSection(c.Request.Context(), userID, typeID, toSectionInput(req))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSectionToResponse(section))
}

// UpdateSection godoc
// @Summary Partially update a section
// @Tags WorkoutTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Param section body SectionPatchRequest true "Fields to change"
// @Success 200 {object} SectionResponse
// @Failure 404 {object} gin.H "Section not found"
// @Router /sections/{id} [patch]
func (h *WorkoutTypeHandler) UpdateSection(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req SectionPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	section, err := h.workoutTypeService.UpdateSection(c.Request.Context(), userID, id, service.SectionPatch{
		Name:         req.Name,
		Duration:     req.Duration,
		Instructions: req.Instructions,
		Order:        req.Order,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSectionToResponse(section))
}

// DeleteSection godoc
// @Summary Delete a section
// @Tags WorkoutTypes
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Success 204
// @Failure 404 {object} gin.H "Section not found"
// @Router /sections/{id} [delete]
func (h *WorkoutTypeHandler) DeleteSection(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutTypeService.DeleteSection(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Built-in plans ---

// ListPlans godoc
// @Summary List the built-in step-by-step plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param category query string false "Only plans of this category"
// @Success 200 {array} domain.Plan
// @Failure 400 {object} gin.H "Invalid category"
// @Router /plans [get]
func ListPlans(c *gin.Context) {
	plans := domain.Plans()
	if q := c.Query("category"); q != "" {
		category, err := domain.ParseCategory(q)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		filtered := make([]domain.Plan, 0, len(plans))
		for _, p := range plans {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan godoc
// @Summary Get a built-in plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.Plan
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{id} [get]
func GetPlan(c *gin.Context) {
	plan, ok := domain.FindPlan(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, service.ErrPlanNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, plan)
}
