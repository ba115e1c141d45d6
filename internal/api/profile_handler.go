package api

import (
	"net/http"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type ProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	FitnessGoal string `json:"fitnessGoal" binding:"required"`
}

type ProfilePatchRequest struct {
	Name        *string `json:"name"`
	FitnessGoal *string `json:"fitnessGoal"`
}

type ProfileResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Name        string             `json:"name"`
	FitnessGoal domain.FitnessGoal `json:"fitnessGoal"`
	CreatedAt   int64              `json:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt"`
}

func MapProfileToResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID.Hex(),
		UserID:      p.UserID.Hex(),
		Name:        p.Name,
		FitnessGoal: p.FitnessGoal,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} gin.H "Profile not found"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	p, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(p))
}

// CreateProfile godoc
// @Summary Create the current user's profile
// @Description Returns the existing profile unchanged (200) when one exists.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Profile"
// @Success 201 {object} ProfileResponse
// @Success 200 {object} ProfileResponse "Profile already existed"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	p, created, err := h.profileService.Create(c.Request.Context(), userID, req.Name, req.FitnessGoal)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, MapProfileToResponse(p))
}

// SaveProfile godoc
// @Summary Create or replace the current user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Profile"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	p, err := h.profileService.Save(c.Request.Context(), userID, req.Name, req.FitnessGoal)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(p))
}

// UpdateProfile godoc
// @Summary Partially update the current user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfilePatchRequest true "Fields to change"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Profile not found"
// @Router /profile [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ProfilePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	p, err := h.profileService.Update(c.Request.Context(), userID, service.ProfilePatch{Name: req.Name, FitnessGoal: req.FitnessGoal})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(p))
}
