package api

import (
	"net/http"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

type ExportResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Sessions    int    `json:"sessions"`
	CreatedAt   int64  `json:"createdAt"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func MapExportToResponse(e *domain.Export, downloadURL string) ExportResponse {
	return ExportResponse{
		ID:          e.ID.Hex(),
		FileName:    e.FileName,
		ContentType: e.ContentType,
		Size:        e.Size,
		Sessions:    e.Sessions,
		CreatedAt:   e.CreatedAt.UnixMilli(),
		DownloadURL: downloadURL,
	}
}

// CreateExport godoc
// @Summary Export all sessions to object storage
// @Description Writes a JSON document and returns a temporary download URL.
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 201 {object} ExportResponse
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /exports [post]
func (h *ExportHandler) CreateExport(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	export, url, err := h.exportService.Create(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExportToResponse(export, url))
}

// ListExports godoc
// @Summary List previous exports
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExportResponse
// @Router /exports [get]
func (h *ExportHandler) ListExports(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	exports, err := h.exportService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = MapExportToResponse(&exports[i], "")
	}
	c.JSON(http.StatusOK, resp)
}

// GetExportURL godoc
// @Summary Fresh download URL of an export
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Export ID"
// @Success 200 {object} gin.H "downloadUrl"
// @Failure 404 {object} gin.H "Export not found"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /exports/{id}/url [get]
func (h *ExportHandler) GetExportURL(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	url, err := h.exportService.URL(c.Request.Context(), userID, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
