package handler

import (
	"net/http"

	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// WorkspaceHandler handles workspace HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// GetWorkspace handles GET /api/v1/workspace
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	workspace, err := h.workspaceService.GetWorkspace(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get workspace")
	}
	return c.JSON(http.StatusOK, workspace)
}
