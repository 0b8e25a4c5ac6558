package handler

import (
	"net/http"
	"strconv"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(workspaceID, service.CreateCategoryInput{
		Name:  req.Name,
		Type:  domain.CategoryType(req.Type),
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to create category")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("category_id", category.ID).Str("name", category.Name).Msg("Category created")
	return c.JSON(http.StatusCreated, category)
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	categories, err := h.categoryService.GetCategories(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get categories")
	}
	return c.JSON(http.StatusOK, categories)
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(workspaceID, int32(id), service.CreateCategoryInput{
		Name:  req.Name,
		Type:  domain.CategoryType(req.Type),
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to update category")
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(workspaceID, int32(id)); err != nil {
		return FromDomainError(c, err, "Failed to delete category")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("category_id", id).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}
