package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create goal request body
type GoalRequest struct {
	Title            string  `json:"title"`
	TargetAmount     string  `json:"targetAmount"`
	Deadline         *string `json:"deadline,omitempty"`
	StorageAccountID *int32  `json:"storageAccountId,omitempty"`
	Color            *string `json:"color,omitempty"`
}

// UpdateGoalRequest represents the update goal request body; absent fields
// are left unchanged
type UpdateGoalRequest struct {
	Title        *string `json:"title,omitempty"`
	TargetAmount *string `json:"targetAmount,omitempty"`
	Deadline     *string `json:"deadline,omitempty"`
	Color        *string `json:"color,omitempty"`
}

// GoalDepositRequest represents the deposit request body. A negative amount
// withdraws from the goal.
type GoalDepositRequest struct {
	Amount          string `json:"amount"`
	SourceAccountID *int32 `json:"sourceAccountId,omitempty"`
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetAmount, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	var deadline *time.Time
	if req.Deadline != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return NewValidationError(c, "Invalid deadline", []ValidationError{
				{Field: "deadline", Message: "Must be an RFC3339 timestamp"},
			})
		}
		deadline = &parsed
	}

	goal, err := h.goalService.CreateGoal(workspaceID, service.CreateGoalInput{
		Title:            req.Title,
		TargetAmount:     targetAmount,
		Deadline:         deadline,
		StorageAccountID: req.StorageAccountID,
		Color:            req.Color,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to create goal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("goal_id", goal.ID).Str("title", goal.Title).Msg("Goal created")
	return c.JSON(http.StatusCreated, goal)
}

// GetGoals handles GET /api/v1/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	goals, err := h.goalService.GetGoals(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get goals")
	}
	return c.JSON(http.StatusOK, goals)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	goal, err := h.goalService.GetGoalByID(workspaceID, int32(id))
	if err != nil {
		return FromDomainError(c, err, "Failed to get goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateGoalInput{
		Title: req.Title,
		Color: req.Color,
	}
	if req.TargetAmount != nil {
		target, err := decimal.NewFromString(*req.TargetAmount)
		if err != nil {
			return NewValidationError(c, "Invalid target amount", []ValidationError{
				{Field: "targetAmount", Message: "Must be a valid decimal number"},
			})
		}
		input.TargetAmount = &target
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return NewValidationError(c, "Invalid deadline", []ValidationError{
				{Field: "deadline", Message: "Must be an RFC3339 timestamp"},
			})
		}
		input.Deadline = &deadline
	}

	goal, err := h.goalService.UpdateGoal(workspaceID, int32(id), input)
	if err != nil {
		return FromDomainError(c, err, "Failed to update goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(workspaceID, int32(id)); err != nil {
		return FromDomainError(c, err, "Failed to delete goal")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("goal_id", id).Msg("Goal deleted")
	return c.NoContent(http.StatusNoContent)
}

// Deposit handles POST /api/v1/goals/:id/deposit
func (h *GoalHandler) Deposit(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req GoalDepositRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	goal, err := h.goalService.Deposit(workspaceID, int32(id), service.DepositInput{
		Amount:          amount,
		SourceAccountID: req.SourceAccountID,
		CreatedByID:     userID,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to deposit to goal")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("goal_id", goal.ID).
		Str("amount", amount.String()).
		Msg("Goal deposit applied")
	return c.JSON(http.StatusOK, goal)
}
