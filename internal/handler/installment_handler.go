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

// InstallmentHandler handles installment plan HTTP requests
type InstallmentHandler struct {
	installmentService *service.InstallmentService
}

// NewInstallmentHandler creates a new InstallmentHandler
func NewInstallmentHandler(installmentService *service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

// InstallmentPlanRequest represents the create plan request body
type InstallmentPlanRequest struct {
	BankAccountID     int32   `json:"bankAccountId"`
	Description       string  `json:"description"`
	TotalAmount       string  `json:"totalAmount"`
	TotalInstallments int     `json:"totalInstallments"`
	StartDate         *string `json:"startDate,omitempty"`
	CategoryID        *int32  `json:"categoryId,omitempty"`
}

// CreatePlan handles POST /api/v1/installments
func (h *InstallmentHandler) CreatePlan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	userID := middleware.GetUserID(c)

	var req InstallmentPlanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	startDate := time.Now().UTC()
	if req.StartDate != nil {
		startDate, err = time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "startDate", Message: "Must be an RFC3339 timestamp"},
			})
		}
	}

	plan, err := h.installmentService.CreatePlan(workspaceID, userID, service.CreatePlanInput{
		BankAccountID:     req.BankAccountID,
		Description:       req.Description,
		TotalAmount:       totalAmount,
		TotalInstallments: req.TotalInstallments,
		StartDate:         startDate,
		CategoryID:        req.CategoryID,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to create installment plan")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("plan_id", plan.ID).
		Int("installments", plan.TotalInstallments).
		Msg("Installment plan created")
	return c.JSON(http.StatusCreated, plan)
}

// GetPlans handles GET /api/v1/installments
func (h *InstallmentHandler) GetPlans(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	plans, err := h.installmentService.GetPlans(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get installment plans")
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlan handles GET /api/v1/installments/:id
func (h *InstallmentHandler) GetPlan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid plan ID", nil)
	}

	plan, err := h.installmentService.GetPlanByID(workspaceID, int32(id))
	if err != nil {
		return FromDomainError(c, err, "Failed to get installment plan")
	}
	return c.JSON(http.StatusOK, plan)
}

// DeletePlan handles DELETE /api/v1/installments/:id
func (h *InstallmentHandler) DeletePlan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid plan ID", nil)
	}

	if err := h.installmentService.DeletePlan(workspaceID, int32(id)); err != nil {
		return FromDomainError(c, err, "Failed to delete installment plan")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("plan_id", id).Msg("Installment plan deleted")
	return c.NoContent(http.StatusNoContent)
}
