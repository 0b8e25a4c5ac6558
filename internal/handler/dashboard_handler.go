package handler

import (
	"net/http"

	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard and yield batch HTTP requests
type DashboardHandler struct {
	dashboardService  *service.DashboardService
	investmentService *service.InvestmentService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, investmentService *service.InvestmentService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:  dashboardService,
		investmentService: investmentService,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	summary, err := h.dashboardService.GetSummary(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get dashboard summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// RunYields handles POST /api/v1/cron/yields. The batch spans all
// workspaces; the endpoint exists for external schedulers.
func (h *DashboardHandler) RunYields(c echo.Context) error {
	result, err := h.investmentService.RunYieldAccretion()
	if err != nil {
		return FromDomainError(c, err, "Yield batch failed")
	}

	log.Info().
		Int("credited", result.AccountsCredited).
		Int("skipped", result.AccountsSkipped).
		Str("total", result.TotalCredited.String()).
		Msg("Yield batch completed")
	return c.JSON(http.StatusOK, result)
}
