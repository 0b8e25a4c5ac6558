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

// AccountHandler handles bank account HTTP requests
type AccountHandler struct {
	accountService    *service.AccountService
	investmentService *service.InvestmentService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService, investmentService *service.InvestmentService) *AccountHandler {
	return &AccountHandler{
		accountService:    accountService,
		investmentService: investmentService,
	}
}

// AccountRequest represents the create/update account request body
type AccountRequest struct {
	Name           string  `json:"name"`
	InitialBalance string  `json:"initialBalance,omitempty"`
	IsInvestment   bool    `json:"isInvestment"`
	CDIPercentage  *string `json:"cdiPercentage,omitempty"`
	MaturityDate   *string `json:"maturityDate,omitempty"`
}

// RedeemRequest represents the redeem request body
type RedeemRequest struct {
	Amount               string `json:"amount"`
	DestinationAccountID *int32 `json:"destinationAccountId,omitempty"`
}

func parseAccountRequest(req *AccountRequest) (service.CreateAccountInput, *requestError) {
	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		var err error
		initialBalance, err = decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return service.CreateAccountInput{}, &requestError{detail: "Invalid initial balance", fields: []ValidationError{
				{Field: "initialBalance", Message: "Must be a valid decimal number"},
			}}
		}
	}

	input := service.CreateAccountInput{
		Name:           req.Name,
		InitialBalance: initialBalance,
		IsInvestment:   req.IsInvestment,
	}

	if req.CDIPercentage != nil {
		cdi, err := decimal.NewFromString(*req.CDIPercentage)
		if err != nil {
			return service.CreateAccountInput{}, &requestError{detail: "Invalid CDI percentage", fields: []ValidationError{
				{Field: "cdiPercentage", Message: "Must be a valid decimal number"},
			}}
		}
		input.CDIPercentage = &cdi
	}
	if req.MaturityDate != nil {
		maturity, err := time.Parse(time.RFC3339, *req.MaturityDate)
		if err != nil {
			return service.CreateAccountInput{}, &requestError{detail: "Invalid maturity date", fields: []ValidationError{
				{Field: "maturityDate", Message: "Must be an RFC3339 timestamp"},
			}}
		}
		input.MaturityDate = &maturity
	}
	return input, nil
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, reqErr := parseAccountRequest(&req)
	if reqErr != nil {
		return NewValidationError(c, reqErr.detail, reqErr.fields)
	}

	account, err := h.accountService.CreateAccount(workspaceID, input)
	if err != nil {
		return FromDomainError(c, err, "Failed to create account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", account.ID).Str("name", account.Name).Msg("Account created")
	return c.JSON(http.StatusCreated, account)
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	accounts, err := h.accountService.GetAccounts(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get accounts")
	}
	return c.JSON(http.StatusOK, accounts)
}

// GetAccount handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.GetAccountByID(workspaceID, int32(id))
	if err != nil {
		return FromDomainError(c, err, "Failed to get account")
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateAccount handles PUT /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, reqErr := parseAccountRequest(&req)
	if reqErr != nil {
		return NewValidationError(c, reqErr.detail, reqErr.fields)
	}

	account, err := h.accountService.UpdateAccount(workspaceID, int32(id), service.UpdateAccountInput{
		Name:           input.Name,
		InitialBalance: input.InitialBalance,
		IsInvestment:   input.IsInvestment,
		CDIPercentage:  input.CDIPercentage,
		MaturityDate:   input.MaturityDate,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to update account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", account.ID).Msg("Account updated")
	return c.JSON(http.StatusOK, account)
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	if err := h.accountService.DeleteAccount(workspaceID, int32(id)); err != nil {
		return FromDomainError(c, err, "Failed to delete account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("account_id", id).Msg("Account deleted")
	return c.NoContent(http.StatusNoContent)
}

// Redeem handles POST /api/v1/accounts/:id/redeem
func (h *AccountHandler) Redeem(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	userID := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req RedeemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	result, err := h.investmentService.Redeem(workspaceID, int32(id), service.RedeemInput{
		Amount:               amount,
		DestinationAccountID: req.DestinationAccountID,
		CreatedByID:          userID,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to redeem investment")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int("account_id", id).
		Str("net_amount", result.NetAmount.String()).
		Msg("Investment redeemed")
	return c.JSON(http.StatusOK, result)
}
