package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	BankAccountID int32   `json:"bankAccountId"`
	Description   string  `json:"description"`
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	Date          *string `json:"date,omitempty"`
	IsPaid        *bool   `json:"isPaid,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CategoryID    *int32  `json:"categoryId,omitempty"`
}

func (r *TransactionRequest) parse() (decimal.Decimal, *time.Time, *requestError) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, nil, &requestError{detail: "Invalid amount", fields: []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		}}
	}

	var date *time.Time
	if r.Date != nil {
		parsed, err := time.Parse(time.RFC3339, *r.Date)
		if err != nil {
			return decimal.Zero, nil, &requestError{detail: "Invalid date", fields: []ValidationError{
				{Field: "date", Message: "Must be an RFC3339 timestamp"},
			}}
		}
		date = &parsed
	}
	return amount, date, nil
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}
	userID := middleware.GetUserID(c)

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, date, reqErr := req.parse()
	if reqErr != nil {
		return NewValidationError(c, reqErr.detail, reqErr.fields)
	}

	transaction, err := h.transactionService.CreateTransaction(workspaceID, userID, service.CreateTransactionInput{
		BankAccountID: req.BankAccountID,
		Description:   req.Description,
		Amount:        amount,
		Type:          domain.TransactionType(req.Type),
		Date:          date,
		IsPaid:        req.IsPaid,
		Notes:         req.Notes,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to create transaction")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("transaction_id", transaction.ID).
		Str("type", string(transaction.Type)).
		Msg("Transaction created")
	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters := &domain.TransactionFilters{}
	if param := c.QueryParam("bankAccountId"); param != "" {
		id, err := strconv.Atoi(param)
		if err != nil {
			return NewValidationError(c, "Invalid bankAccountId filter", nil)
		}
		accountID := int32(id)
		filters.BankAccountID = &accountID
	}
	if param := c.QueryParam("type"); param != "" {
		txType := domain.TransactionType(param)
		filters.Type = &txType
	}
	if param := c.QueryParam("isPaid"); param != "" {
		isPaid := param == "true"
		filters.IsPaid = &isPaid
	}
	if monthParam, yearParam := c.QueryParam("month"), c.QueryParam("year"); monthParam != "" && yearParam != "" {
		month, err := strconv.Atoi(monthParam)
		if err != nil || month < 1 || month > 12 {
			return NewValidationError(c, "Invalid month filter", nil)
		}
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			return NewValidationError(c, "Invalid year filter", nil)
		}
		filters.Month = &month
		filters.Year = &year
	}

	transactions, err := h.transactionService.GetTransactions(workspaceID, filters)
	if err != nil {
		return FromDomainError(c, err, "Failed to get transactions")
	}
	return c.JSON(http.StatusOK, transactions)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, date, reqErr := req.parse()
	if reqErr != nil {
		return NewValidationError(c, reqErr.detail, reqErr.fields)
	}
	if date == nil {
		return NewValidationError(c, "Date is required", []ValidationError{
			{Field: "date", Message: "Date is required"},
		})
	}

	transaction, err := h.transactionService.UpdateTransaction(workspaceID, int32(id), service.UpdateTransactionInput{
		BankAccountID: req.BankAccountID,
		Description:   req.Description,
		Amount:        amount,
		Type:          domain.TransactionType(req.Type),
		Date:          *date,
		IsPaid:        req.IsPaid,
		Notes:         req.Notes,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to update transaction")
	}
	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(workspaceID, int32(id)); err != nil {
		return FromDomainError(c, err, "Failed to delete transaction")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// Pay handles POST /api/v1/transactions/:id/pay
func (h *TransactionHandler) Pay(c echo.Context) error {
	return h.setPaid(c, true)
}

// Unpay handles DELETE /api/v1/transactions/:id/pay
func (h *TransactionHandler) Unpay(c echo.Context) error {
	return h.setPaid(c, false)
}

func (h *TransactionHandler) setPaid(c echo.Context, paid bool) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.SetPaid(workspaceID, int32(id), paid)
	if err != nil {
		return FromDomainError(c, err, "Failed to change paid state")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("transaction_id", transaction.ID).
		Bool("is_paid", transaction.IsPaid).
		Msg("Transaction paid state changed")
	return c.JSON(http.StatusOK, transaction)
}
