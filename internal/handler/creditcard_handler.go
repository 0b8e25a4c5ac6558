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

// CreditCardHandler handles credit card HTTP requests
type CreditCardHandler struct {
	cardService *service.CreditCardService
}

// NewCreditCardHandler creates a new CreditCardHandler
func NewCreditCardHandler(cardService *service.CreditCardService) *CreditCardHandler {
	return &CreditCardHandler{cardService: cardService}
}

// CreditCardRequest represents the create/update card request body
type CreditCardRequest struct {
	Name       string  `json:"name"`
	Limit      string  `json:"limit"`
	ClosingDay int     `json:"closingDay"`
	DueDay     int     `json:"dueDay"`
	Color      *string `json:"color,omitempty"`
}

// PurchaseRequest represents the create purchase request body
type PurchaseRequest struct {
	Description  string  `json:"description"`
	TotalAmount  string  `json:"totalAmount"`
	Installments int     `json:"installments"`
	PurchaseDate *string `json:"purchaseDate,omitempty"`
	CategoryID   *int32  `json:"categoryId,omitempty"`
}

// PayInvoiceRequest represents the pay invoice request body
type PayInvoiceRequest struct {
	BankAccountID int32 `json:"bankAccountId"`
}

func (r *CreditCardRequest) toInput() (service.CreateCardInput, *requestError) {
	limit, err := decimal.NewFromString(r.Limit)
	if err != nil {
		return service.CreateCardInput{}, &requestError{detail: "Invalid limit", fields: []ValidationError{
			{Field: "limit", Message: "Must be a valid decimal number"},
		}}
	}
	return service.CreateCardInput{
		Name:       r.Name,
		Limit:      limit,
		ClosingDay: r.ClosingDay,
		DueDay:     r.DueDay,
		Color:      r.Color,
	}, nil
}

// CreateCard handles POST /api/v1/credit-cards
func (h *CreditCardHandler) CreateCard(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreditCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, reqErr := req.toInput()
	if reqErr != nil {
		return NewValidationError(c, reqErr.detail, reqErr.fields)
	}

	card, err := h.cardService.CreateCard(workspaceID, input)
	if err != nil {
		return FromDomainError(c, err, "Failed to create credit card")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("card_id", card.ID).Str("name", card.Name).Msg("Credit card created")
	return c.JSON(http.StatusCreated, card)
}

// GetCards handles GET /api/v1/credit-cards
func (h *CreditCardHandler) GetCards(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	cards, err := h.cardService.GetCards(workspaceID)
	if err != nil {
		return FromDomainError(c, err, "Failed to get credit cards")
	}
	return c.JSON(http.StatusOK, cards)
}

// UpdateCard handles PUT /api/v1/credit-cards/:id
func (h *CreditCardHandler) UpdateCard(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	var req CreditCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, reqErr := req.toInput()
	if reqErr != nil {
		return NewValidationError(c, reqErr.detail, reqErr.fields)
	}

	card, err := h.cardService.UpdateCard(workspaceID, int32(id), input)
	if err != nil {
		return FromDomainError(c, err, "Failed to update credit card")
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteCard handles DELETE /api/v1/credit-cards/:id
func (h *CreditCardHandler) DeleteCard(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	if err := h.cardService.DeleteCard(workspaceID, int32(id)); err != nil {
		return FromDomainError(c, err, "Failed to delete credit card")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("card_id", id).Msg("Credit card deleted")
	return c.NoContent(http.StatusNoContent)
}

// CreatePurchase handles POST /api/v1/credit-cards/:id/purchases
func (h *CreditCardHandler) CreatePurchase(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	purchaseDate := time.Now().UTC()
	if req.PurchaseDate != nil {
		purchaseDate, err = time.Parse(time.RFC3339, *req.PurchaseDate)
		if err != nil {
			return NewValidationError(c, "Invalid purchase date", []ValidationError{
				{Field: "purchaseDate", Message: "Must be an RFC3339 timestamp"},
			})
		}
	}

	installments := req.Installments
	if installments == 0 {
		installments = 1
	}

	purchases, err := h.cardService.CreatePurchase(workspaceID, int32(cardID), service.CreatePurchaseInput{
		Description:  req.Description,
		TotalAmount:  totalAmount,
		Installments: installments,
		PurchaseDate: purchaseDate,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		return FromDomainError(c, err, "Failed to create purchase")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int("card_id", cardID).
		Int("installments", len(purchases)).
		Msg("Purchase created")
	return c.JSON(http.StatusCreated, purchases)
}

// GetPurchases handles GET /api/v1/credit-cards/:id/purchases
func (h *CreditCardHandler) GetPurchases(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	purchases, err := h.cardService.GetPurchases(workspaceID, int32(cardID))
	if err != nil {
		return FromDomainError(c, err, "Failed to get purchases")
	}
	return c.JSON(http.StatusOK, purchases)
}

// GetInvoices handles GET /api/v1/credit-cards/:id/invoices
func (h *CreditCardHandler) GetInvoices(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	invoices, err := h.cardService.GetInvoices(workspaceID, int32(cardID))
	if err != nil {
		return FromDomainError(c, err, "Failed to get invoices")
	}
	return c.JSON(http.StatusOK, invoices)
}

// PayInvoice handles POST /api/v1/credit-cards/:id/invoices/:invoiceId/pay
func (h *CreditCardHandler) PayInvoice(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}
	invoiceID, err := strconv.Atoi(c.Param("invoiceId"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	var req PayInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.BankAccountID == 0 {
		return NewValidationError(c, "Bank account is required", []ValidationError{
			{Field: "bankAccountId", Message: "Bank account is required"},
		})
	}

	invoice, err := h.cardService.PayInvoice(workspaceID, int32(cardID), int32(invoiceID), req.BankAccountID)
	if err != nil {
		return FromDomainError(c, err, "Failed to pay invoice")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int("invoice_id", invoiceID).
		Str("total", invoice.TotalAmount.String()).
		Msg("Invoice paid")
	return c.JSON(http.StatusOK, invoice)
}
