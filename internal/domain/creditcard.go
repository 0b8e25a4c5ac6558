package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusOpen   InvoiceStatus = "OPEN"
	InvoiceStatusClosed InvoiceStatus = "CLOSED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

type CreditCard struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	Name        string          `json:"name"`
	Limit       decimal.Decimal `json:"limit"`
	ClosingDay  int             `json:"closingDay"`
	DueDay      int             `json:"dueDay"`
	Color       *string         `json:"color,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreditCardInvoice is the aggregation bucket of purchases for one billing
// cycle, unique per (card, month, year). TotalAmount accumulates by relative
// increments as purchases land in the bucket.
type CreditCardInvoice struct {
	ID                int32           `json:"id"`
	CreditCardID      int32           `json:"creditCardId"`
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	ClosingDate       time.Time       `json:"closingDate"`
	DueDate           time.Time       `json:"dueDate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            InvoiceStatus   `json:"status"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
	PaidFromAccountID *int32          `json:"paidFromAccountId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// CreditCardPurchase is one installment occurrence; TotalAmount is the
// per-installment share, not the purchase total.
type CreditCardPurchase struct {
	ID                 int32           `json:"id"`
	CreditCardID       int32           `json:"creditCardId"`
	InvoiceID          int32           `json:"invoiceId"`
	Description        string          `json:"description"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Installments       int             `json:"installments"`
	CurrentInstallment int             `json:"currentInstallment"`
	PurchaseDate       time.Time       `json:"purchaseDate"`
	CategoryID         *int32          `json:"categoryId,omitempty"`
	ParentPurchaseID   *int32          `json:"parentPurchaseId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// PurchaseDraft pairs a purchase row with the billing cycle its amount
// belongs to. The repository resolves the cycle to an invoice bucket inside
// the insert transaction.
type PurchaseDraft struct {
	Purchase *CreditCardPurchase
	Cycle    InvoiceCycle
}

type UpdateCreditCardData struct {
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
	Color      *string
}

type CreditCardRepository interface {
	Create(card *CreditCard) (*CreditCard, error)
	GetByID(workspaceID int32, id int32) (*CreditCard, error)
	GetAllByWorkspace(workspaceID int32) ([]*CreditCard, error)
	Update(workspaceID int32, id int32, data *UpdateCreditCardData) (*CreditCard, error)
	// Delete removes the card with its purchases and invoices; it fails
	// with ErrCardHasOpenInvoices while a non-paid invoice has a balance.
	Delete(workspaceID int32, id int32) error

	// CreatePurchaseBatch inserts all installment rows of one purchase,
	// lazily creating each cycle's invoice bucket and incrementing its
	// total, atomically. The first row becomes the parent of the chain.
	CreatePurchaseBatch(creditCardID int32, drafts []*PurchaseDraft) ([]*CreditCardPurchase, error)
	GetPurchases(creditCardID int32) ([]*CreditCardPurchase, error)

	GetInvoices(creditCardID int32) ([]*CreditCardInvoice, error)
	GetInvoiceByID(creditCardID int32, invoiceID int32) (*CreditCardInvoice, error)
	// PayInvoice marks the invoice paid exactly once and debits the paying
	// account by the invoice total in one atomic unit. A second pay attempt
	// fails with ErrInvoiceAlreadyPaid.
	PayInvoice(invoiceID int32, bankAccountID int32, paidAt time.Time) (*CreditCardInvoice, error)
	// GetUsedAmount returns the sum of non-paid invoice totals for a card.
	GetUsedAmount(creditCardID int32) (decimal.Decimal, error)
}
