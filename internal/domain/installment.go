package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentPlan is the parent record of a direct (non-card) installment
// purchase. It owns TotalInstallments child transactions, 1-indexed by
// installment number, all unpaid until individually marked paid.
type InstallmentPlan struct {
	ID                int32           `json:"id"`
	WorkspaceID       int32           `json:"workspaceId"`
	BankAccountID     int32           `json:"bankAccountId"`
	Description       string          `json:"description"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	TotalInstallments int             `json:"totalInstallments"`
	StartDate         time.Time       `json:"startDate"`
	CategoryID        *int32          `json:"categoryId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`

	Transactions []*Transaction `json:"transactions,omitempty"`
}

// PlanProgress summarizes how far along a plan is, derived from its child
// transactions.
type PlanProgress struct {
	PaidInstallments      int             `json:"paidInstallments"`
	OverdueInstallments   int             `json:"overdueInstallments"`
	RemainingInstallments int             `json:"remainingInstallments"`
	InstallmentAmount     decimal.Decimal `json:"installmentAmount"`
	PaidAmount            decimal.Decimal `json:"paidAmount"`
	RemainingAmount       decimal.Decimal `json:"remainingAmount"`
}

type InstallmentPlanRepository interface {
	// CreatePlan inserts the parent and all child transactions atomically.
	CreatePlan(plan *InstallmentPlan, children []*Transaction) (*InstallmentPlan, error)
	// GetByID loads the plan with its child transactions ordered by
	// installment number.
	GetByID(workspaceID int32, id int32) (*InstallmentPlan, error)
	GetAllByWorkspace(workspaceID int32) ([]*InstallmentPlan, error)
	// DeletePlan removes children and parent and restores restoreAmount to
	// the plan's account in one atomic unit.
	DeletePlan(workspaceID int32, id int32, accountID int32, restoreAmount decimal.Decimal) error
}
