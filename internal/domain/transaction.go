package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

type Transaction struct {
	ID            int32           `json:"id"`
	WorkspaceID   int32           `json:"workspaceId"`
	BankAccountID int32           `json:"bankAccountId"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CategoryID    *int32          `json:"categoryId,omitempty"`
	CreatedByID   uuid.UUID       `json:"createdById"`

	// Set when the transaction is one installment of a direct plan.
	InstallmentPurchaseID *int32 `json:"installmentPurchaseId,omitempty"`
	InstallmentNumber     *int32 `json:"installmentNumber,omitempty"`

	// Set when the transaction records a goal deposit or withdrawal, so
	// goal deletion can reverse it without matching on description text.
	GoalID *int32 `json:"goalId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BalanceImpact returns the signed effect the transaction currently has on
// its account: +amount for a paid income, -amount for a paid expense, zero
// while unpaid.
func (t *Transaction) BalanceImpact() decimal.Decimal {
	return BalanceImpact(t.Type, t.Amount, t.IsPaid)
}

// BalanceImpact computes the signed balance effect of a (type, amount, paid)
// triple. Toggling paid state applies or reverts exactly this delta once.
func BalanceImpact(txType TransactionType, amount decimal.Decimal, isPaid bool) decimal.Decimal {
	if !isPaid {
		return decimal.Zero
	}
	if txType == TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

type TransactionFilters struct {
	BankAccountID *int32
	Type          *TransactionType
	Month         *int
	Year          *int
	IsPaid        *bool
}

// UpdateTransactionData holds the replacement fields of a transaction update.
type UpdateTransactionData struct {
	Description   string
	Amount        decimal.Decimal
	Type          TransactionType
	Date          time.Time
	BankAccountID int32
	CategoryID    *int32
	Notes         *string
	IsPaid        bool
	PaidAt        *time.Time
}

type TransactionRepository interface {
	// CreateWithBalance inserts the transaction and applies delta to its
	// account balance (and principalDelta to total_invested) in one atomic
	// unit. Both deltas may be zero.
	CreateWithBalance(transaction *Transaction, delta decimal.Decimal, principalDelta decimal.Decimal) (*Transaction, error)
	GetByID(workspaceID int32, id int32) (*Transaction, error)
	GetByWorkspace(workspaceID int32, filters *TransactionFilters) ([]*Transaction, error)
	// UpdateWithRebalance persists data and reconciles balances: revertDelta
	// is added to the old account, applyDelta to the (possibly different)
	// new account, all in one atomic unit.
	UpdateWithRebalance(workspaceID int32, id int32, data *UpdateTransactionData, oldAccountID int32, revertDelta decimal.Decimal, applyDelta decimal.Decimal) (*Transaction, error)
	// DeleteWithRebalance removes the row and adds revertDelta to its
	// account in one atomic unit.
	DeleteWithRebalance(workspaceID int32, id int32, accountID int32, revertDelta decimal.Decimal) error
	// SetPaid flips is_paid/paid_at and applies delta to the account.
	SetPaid(workspaceID int32, id int32, paid bool, paidAt *time.Time, delta decimal.Decimal) (*Transaction, error)
}
