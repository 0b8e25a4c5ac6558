package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the balance-carrying entity of the ledger. CurrentBalance
// must only ever change through the repository's transaction-scoped delta
// updates; it is never overwritten with a value computed in memory.
type BankAccount struct {
	ID              int32            `json:"id"`
	WorkspaceID     int32            `json:"workspaceId"`
	Name            string           `json:"name"`
	InitialBalance  decimal.Decimal  `json:"initialBalance"`
	CurrentBalance  decimal.Decimal  `json:"currentBalance"`
	IsInvestment    bool             `json:"isInvestment"`
	// TotalInvested is nil until principal is first tracked; a fully
	// redeemed account keeps a genuine zero.
	TotalInvested   *decimal.Decimal `json:"totalInvested"`
	CDIPercentage   decimal.Decimal  `json:"cdiPercentage"`
	MaturityDate    *time.Time       `json:"maturityDate,omitempty"`
	LastYieldUpdate *time.Time       `json:"lastYieldUpdate,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Principal returns the cost basis used to separate profit from capital
// during redemption: totalInvested when it is set, the initial balance
// otherwise.
func (a *BankAccount) Principal() decimal.Decimal {
	if a.TotalInvested != nil {
		return *a.TotalInvested
	}
	return a.InitialBalance
}

// UpdateBankAccountData holds the mutable fields of a bank account. A changed
// InitialBalance corrects CurrentBalance by the same delta.
type UpdateBankAccountData struct {
	Name           string
	InitialBalance decimal.Decimal
	IsInvestment   bool
	CDIPercentage  decimal.Decimal
	MaturityDate   *time.Time
}

type BankAccountRepository interface {
	Create(account *BankAccount) (*BankAccount, error)
	GetByID(workspaceID int32, id int32) (*BankAccount, error)
	GetAllByWorkspace(workspaceID int32) ([]*BankAccount, error)
	// GetInvestmentAccounts returns every investment-flagged account with a
	// positive balance, across all workspaces. Used by the yield batch.
	GetInvestmentAccounts() ([]*BankAccount, error)
	Update(workspaceID int32, id int32, data *UpdateBankAccountData) (*BankAccount, error)
	Delete(workspaceID int32, id int32) error

	// CreditYield books a yield transaction and increments the account
	// balance in one atomic unit, stamping last_yield_update.
	CreditYield(accountID int32, amount decimal.Decimal, record *Transaction, stampedAt time.Time) error
	// StampYieldUpdate records that the account was considered today even
	// though no yield was credited (sub-cent gross).
	StampYieldUpdate(accountID int32, stampedAt time.Time) error
	// Redeem executes a redemption atomically: the optional tax expense,
	// the withdrawal/transfer records, the destination credit (when
	// transferring) and the source balance and principal decrements.
	Redeem(op *RedemptionOp) error
}

// RedemptionOp describes the write set of a redemption. All records and
// deltas are prepared by the service; the repository applies them in a single
// database transaction.
type RedemptionOp struct {
	SourceAccountID    int32
	Amount             decimal.Decimal // full amount: tax + net
	PrincipalReduction decimal.Decimal

	TaxRecord *Transaction // nil when tax rounds below a cent

	// External withdrawal: WithdrawalRecord only.
	// Transfer: WithdrawalRecord + DepositRecord + DestinationAccountID.
	WithdrawalRecord     *Transaction
	DepositRecord        *Transaction
	DestinationAccountID *int32
	NetAmount            decimal.Decimal
}
