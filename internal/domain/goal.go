package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID               int32           `json:"id"`
	WorkspaceID      int32           `json:"workspaceId"`
	Title            string          `json:"title"`
	TargetAmount     decimal.Decimal `json:"targetAmount"`
	CurrentAmount    decimal.Decimal `json:"currentAmount"`
	Deadline         *time.Time      `json:"deadline,omitempty"`
	StorageAccountID *int32          `json:"storageAccountId,omitempty"`
	Color            *string         `json:"color,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type UpdateGoalData struct {
	Title         *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
	Color         *string
}

// GoalDepositOp is the write set of a goal deposit or withdrawal: the goal
// increment, the source account decrement, the optional storage account
// increment, and the visible transaction record. Amount is signed (negative
// for withdrawals); Record carries abs(amount).
type GoalDepositOp struct {
	GoalID           int32
	Amount           decimal.Decimal
	SourceAccountID  int32
	StorageAccountID *int32
	Record           *Transaction
}

type GoalRepository interface {
	Create(goal *Goal) (*Goal, error)
	GetByID(workspaceID int32, id int32) (*Goal, error)
	GetAllByWorkspace(workspaceID int32) ([]*Goal, error)
	Update(workspaceID int32, id int32, data *UpdateGoalData) (*Goal, error)

	// ApplyDeposit executes the whole deposit write set atomically.
	ApplyDeposit(workspaceID int32, op *GoalDepositOp) error
	// AdjustAmount changes current_amount only (no ledger effect).
	AdjustAmount(workspaceID int32, id int32, amount decimal.Decimal) error
	// DeleteWithReversal reverses every transaction carrying the goal's id,
	// drains the storage account by current_amount, then deletes the
	// transactions and the goal, all atomically.
	DeleteWithReversal(workspaceID int32, id int32) error
}
