package service

import (
	"fmt"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goals and their ledger-visible deposits.
type GoalService struct {
	goalRepo       domain.GoalRepository
	accountRepo    domain.BankAccountRepository
	eventPublisher websocket.EventPublisher
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, accountRepo domain.BankAccountRepository) *GoalService {
	return &GoalService{
		goalRepo:    goalRepo,
		accountRepo: accountRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoalService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Title            string
	TargetAmount     decimal.Decimal
	Deadline         *time.Time
	StorageAccountID *int32
	Color            *string
}

// CreateGoal creates a goal with validation. The optional storage account
// receives every deposited amount and must belong to the workspace.
func (s *GoalService) CreateGoal(workspaceID int32, input CreateGoalInput) (*domain.Goal, error) {
	title, err := validateDescription(input.Title)
	if err != nil {
		return nil, err
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.StorageAccountID != nil {
		if _, err := s.accountRepo.GetByID(workspaceID, *input.StorageAccountID); err != nil {
			return nil, domain.ErrAccountNotFound
		}
	}

	return s.goalRepo.Create(&domain.Goal{
		WorkspaceID:      workspaceID,
		Title:            title,
		TargetAmount:     input.TargetAmount,
		CurrentAmount:    decimal.Zero,
		Deadline:         input.Deadline,
		StorageAccountID: input.StorageAccountID,
		Color:            input.Color,
	})
}

// GoalWithProgress is a goal annotated with its completion percentage.
type GoalWithProgress struct {
	*domain.Goal
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
}

// GetGoals lists a workspace's goals with progress
func (s *GoalService) GetGoals(workspaceID int32) ([]*GoalWithProgress, error) {
	goals, err := s.goalRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	result := make([]*GoalWithProgress, 0, len(goals))
	for _, goal := range goals {
		result = append(result, withProgress(goal))
	}
	return result, nil
}

// GetGoalByID retrieves a goal within a workspace
func (s *GoalService) GetGoalByID(workspaceID int32, id int32) (*GoalWithProgress, error) {
	goal, err := s.goalRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	return withProgress(goal), nil
}

func withProgress(goal *domain.Goal) *GoalWithProgress {
	progress := decimal.Zero
	if goal.TargetAmount.IsPositive() {
		progress = goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &GoalWithProgress{Goal: goal, ProgressPercentage: progress}
}

// UpdateGoalInput holds the optional replacement fields of a goal update
type UpdateGoalInput struct {
	Title        *string
	TargetAmount *decimal.Decimal
	Deadline     *time.Time
	Color        *string
}

// UpdateGoal updates the fields present in the input
func (s *GoalService) UpdateGoal(workspaceID int32, id int32, input UpdateGoalInput) (*domain.Goal, error) {
	if input.Title != nil {
		title, err := validateDescription(*input.Title)
		if err != nil {
			return nil, err
		}
		input.Title = &title
	}
	if input.TargetAmount != nil && input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	goal, err := s.goalRepo.Update(workspaceID, id, &domain.UpdateGoalData{
		Title:        input.Title,
		TargetAmount: input.TargetAmount,
		Deadline:     input.Deadline,
		Color:        input.Color,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.GoalUpdated(goal))
	return goal, nil
}

// DepositInput holds the input for a goal deposit or withdrawal. A negative
// amount withdraws from the goal back to the source account.
type DepositInput struct {
	Amount          decimal.Decimal
	SourceAccountID *int32
	CreatedByID     uuid.UUID
}

// Deposit moves money into (or, with a negative amount, out of) a goal.
// With a source account the movement is ledger-visible: a paid transaction
// tagged with the goal's id debits the source, and the goal's storage
// account (when set) receives the same amount. Without a source account only
// the goal's tracked amount changes.
func (s *GoalService) Deposit(workspaceID int32, goalID int32, input DepositInput) (*domain.Goal, error) {
	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	goal, err := s.goalRepo.GetByID(workspaceID, goalID)
	if err != nil {
		return nil, err
	}

	if input.Amount.IsNegative() && goal.CurrentAmount.Add(input.Amount).IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if input.SourceAccountID == nil {
		if err := s.goalRepo.AdjustAmount(workspaceID, goalID, input.Amount); err != nil {
			return nil, err
		}
	} else {
		source, err := s.accountRepo.GetByID(workspaceID, *input.SourceAccountID)
		if err != nil {
			return nil, domain.ErrAccountNotFound
		}
		if input.Amount.IsPositive() && input.Amount.GreaterThan(source.CurrentBalance) {
			return nil, domain.ErrInsufficientFunds
		}

		now := time.Now().UTC()
		recordType := domain.TransactionTypeExpense
		description := fmt.Sprintf("Depósito em Objetivo: %s", goal.Title)
		if input.Amount.IsNegative() {
			recordType = domain.TransactionTypeIncome
			description = fmt.Sprintf("Resgate de Objetivo: %s", goal.Title)
		}

		op := &domain.GoalDepositOp{
			GoalID:           goalID,
			Amount:           input.Amount,
			SourceAccountID:  *input.SourceAccountID,
			StorageAccountID: goal.StorageAccountID,
			Record: &domain.Transaction{
				WorkspaceID:   workspaceID,
				BankAccountID: *input.SourceAccountID,
				Description:   description,
				Amount:        input.Amount.Abs(),
				Type:          recordType,
				Date:          now,
				IsPaid:        true,
				PaidAt:        &now,
				CreatedByID:   input.CreatedByID,
				GoalID:        &goalID,
			},
		}
		if err := s.goalRepo.ApplyDeposit(workspaceID, op); err != nil {
			return nil, err
		}
	}

	updated, err := s.goalRepo.GetByID(workspaceID, goalID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.GoalUpdated(updated))
	return updated, nil
}

// DeleteGoal removes a goal, reversing every transaction tagged with its id
// and draining its storage account, so the ledger ends as if the goal never
// existed.
func (s *GoalService) DeleteGoal(workspaceID int32, id int32) error {
	if _, err := s.goalRepo.GetByID(workspaceID, id); err != nil {
		return err
	}
	if err := s.goalRepo.DeleteWithReversal(workspaceID, id); err != nil {
		return err
	}
	s.publishEvent(workspaceID, websocket.GoalDeleted(map[string]int32{"id": id}))
	return nil
}
