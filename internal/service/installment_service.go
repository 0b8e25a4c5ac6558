package service

import (
	"fmt"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/util"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentService handles direct installment purchases: a parent plan
// fanning out into N unpaid expense transactions, one per month.
type InstallmentService struct {
	planRepo       domain.InstallmentPlanRepository
	accountRepo    domain.BankAccountRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(planRepo domain.InstallmentPlanRepository, accountRepo domain.BankAccountRepository, categoryRepo domain.CategoryRepository) *InstallmentService {
	return &InstallmentService{
		planRepo:     planRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InstallmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InstallmentService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreatePlanInput holds the input for creating an installment plan
type CreatePlanInput struct {
	BankAccountID     int32
	Description       string
	TotalAmount       decimal.Decimal
	TotalInstallments int
	StartDate         time.Time
	CategoryID        *int32
}

// CreatePlan creates a plan and its child transactions atomically. Every
// child is an unpaid expense, so the account balance is untouched until an
// installment is individually marked paid. Installment i is dated
// startDate + i months with a "(i+1/N)" description suffix.
func (s *InstallmentService) CreatePlan(workspaceID int32, userID uuid.UUID, input CreatePlanInput) (*domain.InstallmentPlan, error) {
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	// A one-shot purchase is a plain transaction, not a plan.
	if input.TotalInstallments < 2 || input.TotalInstallments > domain.MaxInstallments {
		return nil, domain.ErrInvalidInstallment
	}

	if _, err := s.accountRepo.GetByID(workspaceID, input.BankAccountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(workspaceID, *input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	share := input.TotalAmount.Div(decimal.NewFromInt(int64(input.TotalInstallments))).Round(2)

	children := make([]*domain.Transaction, 0, input.TotalInstallments)
	for i := 0; i < input.TotalInstallments; i++ {
		number := int32(i + 1)
		children = append(children, &domain.Transaction{
			WorkspaceID:       workspaceID,
			BankAccountID:     input.BankAccountID,
			Description:       fmt.Sprintf("%s (%d/%d)", description, i+1, input.TotalInstallments),
			Amount:            share,
			Type:              domain.TransactionTypeExpense,
			Date:              util.AddMonths(input.StartDate, i),
			IsPaid:            false,
			CategoryID:        input.CategoryID,
			CreatedByID:       userID,
			InstallmentNumber: &number,
		})
	}

	plan, err := s.planRepo.CreatePlan(&domain.InstallmentPlan{
		WorkspaceID:       workspaceID,
		BankAccountID:     input.BankAccountID,
		Description:       description,
		TotalAmount:       input.TotalAmount,
		TotalInstallments: input.TotalInstallments,
		StartDate:         input.StartDate,
		CategoryID:        input.CategoryID,
	}, children)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.InstallmentPlanCreated(plan))
	return plan, nil
}

// PlanWithProgress is an installment plan annotated with derived progress.
type PlanWithProgress struct {
	*domain.InstallmentPlan
	Progress PlanProgressView `json:"progress"`
}

// PlanProgressView mirrors domain.PlanProgress for JSON output.
type PlanProgressView = domain.PlanProgress

// GetPlans lists a workspace's plans with progress derived from their
// children.
func (s *InstallmentService) GetPlans(workspaceID int32) ([]*PlanWithProgress, error) {
	plans, err := s.planRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := make([]*PlanWithProgress, 0, len(plans))
	for _, plan := range plans {
		result = append(result, &PlanWithProgress{
			InstallmentPlan: plan,
			Progress:        computeProgress(plan, now),
		})
	}
	return result, nil
}

// GetPlanByID loads a plan with its children and progress
func (s *InstallmentService) GetPlanByID(workspaceID int32, id int32) (*PlanWithProgress, error) {
	plan, err := s.planRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	return &PlanWithProgress{
		InstallmentPlan: plan,
		Progress:        computeProgress(plan, time.Now().UTC()),
	}, nil
}

func computeProgress(plan *domain.InstallmentPlan, now time.Time) domain.PlanProgress {
	share := plan.TotalAmount.Div(decimal.NewFromInt(int64(plan.TotalInstallments))).Round(2)

	progress := domain.PlanProgress{
		InstallmentAmount: share,
		PaidAmount:        decimal.Zero,
	}
	for _, child := range plan.Transactions {
		switch {
		case child.IsPaid:
			progress.PaidInstallments++
			progress.PaidAmount = progress.PaidAmount.Add(child.Amount)
		case child.Date.Before(now):
			progress.OverdueInstallments++
		}
	}
	progress.RemainingInstallments = plan.TotalInstallments - progress.PaidInstallments
	progress.RemainingAmount = plan.TotalAmount.Sub(progress.PaidAmount)
	return progress
}

// DeletePlan removes a plan and all its children, restoring to the account
// the sum of children dated up to now. Future-dated children never affected
// the balance and restore nothing.
func (s *InstallmentService) DeletePlan(workspaceID int32, id int32) error {
	plan, err := s.planRepo.GetByID(workspaceID, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	restore := decimal.Zero
	for _, child := range plan.Transactions {
		if !child.Date.After(now) {
			restore = restore.Add(child.Amount)
		}
	}

	if err := s.planRepo.DeletePlan(workspaceID, id, plan.BankAccountID, restore); err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.InstallmentPlanDeleted(id))
	return nil
}
