package service

import (
	"strings"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/util"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles the transaction ledger: every create, update,
// delete and paid-state toggle derives its balance delta from the
// (type, isPaid) invariant and applies it atomically with the record write.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.BankAccountRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, accountRepo domain.BankAccountRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	BankAccountID int32
	Description   string
	Amount        decimal.Decimal
	Type          domain.TransactionType
	Date          *time.Time
	IsPaid        *bool
	Notes         *string
	CategoryID    *int32
}

func validateDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return "", domain.ErrNameRequired
	}
	if len(trimmed) < domain.MinNameLength {
		return "", domain.ErrNameTooShort
	}
	if len(trimmed) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return trimmed, nil
}

// CreateTransaction creates a transaction and applies its balance impact.
// A paid income into an investment account also grows the principal tracker.
func (s *TransactionService) CreateTransaction(workspaceID int32, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidTransactionType
	}

	account, err := s.accountRepo.GetByID(workspaceID, input.BankAccountID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(workspaceID, *input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	now := time.Now().UTC()
	date := util.StartOfDay(now)
	if input.Date != nil {
		date = *input.Date
	}

	// Defaults to paid: most entries record money that already moved.
	isPaid := true
	if input.IsPaid != nil {
		isPaid = *input.IsPaid
	}

	var paidAt *time.Time
	if isPaid {
		paidAt = &now
	}

	transaction := &domain.Transaction{
		WorkspaceID:   workspaceID,
		BankAccountID: input.BankAccountID,
		Description:   description,
		Amount:        input.Amount,
		Type:          input.Type,
		Date:          date,
		IsPaid:        isPaid,
		PaidAt:        paidAt,
		Notes:         input.Notes,
		CategoryID:    input.CategoryID,
		CreatedByID:   userID,
	}

	delta := domain.BalanceImpact(input.Type, input.Amount, isPaid)

	// Paid deposits into an investment account grow the cost basis.
	principalDelta := decimal.Zero
	if isPaid && account.IsInvestment && input.Type == domain.TransactionTypeIncome {
		principalDelta = input.Amount
	}

	created, err := s.transactionRepo.CreateWithBalance(transaction, delta, principalDelta)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves transactions for a workspace with optional filters
func (s *TransactionService) GetTransactions(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByWorkspace(workspaceID, filters)
}

// GetTransactionByID retrieves a transaction by ID within a workspace
func (s *TransactionService) GetTransactionByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(workspaceID, id)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	BankAccountID int32
	Description   string
	Amount        decimal.Decimal
	Type          domain.TransactionType
	Date          time.Time
	IsPaid        *bool
	Notes         *string
	CategoryID    *int32
}

// UpdateTransaction reconciles two deltas atomically: the old paid-state
// impact is reverted on the old account, the new impact is applied on the
// (possibly different) new account, and the record fields are persisted.
func (s *TransactionService) UpdateTransaction(workspaceID int32, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidTransactionType
	}

	existing, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.GetByID(workspaceID, input.BankAccountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(workspaceID, *input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	wasPaid := existing.IsPaid
	isNowPaid := wasPaid
	if input.IsPaid != nil {
		isNowPaid = *input.IsPaid
	}

	oldImpact := existing.BalanceImpact()
	newImpact := domain.BalanceImpact(input.Type, input.Amount, isNowPaid)

	var paidAt *time.Time
	switch {
	case isNowPaid && !wasPaid:
		now := time.Now().UTC()
		paidAt = &now
	case isNowPaid:
		paidAt = existing.PaidAt
	}

	data := &domain.UpdateTransactionData{
		Description:   description,
		Amount:        input.Amount,
		Type:          input.Type,
		Date:          input.Date,
		BankAccountID: input.BankAccountID,
		CategoryID:    input.CategoryID,
		Notes:         input.Notes,
		IsPaid:        isNowPaid,
		PaidAt:        paidAt,
	}

	updated, err := s.transactionRepo.UpdateWithRebalance(workspaceID, id, data, existing.BankAccountID, oldImpact.Neg(), newImpact)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes the row and reverts whatever impact its current
// paid state has on the account, atomically.
func (s *TransactionService) DeleteTransaction(workspaceID int32, id int32) error {
	existing, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return err
	}

	err = s.transactionRepo.DeleteWithRebalance(workspaceID, id, existing.BankAccountID, existing.BalanceImpact().Neg())
	if err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.TransactionDeleted(existing))
	return nil
}

// SetPaid toggles the paid state in one direction. Requesting the state the
// transaction is already in fails without touching the balance.
func (s *TransactionService) SetPaid(workspaceID int32, id int32, paid bool) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	if paid && existing.IsPaid {
		return nil, domain.ErrTransactionAlreadyPaid
	}
	if !paid && !existing.IsPaid {
		return nil, domain.ErrTransactionNotPaid
	}

	if _, err := s.accountRepo.GetByID(workspaceID, existing.BankAccountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	var paidAt *time.Time
	delta := domain.BalanceImpact(existing.Type, existing.Amount, true)
	if paid {
		now := time.Now().UTC()
		paidAt = &now
	} else {
		delta = delta.Neg()
	}

	updated, err := s.transactionRepo.SetPaid(workspaceID, id, paid, paidAt, delta)
	if err != nil {
		return nil, err
	}

	if paid {
		s.publishEvent(workspaceID, websocket.TransactionPaid(updated))
	} else {
		s.publishEvent(workspaceID, websocket.TransactionUnpaid(updated))
	}
	return updated, nil
}
