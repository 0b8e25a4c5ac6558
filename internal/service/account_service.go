package service

import (
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService handles bank account business logic
type AccountService struct {
	accountRepo domain.BankAccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.BankAccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccountInput holds the input for creating a bank account
type CreateAccountInput struct {
	Name           string
	InitialBalance decimal.Decimal
	IsInvestment   bool
	CDIPercentage  *decimal.Decimal
	MaturityDate   *time.Time
}

// CreateAccount creates a bank account; the running balance starts equal to
// the initial balance.
func (s *AccountService) CreateAccount(workspaceID int32, input CreateAccountInput) (*domain.BankAccount, error) {
	name, err := validateDescription(input.Name)
	if err != nil {
		return nil, err
	}

	cdiPercentage := decimal.NewFromInt(100)
	if input.CDIPercentage != nil {
		if input.CDIPercentage.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		cdiPercentage = *input.CDIPercentage
	}

	account := &domain.BankAccount{
		WorkspaceID:    workspaceID,
		Name:           name,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		IsInvestment:   input.IsInvestment,
		CDIPercentage:  cdiPercentage,
		MaturityDate:   input.MaturityDate,
	}

	if input.IsInvestment {
		principal := input.InitialBalance
		account.TotalInvested = &principal
	}

	return s.accountRepo.Create(account)
}

// GetAccounts retrieves all bank accounts of a workspace
func (s *AccountService) GetAccounts(workspaceID int32) ([]*domain.BankAccount, error) {
	return s.accountRepo.GetAllByWorkspace(workspaceID)
}

// GetAccountByID retrieves a bank account by ID within a workspace
func (s *AccountService) GetAccountByID(workspaceID int32, id int32) (*domain.BankAccount, error) {
	return s.accountRepo.GetByID(workspaceID, id)
}

// UpdateAccountInput holds the input for updating a bank account
type UpdateAccountInput struct {
	Name           string
	InitialBalance decimal.Decimal
	IsInvestment   bool
	CDIPercentage  *decimal.Decimal
	MaturityDate   *time.Time
}

// UpdateAccount updates account fields. Changing the initial balance corrects
// the current balance by the same delta; the store applies the correction as
// a relative update so concurrent ledger writes are not lost.
func (s *AccountService) UpdateAccount(workspaceID int32, id int32, input UpdateAccountInput) (*domain.BankAccount, error) {
	name, err := validateDescription(input.Name)
	if err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	cdiPercentage := existing.CDIPercentage
	if input.CDIPercentage != nil {
		if input.CDIPercentage.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		cdiPercentage = *input.CDIPercentage
	}

	return s.accountRepo.Update(workspaceID, id, &domain.UpdateBankAccountData{
		Name:           name,
		InitialBalance: input.InitialBalance,
		IsInvestment:   input.IsInvestment,
		CDIPercentage:  cdiPercentage,
		MaturityDate:   input.MaturityDate,
	})
}

// DeleteAccount removes an account; it fails with ErrAccountInUse while
// transactions still reference it.
func (s *AccountService) DeleteAccount(workspaceID int32, id int32) error {
	return s.accountRepo.Delete(workspaceID, id)
}
