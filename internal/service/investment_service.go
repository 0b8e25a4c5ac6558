package service

import (
	"fmt"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/util"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvestmentService runs the daily yield batch over investment accounts and
// executes redemptions with withholding tax.
type InvestmentService struct {
	accountRepo    domain.BankAccountRepository
	userRepo       domain.UserRepository
	rateProvider   domain.DailyRateProvider
	eventPublisher websocket.EventPublisher
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(accountRepo domain.BankAccountRepository, userRepo domain.UserRepository, rateProvider domain.DailyRateProvider) *InvestmentService {
	return &InvestmentService{
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		rateProvider: rateProvider,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InvestmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvestmentService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// YieldRunResult summarizes one batch run.
type YieldRunResult struct {
	AccountsCredited int             `json:"accountsCredited"`
	AccountsSkipped  int             `json:"accountsSkipped"`
	TotalCredited    decimal.Decimal `json:"totalCredited"`
	RateDate         time.Time       `json:"rateDate"`
}

// RunYieldAccretion credits one day of yield to every investment account
// with a positive balance, across all workspaces. An account already visited
// today is skipped, so the batch is idempotent within a day. A gross yield
// below one cent only stamps the account as visited. When the rate provider
// fails, nothing is credited anywhere.
func (s *InvestmentService) RunYieldAccretion() (*YieldRunResult, error) {
	rate, err := s.rateProvider.DailyRate()
	if err != nil {
		log.Error().Err(err).Msg("daily rate unavailable, aborting yield run")
		return nil, domain.ErrRateUnavailable
	}

	accounts, err := s.accountRepo.GetInvestmentAccounts()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &YieldRunResult{TotalCredited: decimal.Zero, RateDate: rate.Date}

	for _, account := range accounts {
		if account.LastYieldUpdate != nil && util.SameDay(*account.LastYieldUpdate, now) {
			result.AccountsSkipped++
			continue
		}

		gross := domain.GrossDailyYield(account.CurrentBalance, rate.Value, account.CDIPercentage).Round(2)
		if gross.LessThan(domain.MinYieldCredit) {
			if err := s.accountRepo.StampYieldUpdate(account.ID, now); err != nil {
				log.Error().Err(err).Int32("accountId", account.ID).Msg("failed to stamp yield visit")
			}
			result.AccountsSkipped++
			continue
		}

		user, err := s.userRepo.GetFirstInWorkspace(account.WorkspaceID)
		if err != nil {
			log.Warn().Int32("workspaceId", account.WorkspaceID).Msg("no user to attribute yield to, skipping workspace")
			result.AccountsSkipped++
			continue
		}

		record := &domain.Transaction{
			WorkspaceID:   account.WorkspaceID,
			BankAccountID: account.ID,
			Description:   fmt.Sprintf("Rendimento Diário (%s%% CDI)", account.CDIPercentage.String()),
			Amount:        gross,
			Type:          domain.TransactionTypeIncome,
			Date:          now,
			IsPaid:        true,
			PaidAt:        &now,
			CreatedByID:   user.ID,
		}

		if err := s.accountRepo.CreditYield(account.ID, gross, record, now); err != nil {
			log.Error().Err(err).Int32("accountId", account.ID).Msg("failed to credit yield")
			continue
		}

		result.AccountsCredited++
		result.TotalCredited = result.TotalCredited.Add(gross)
		s.publishEvent(account.WorkspaceID, websocket.YieldAccrued(record))
	}

	log.Info().
		Int("credited", result.AccountsCredited).
		Int("skipped", result.AccountsSkipped).
		Str("total", result.TotalCredited.String()).
		Msg("yield accretion run finished")
	return result, nil
}

// RedeemInput holds the input for redeeming from an investment account
type RedeemInput struct {
	Amount               decimal.Decimal
	DestinationAccountID *int32
	CreatedByID          uuid.UUID
}

// RedemptionResult reports the outcome of a redemption.
type RedemptionResult struct {
	GrossAmount decimal.Decimal `json:"grossAmount"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	HoldingDays int             `json:"holdingDays"`
}

// Redeem withdraws from an investment account, withholding tax on the
// profit portion only. The profit ratio is (balance - principal) / balance
// at redemption time; the tax rate follows the holding period since the
// account was created. With a destination account the net amount transfers
// as a paid expense/income pair; without one it leaves the ledger as a
// single expense.
func (s *InvestmentService) Redeem(workspaceID int32, sourceAccountID int32, input RedeemInput) (*RedemptionResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	source, err := s.accountRepo.GetByID(workspaceID, sourceAccountID)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(source.CurrentBalance) {
		return nil, domain.ErrInsufficientFunds
	}

	var destination *domain.BankAccount
	if input.DestinationAccountID != nil {
		destination, err = s.accountRepo.GetByID(workspaceID, *input.DestinationAccountID)
		if err != nil {
			return nil, domain.ErrDestinationNotFound
		}
	}

	now := time.Now().UTC()
	principal := source.Principal()

	// The withdrawn share of the balance determines both the taxable profit
	// portion and the principal reduction.
	profit := source.CurrentBalance.Sub(principal)
	if profit.IsNegative() {
		profit = decimal.Zero
	}
	withdrawRatio := input.Amount.Div(source.CurrentBalance)

	holdingDays := domain.HoldingDays(source.CreatedAt, now)
	taxRate := domain.RedemptionTaxRate(holdingDays)

	proportionalProfit := profit.Mul(withdrawRatio)
	tax := proportionalProfit.Mul(taxRate).Round(2)
	net := input.Amount.Sub(tax)

	principalReduction := principal.Mul(withdrawRatio).Round(2)

	op := &domain.RedemptionOp{
		SourceAccountID:    sourceAccountID,
		Amount:             input.Amount,
		PrincipalReduction: principalReduction,
		NetAmount:          net,
	}

	if tax.IsPositive() {
		ratePercent := taxRate.Mul(decimal.NewFromInt(100))
		op.TaxRecord = &domain.Transaction{
			WorkspaceID:   workspaceID,
			BankAccountID: sourceAccountID,
			Description:   fmt.Sprintf("IR sobre Resgate (%s%%)", ratePercent.StringFixed(1)),
			Amount:        tax,
			Type:          domain.TransactionTypeExpense,
			Date:          now,
			IsPaid:        true,
			PaidAt:        &now,
			CreatedByID:   input.CreatedByID,
		}
	}

	withdrawalDescription := "Resgate Investimento"
	if destination != nil {
		withdrawalDescription = fmt.Sprintf("Resgate Investimento -> %s", destination.Name)
	}
	op.WithdrawalRecord = &domain.Transaction{
		WorkspaceID:   workspaceID,
		BankAccountID: sourceAccountID,
		Description:   withdrawalDescription,
		Amount:        net,
		Type:          domain.TransactionTypeExpense,
		Date:          now,
		IsPaid:        true,
		PaidAt:        &now,
		CreatedByID:   input.CreatedByID,
	}

	if destination != nil {
		op.DestinationAccountID = input.DestinationAccountID
		op.DepositRecord = &domain.Transaction{
			WorkspaceID:   workspaceID,
			BankAccountID: destination.ID,
			Description:   fmt.Sprintf("Resgate de %s", source.Name),
			Amount:        net,
			Type:          domain.TransactionTypeIncome,
			Date:          now,
			IsPaid:        true,
			PaidAt:        &now,
			CreatedByID:   input.CreatedByID,
		}
	}

	if err := s.accountRepo.Redeem(op); err != nil {
		return nil, err
	}

	result := &RedemptionResult{
		GrossAmount: input.Amount,
		TaxRate:     taxRate,
		TaxAmount:   tax,
		NetAmount:   net,
		HoldingDays: holdingDays,
	}

	s.publishEvent(workspaceID, websocket.AccountRedeemed(map[string]interface{}{
		"accountId": sourceAccountID,
		"result":    result,
	}))
	return result, nil
}
