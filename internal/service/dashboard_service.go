package service

import (
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DashboardService aggregates workspace totals for the overview screen and
// opportunistically kicks the daily yield batch.
type DashboardService struct {
	accountRepo     domain.BankAccountRepository
	transactionRepo domain.TransactionRepository
	goalRepo        domain.GoalRepository
	investmentSvc   *InvestmentService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(accountRepo domain.BankAccountRepository, transactionRepo domain.TransactionRepository, goalRepo domain.GoalRepository, investmentSvc *InvestmentService) *DashboardService {
	return &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		goalRepo:        goalRepo,
		investmentSvc:   investmentSvc,
	}
}

// DashboardSummary holds the aggregated totals of a workspace.
type DashboardSummary struct {
	TotalBalance        decimal.Decimal `json:"totalBalance"`
	TotalInvested       decimal.Decimal `json:"totalInvested"`
	MonthIncome         decimal.Decimal `json:"monthIncome"`
	MonthExpense        decimal.Decimal `json:"monthExpense"`
	PendingCount        int             `json:"pendingCount"`
	PendingAmount       decimal.Decimal `json:"pendingAmount"`
	GoalsTotalTarget    decimal.Decimal `json:"goalsTotalTarget"`
	GoalsTotalSaved     decimal.Decimal `json:"goalsTotalSaved"`
	AccountCount        int             `json:"accountCount"`
	InvestmentAccounts  int             `json:"investmentAccounts"`
}

// GetSummary computes the workspace overview for the current month. It also
// triggers the yield batch in the background: the batch is idempotent within
// a day, logs its own failures and never affects the summary response.
func (s *DashboardService) GetSummary(workspaceID int32) (*DashboardSummary, error) {
	if s.investmentSvc != nil {
		go func() {
			if _, err := s.investmentSvc.RunYieldAccretion(); err != nil {
				log.Warn().Err(err).Msg("background yield run failed")
			}
		}()
	}

	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalBalance:     decimal.Zero,
		TotalInvested:    decimal.Zero,
		MonthIncome:      decimal.Zero,
		MonthExpense:     decimal.Zero,
		PendingAmount:    decimal.Zero,
		GoalsTotalTarget: decimal.Zero,
		GoalsTotalSaved:  decimal.Zero,
	}

	for _, account := range accounts {
		summary.AccountCount++
		summary.TotalBalance = summary.TotalBalance.Add(account.CurrentBalance)
		if account.IsInvestment {
			summary.InvestmentAccounts++
			summary.TotalInvested = summary.TotalInvested.Add(account.CurrentBalance)
		}
	}

	now := time.Now().UTC()
	month := int(now.Month())
	year := now.Year()
	transactions, err := s.transactionRepo.GetByWorkspace(workspaceID, &domain.TransactionFilters{
		Month: &month,
		Year:  &year,
	})
	if err != nil {
		return nil, err
	}

	for _, tx := range transactions {
		if tx.IsPaid {
			if tx.Type == domain.TransactionTypeIncome {
				summary.MonthIncome = summary.MonthIncome.Add(tx.Amount)
			} else {
				summary.MonthExpense = summary.MonthExpense.Add(tx.Amount)
			}
		} else {
			summary.PendingCount++
			summary.PendingAmount = summary.PendingAmount.Add(tx.Amount)
		}
	}

	goals, err := s.goalRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	for _, goal := range goals {
		summary.GoalsTotalTarget = summary.GoalsTotalTarget.Add(goal.TargetAmount)
		summary.GoalsTotalSaved = summary.GoalsTotalSaved.Add(goal.CurrentAmount)
	}

	return summary, nil
}
