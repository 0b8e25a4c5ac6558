package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The fixture leaves the investment service out of the dashboard service so
// GetSummary stays synchronous in tests.
func newDashboardHandlerFixture(t *testing.T, provider *testutil.MockRateProvider) (*DashboardHandler, *testutil.MockStore) {
	t.Helper()
	store := testutil.NewMockStore()
	investmentService := service.NewInvestmentService(store.Accounts, store.Users, provider)
	dashboardService := service.NewDashboardService(store.Accounts, store.Transactions, store.Goals, nil)
	return NewDashboardHandler(dashboardService, investmentService), store
}

func TestGetSummary_AggregatesWorkspace(t *testing.T) {
	handler, store := newDashboardHandlerFixture(t, &testutil.MockRateProvider{})

	store.Accounts.AddAccount(&domain.BankAccount{
		ID: 1, WorkspaceID: 1, Name: "Conta Corrente",
		InitialBalance: decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
	})
	store.Accounts.AddAccount(&domain.BankAccount{
		ID: 2, WorkspaceID: 1, Name: "CDB", IsInvestment: true,
		InitialBalance: decimal.NewFromInt(500),
		CurrentBalance: decimal.NewFromInt(500),
		TotalInvested:  testutil.DecimalPtr(decimal.NewFromInt(500)),
	})

	now := time.Now().UTC()
	store.Transactions.AddTransaction(&domain.Transaction{
		ID: 1, WorkspaceID: 1, BankAccountID: 1, Description: "Salário",
		Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeIncome,
		Date: now, IsPaid: true, PaidAt: &now,
	})
	store.Transactions.AddTransaction(&domain.Transaction{
		ID: 2, WorkspaceID: 1, BankAccountID: 1, Description: "Aluguel",
		Amount: decimal.NewFromInt(1200), Type: domain.TransactionTypeExpense,
		Date: now, IsPaid: true, PaidAt: &now,
	})
	store.Transactions.AddTransaction(&domain.Transaction{
		ID: 3, WorkspaceID: 1, BankAccountID: 1, Description: "Internet",
		Amount: decimal.NewFromInt(100), Type: domain.TransactionTypeExpense,
		Date: now, IsPaid: false,
	})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/dashboard/summary", "", 1, uuid.Nil)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary service.DashboardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if !summary.TotalBalance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("totalBalance = %s, want 1500", summary.TotalBalance)
	}
	if !summary.TotalInvested.Equal(decimal.NewFromInt(500)) {
		t.Errorf("totalInvested = %s, want 500", summary.TotalInvested)
	}
	if !summary.MonthIncome.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("monthIncome = %s, want 3000", summary.MonthIncome)
	}
	if !summary.MonthExpense.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("monthExpense = %s, want 1200", summary.MonthExpense)
	}
	if summary.PendingCount != 1 || !summary.PendingAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("pending = %d/%s, want 1/100", summary.PendingCount, summary.PendingAmount)
	}
	if summary.AccountCount != 2 || summary.InvestmentAccounts != 1 {
		t.Errorf("accounts = %d/%d, want 2/1", summary.AccountCount, summary.InvestmentAccounts)
	}
}

func TestGetSummary_MissingWorkspace(t *testing.T) {
	handler, _ := newDashboardHandlerFixture(t, &testutil.MockRateProvider{})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/dashboard/summary", "", 0, uuid.Nil)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunYields_CreditsInvestmentAccounts(t *testing.T) {
	provider := &testutil.MockRateProvider{
		Rate: &domain.DailyRate{Date: time.Now().UTC(), Value: decimal.RequireFromString("0.05")},
	}
	handler, store := newDashboardHandlerFixture(t, provider)

	store.Users.AddUser(&domain.User{
		WorkspaceID: 1,
		Email:       "dono@example.com",
		CreatedAt:   time.Now().UTC().AddDate(-1, 0, 0),
	})
	store.Accounts.AddAccount(&domain.BankAccount{
		ID: 1, WorkspaceID: 1, Name: "CDB", IsInvestment: true,
		InitialBalance: decimal.NewFromInt(10000),
		CurrentBalance: decimal.NewFromInt(10000),
		TotalInvested:  testutil.DecimalPtr(decimal.NewFromInt(10000)),
		CDIPercentage:  decimal.NewFromInt(100),
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/cron/yields", "", 1, uuid.Nil)

	if err := handler.RunYields(c); err != nil {
		t.Fatalf("RunYields: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.YieldRunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if result.AccountsCredited != 1 {
		t.Errorf("credited = %d, want 1", result.AccountsCredited)
	}
	if !result.TotalCredited.IsPositive() {
		t.Errorf("totalCredited = %s, want positive", result.TotalCredited)
	}

	account, _ := store.Accounts.GetByID(1, 1)
	if !account.CurrentBalance.GreaterThan(decimal.NewFromInt(10000)) {
		t.Errorf("balance = %s, want above 10000 after accretion", account.CurrentBalance)
	}
}

func TestRunYields_RateUnavailable(t *testing.T) {
	provider := &testutil.MockRateProvider{Err: errors.New("upstream timeout")}
	handler, _ := newDashboardHandlerFixture(t, provider)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/cron/yields", "", 1, uuid.Nil)

	if err := handler.RunYields(c); err != nil {
		t.Fatalf("RunYields: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}
