package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newAccountHandlerFixture(t *testing.T) (*AccountHandler, *testutil.MockStore) {
	t.Helper()
	store := testutil.NewMockStore()
	accountService := service.NewAccountService(store.Accounts)
	provider := &testutil.MockRateProvider{
		Rate: &domain.DailyRate{Date: time.Now().UTC(), Value: decimal.RequireFromString("0.05")},
	}
	investmentService := service.NewInvestmentService(store.Accounts, store.Users, provider)
	return NewAccountHandler(accountService, investmentService), store
}

func TestCreateAccount_Success(t *testing.T) {
	handler, _ := newAccountHandlerFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/accounts",
		`{"name":"Conta Corrente","initialBalance":"1500.00"}`, 1, uuid.Nil)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var account domain.BankAccount
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if !account.CurrentBalance.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("currentBalance = %s, want 1500", account.CurrentBalance)
	}
}

func TestCreateAccount_MissingWorkspace(t *testing.T) {
	handler, _ := newAccountHandlerFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/accounts",
		`{"name":"Conta"}`, 0, uuid.Nil)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
}

func TestCreateAccount_BadBalance(t *testing.T) {
	handler, _ := newAccountHandlerFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/accounts",
		`{"name":"Conta","initialBalance":"not-a-number"}`, 1, uuid.Nil)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	problem := decodeProblem(t, rec)
	if problem.Detail != "Invalid initial balance" {
		t.Errorf("detail = %q, want %q", problem.Detail, "Invalid initial balance")
	}
}

func TestDeleteAccount_InUseConflict(t *testing.T) {
	handler, store := newAccountHandlerFixture(t)

	store.Accounts.AddAccount(&domain.BankAccount{
		ID: 1, WorkspaceID: 1, Name: "Conta",
		InitialBalance: decimal.NewFromInt(100),
		CurrentBalance: decimal.NewFromInt(100),
	})
	accountID := int32(1)
	store.Transactions.AddTransaction(&domain.Transaction{
		ID: 1, WorkspaceID: 1, BankAccountID: accountID,
		Description: "Mercado", Amount: decimal.NewFromInt(50),
		Type: domain.TransactionTypeExpense, Date: time.Now(), IsPaid: true,
	})

	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/accounts/1", "", 1, uuid.Nil)
	setPathParams(c, map[string]string{"id": "1"})

	if err := handler.DeleteAccount(c); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRedeem_Success(t *testing.T) {
	handler, store := newAccountHandlerFixture(t)

	userID := uuid.New()
	store.Users.AddUser(&domain.User{ID: userID, WorkspaceID: 1, Email: "dono@example.com"})
	store.Accounts.AddAccount(&domain.BankAccount{
		ID: 1, WorkspaceID: 1, Name: "CDB",
		InitialBalance: decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
		TotalInvested:  testutil.DecimalPtr(decimal.NewFromInt(1000)),
		IsInvestment:   true,
		CDIPercentage:  decimal.NewFromInt(100),
		CreatedAt:      time.Now().UTC().AddDate(0, 0, -30),
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/accounts/1/redeem",
		`{"amount":"300.00"}`, 1, userID)
	setPathParams(c, map[string]string{"id": "1"})

	if err := handler.Redeem(c); err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.RedemptionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	// No profit, so nothing withheld.
	if !result.TaxAmount.IsZero() {
		t.Errorf("taxAmount = %s, want 0", result.TaxAmount)
	}
	if !result.NetAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("netAmount = %s, want 300", result.NetAmount)
	}
}

func TestRedeem_InsufficientFunds(t *testing.T) {
	handler, store := newAccountHandlerFixture(t)

	store.Accounts.AddAccount(&domain.BankAccount{
		ID: 1, WorkspaceID: 1, Name: "CDB",
		InitialBalance: decimal.NewFromInt(100),
		CurrentBalance: decimal.NewFromInt(100),
		TotalInvested:  testutil.DecimalPtr(decimal.NewFromInt(100)),
		IsInvestment:   true,
	})

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/accounts/1/redeem",
		`{"amount":"500.00"}`, 1, uuid.New())
	setPathParams(c, map[string]string{"id": "1"})

	if err := handler.Redeem(c); err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
