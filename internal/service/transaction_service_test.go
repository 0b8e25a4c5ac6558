package service

import (
	"errors"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTransactionFixture(t *testing.T) (*TransactionService, *testutil.MockStore, *domain.BankAccount) {
	t.Helper()
	store := testutil.NewMockStore()
	svc := NewTransactionService(store.Transactions, store.Accounts, store.Categories)

	account, err := store.Accounts.Create(&domain.BankAccount{
		WorkspaceID:    1,
		Name:           "Conta Corrente",
		InitialBalance: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	return svc, store, account
}

func boolPtr(b bool) *bool { return &b }

func TestCreateTransactionAppliesBalanceImpact(t *testing.T) {
	svc, _, account := newTransactionFixture(t)

	tx, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Mercado",
		Amount:        decimal.NewFromInt(100),
		Type:          domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !tx.IsPaid {
		t.Error("expected transaction to default to paid")
	}
	if tx.PaidAt == nil {
		t.Error("expected paidAt to be set on a paid transaction")
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(900)) {
		t.Errorf("balance = %s, want 900", account.CurrentBalance)
	}
}

func TestCreateUnpaidTransactionLeavesBalance(t *testing.T) {
	svc, _, account := newTransactionFixture(t)

	tx, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Aluguel",
		Amount:        decimal.NewFromInt(800),
		Type:          domain.TransactionTypeExpense,
		IsPaid:        boolPtr(false),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.PaidAt != nil {
		t.Error("expected nil paidAt on an unpaid transaction")
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want unchanged 1000", account.CurrentBalance)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	svc, _, account := newTransactionFixture(t)

	cases := []struct {
		name  string
		input CreateTransactionInput
		want  error
	}{
		{"empty description", CreateTransactionInput{BankAccountID: account.ID, Description: "  ", Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense}, domain.ErrNameRequired},
		{"short description", CreateTransactionInput{BankAccountID: account.ID, Description: "a", Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense}, domain.ErrNameTooShort},
		{"zero amount", CreateTransactionInput{BankAccountID: account.ID, Description: "Luz", Amount: decimal.Zero, Type: domain.TransactionTypeExpense}, domain.ErrInvalidAmount},
		{"negative amount", CreateTransactionInput{BankAccountID: account.ID, Description: "Luz", Amount: decimal.NewFromInt(-5), Type: domain.TransactionTypeExpense}, domain.ErrInvalidAmount},
		{"bad type", CreateTransactionInput{BankAccountID: account.ID, Description: "Luz", Amount: decimal.NewFromInt(10), Type: "TRANSFER"}, domain.ErrInvalidTransactionType},
		{"missing account", CreateTransactionInput{BankAccountID: 99, Description: "Luz", Amount: decimal.NewFromInt(10), Type: domain.TransactionTypeExpense}, domain.ErrAccountNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateTransaction(1, uuid.New(), tc.input); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

// A created-then-deleted paid expense must leave the balance exactly where
// it started.
func TestCreateAndDeletePaidExpenseRoundTrips(t *testing.T) {
	svc, _, account := newTransactionFixture(t)

	tx, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Jantar",
		Amount:        decimal.NewFromInt(100),
		Type:          domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("balance after create = %s, want 900", account.CurrentBalance)
	}

	if err := svc.DeleteTransaction(1, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance after delete = %s, want 1000", account.CurrentBalance)
	}
}

func TestBalanceConservationAcrossSequence(t *testing.T) {
	svc, _, account := newTransactionFixture(t)
	userID := uuid.New()

	income, err := svc.CreateTransaction(1, userID, CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Salário",
		Amount:        decimal.NewFromInt(3000),
		Type:          domain.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}

	expense, err := svc.CreateTransaction(1, userID, CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Internet",
		Amount:        decimal.NewFromInt(120),
		Type:          domain.TransactionTypeExpense,
		IsPaid:        boolPtr(false),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	// 1000 + 3000: the unpaid expense contributes nothing yet.
	if !account.CurrentBalance.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("balance = %s, want 4000", account.CurrentBalance)
	}

	if _, err := svc.SetPaid(1, expense.ID, true); err != nil {
		t.Fatalf("pay expense: %v", err)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(3880)) {
		t.Fatalf("balance after pay = %s, want 3880", account.CurrentBalance)
	}

	// Shrink the income: revert +3000, apply +2500.
	if _, err := svc.UpdateTransaction(1, income.ID, UpdateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Salário",
		Amount:        decimal.NewFromInt(2500),
		Type:          domain.TransactionTypeIncome,
		Date:          income.Date,
	}); err != nil {
		t.Fatalf("update income: %v", err)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(3380)) {
		t.Fatalf("balance after update = %s, want 3380", account.CurrentBalance)
	}

	if _, err := svc.SetPaid(1, expense.ID, false); err != nil {
		t.Fatalf("unpay expense: %v", err)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("balance after unpay = %s, want 3500", account.CurrentBalance)
	}
}

func TestUpdateMovesImpactBetweenAccounts(t *testing.T) {
	svc, store, account := newTransactionFixture(t)

	other, err := store.Accounts.Create(&domain.BankAccount{
		WorkspaceID:    1,
		Name:           "Poupança",
		InitialBalance: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("seeding second account: %v", err)
	}

	tx, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Farmácia",
		Amount:        decimal.NewFromInt(50),
		Type:          domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if _, err := svc.UpdateTransaction(1, tx.ID, UpdateTransactionInput{
		BankAccountID: other.ID,
		Description:   "Farmácia",
		Amount:        decimal.NewFromInt(50),
		Type:          domain.TransactionTypeExpense,
		Date:          tx.Date,
	}); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	if !account.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("old account balance = %s, want restored 1000", account.CurrentBalance)
	}
	if !other.CurrentBalance.Equal(decimal.NewFromInt(450)) {
		t.Errorf("new account balance = %s, want 450", other.CurrentBalance)
	}
}

func TestSetPaidGuardsCurrentState(t *testing.T) {
	svc, _, account := newTransactionFixture(t)

	paid, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Cinema",
		Amount:        decimal.NewFromInt(40),
		Type:          domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	balanceBefore := account.CurrentBalance

	if _, err := svc.SetPaid(1, paid.ID, true); !errors.Is(err, domain.ErrTransactionAlreadyPaid) {
		t.Errorf("pay paid: err = %v, want ErrTransactionAlreadyPaid", err)
	}
	if !account.CurrentBalance.Equal(balanceBefore) {
		t.Errorf("balance changed on rejected toggle: %s", account.CurrentBalance)
	}

	if _, err := svc.SetPaid(1, paid.ID, false); err != nil {
		t.Fatalf("unpay: %v", err)
	}
	if _, err := svc.SetPaid(1, paid.ID, false); !errors.Is(err, domain.ErrTransactionNotPaid) {
		t.Errorf("unpay unpaid: err = %v, want ErrTransactionNotPaid", err)
	}
}

func TestPaidIncomeIntoInvestmentGrowsPrincipal(t *testing.T) {
	svc, store, _ := newTransactionFixture(t)

	investment, err := store.Accounts.Create(&domain.BankAccount{
		WorkspaceID:    1,
		Name:           "CDB Liquidez Diária",
		InitialBalance: decimal.NewFromInt(1000),
		IsInvestment:   true,
		TotalInvested:  testutil.DecimalPtr(decimal.NewFromInt(1000)),
		CDIPercentage:  decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("seeding investment account: %v", err)
	}

	if _, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: investment.ID,
		Description:   "Aporte mensal",
		Amount:        decimal.NewFromInt(500),
		Type:          domain.TransactionTypeIncome,
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if investment.TotalInvested == nil || !investment.TotalInvested.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("totalInvested = %v, want 1500", investment.TotalInvested)
	}
	if !investment.CurrentBalance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("currentBalance = %s, want 1500", investment.CurrentBalance)
	}
}

func TestTransactionWorkspaceIsolation(t *testing.T) {
	svc, _, account := newTransactionFixture(t)

	tx, err := svc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Padaria",
		Amount:        decimal.NewFromInt(15),
		Type:          domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if _, err := svc.GetTransactionByID(2, tx.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("cross-workspace read: err = %v, want ErrTransactionNotFound", err)
	}
	if err := svc.DeleteTransaction(2, tx.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("cross-workspace delete: err = %v, want ErrTransactionNotFound", err)
	}
}

func TestGetTransactionsFilters(t *testing.T) {
	svc, _, account := newTransactionFixture(t)
	userID := uuid.New()

	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.CreateTransaction(1, userID, CreateTransactionInput{
		BankAccountID: account.ID, Description: "Janeiro", Amount: decimal.NewFromInt(10),
		Type: domain.TransactionTypeExpense, Date: &jan,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateTransaction(1, userID, CreateTransactionInput{
		BankAccountID: account.ID, Description: "Fevereiro", Amount: decimal.NewFromInt(10),
		Type: domain.TransactionTypeExpense, Date: &feb,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	month, year := 1, 2025
	result, err := svc.GetTransactions(1, &domain.TransactionFilters{Month: &month, Year: &year})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(result) != 1 || result[0].Description != "Janeiro" {
		t.Errorf("month filter returned %d transactions, want the January one", len(result))
	}
}
