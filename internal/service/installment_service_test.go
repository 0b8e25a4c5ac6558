package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newInstallmentFixture(t *testing.T) (*InstallmentService, *testutil.MockStore, *domain.BankAccount) {
	t.Helper()
	store := testutil.NewMockStore()
	svc := NewInstallmentService(store.Installments, store.Accounts, store.Categories)

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

// A plan of 1000 in 3 splits into children of 333.33 each, within one cent
// of the total.
func TestCreatePlanEqualSplit(t *testing.T) {
	svc, _, account := newInstallmentFixture(t)

	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	plan, err := svc.CreatePlan(1, uuid.New(), CreatePlanInput{
		BankAccountID:     account.ID,
		Description:       "Geladeira",
		TotalAmount:       decimal.NewFromInt(1000),
		TotalInstallments: 3,
		StartDate:         start,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	loaded, err := svc.GetPlanByID(1, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanByID: %v", err)
	}
	if len(loaded.Transactions) != 3 {
		t.Fatalf("got %d children, want 3", len(loaded.Transactions))
	}

	share := decimal.RequireFromString("333.33")
	sum := decimal.Zero
	for _, child := range loaded.Transactions {
		if !child.Amount.Equal(share) {
			t.Errorf("child amount = %s, want 333.33", child.Amount)
		}
		if child.IsPaid {
			t.Error("child created paid; plans start entirely unpaid")
		}
		if child.Type != domain.TransactionTypeExpense {
			t.Errorf("child type = %s, want EXPENSE", child.Type)
		}
		sum = sum.Add(child.Amount)
	}

	drift := decimal.NewFromInt(1000).Sub(sum).Abs()
	if drift.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("children sum %s drifts %s from total, want within one cent", sum, drift)
	}

	// Unpaid children never touch the balance.
	if !account.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want untouched 1000", account.CurrentBalance)
	}
}

func TestCreatePlanChildDatesAndDescriptions(t *testing.T) {
	svc, _, account := newInstallmentFixture(t)

	// January 31 start exercises month-end clamping.
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	plan, err := svc.CreatePlan(1, uuid.New(), CreatePlanInput{
		BankAccountID:     account.ID,
		Description:       "Sofá",
		TotalAmount:       decimal.NewFromInt(900),
		TotalInstallments: 3,
		StartDate:         start,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	loaded, err := svc.GetPlanByID(1, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanByID: %v", err)
	}

	byNumber := make(map[int32]*domain.Transaction)
	for _, child := range loaded.Transactions {
		if child.InstallmentNumber == nil {
			t.Fatal("child missing installment number")
		}
		byNumber[*child.InstallmentNumber] = child
	}

	wantDates := map[int32]time.Time{
		1: time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		2: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		3: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
	for number, want := range wantDates {
		child, ok := byNumber[number]
		if !ok {
			t.Fatalf("missing installment %d", number)
		}
		if !child.Date.Equal(want) {
			t.Errorf("installment %d dated %s, want %s", number, child.Date.Format("2006-01-02"), want.Format("2006-01-02"))
		}
		wantDesc := fmt.Sprintf("Sofá (%d/3)", number)
		if child.Description != wantDesc {
			t.Errorf("installment %d description = %q, want %q", number, child.Description, wantDesc)
		}
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc, _, account := newInstallmentFixture(t)

	cases := []struct {
		name  string
		input CreatePlanInput
		want  error
	}{
		{"single installment", CreatePlanInput{BankAccountID: account.ID, Description: "TV", TotalAmount: decimal.NewFromInt(100), TotalInstallments: 1, StartDate: time.Now()}, domain.ErrInvalidInstallment},
		{"too many installments", CreatePlanInput{BankAccountID: account.ID, Description: "TV", TotalAmount: decimal.NewFromInt(100), TotalInstallments: 49, StartDate: time.Now()}, domain.ErrInvalidInstallment},
		{"zero amount", CreatePlanInput{BankAccountID: account.ID, Description: "TV", TotalAmount: decimal.Zero, TotalInstallments: 3, StartDate: time.Now()}, domain.ErrInvalidAmount},
		{"missing account", CreatePlanInput{BankAccountID: 99, Description: "TV", TotalAmount: decimal.NewFromInt(100), TotalInstallments: 3, StartDate: time.Now()}, domain.ErrAccountNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreatePlan(1, uuid.New(), tc.input); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPlanProgressCounts(t *testing.T) {
	svc, store, account := newInstallmentFixture(t)
	txSvc := NewTransactionService(store.Transactions, store.Accounts, store.Categories)

	// Start 40 days back: installments 1 and 2 are due, 3 and 4 are not.
	start := time.Now().UTC().AddDate(0, 0, -40)
	plan, err := svc.CreatePlan(1, uuid.New(), CreatePlanInput{
		BankAccountID:     account.ID,
		Description:       "Celular",
		TotalAmount:       decimal.NewFromInt(1200),
		TotalInstallments: 4,
		StartDate:         start,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	loaded, err := svc.GetPlanByID(1, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanByID: %v", err)
	}
	for _, child := range loaded.Transactions {
		if child.InstallmentNumber != nil && *child.InstallmentNumber == 1 {
			if _, err := txSvc.SetPaid(1, child.ID, true); err != nil {
				t.Fatalf("paying first installment: %v", err)
			}
		}
	}

	withProgress, err := svc.GetPlanByID(1, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanByID: %v", err)
	}

	p := withProgress.Progress
	if p.PaidInstallments != 1 {
		t.Errorf("paid = %d, want 1", p.PaidInstallments)
	}
	if p.OverdueInstallments != 1 {
		t.Errorf("overdue = %d, want 1 (installment 2 past due, unpaid)", p.OverdueInstallments)
	}
	if p.RemainingInstallments != 3 {
		t.Errorf("remaining = %d, want 3", p.RemainingInstallments)
	}
	if !p.InstallmentAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("installment amount = %s, want 300", p.InstallmentAmount)
	}
	if !p.PaidAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("paid amount = %s, want 300", p.PaidAmount)
	}
	if !p.RemainingAmount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("remaining amount = %s, want 900", p.RemainingAmount)
	}
}

// Deleting a plan restores the sum of children dated up to now, regardless
// of their paid state; future children restore nothing.
func TestDeletePlanRestoresPastDatedChildren(t *testing.T) {
	svc, _, account := newInstallmentFixture(t)

	start := time.Now().UTC().AddDate(0, 0, -40)
	plan, err := svc.CreatePlan(1, uuid.New(), CreatePlanInput{
		BankAccountID:     account.ID,
		Description:       "Bicicleta",
		TotalAmount:       decimal.NewFromInt(600),
		TotalInstallments: 3,
		StartDate:         start,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	if err := svc.DeletePlan(1, plan.ID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}

	// Installments 1 and 2 (200 each) are past-dated; the third is still
	// in the future and does not count.
	if !account.CurrentBalance.Equal(decimal.NewFromInt(1400)) {
		t.Errorf("balance = %s, want 1400", account.CurrentBalance)
	}

	if _, err := svc.GetPlanByID(1, plan.ID); !errors.Is(err, domain.ErrInstallmentPlanNotFound) {
		t.Errorf("plan still loadable after delete: %v", err)
	}
}
