package service

import (
	"errors"
	"testing"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCategoryCRUD(t *testing.T) {
	store := testutil.NewMockStore()
	svc := NewCategoryService(store.Categories)

	created, err := svc.CreateCategory(1, CreateCategoryInput{
		Name: "Alimentação",
		Type: domain.CategoryTypeExpense,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	updated, err := svc.UpdateCategory(1, created.ID, CreateCategoryInput{
		Name: "Alimentação e Bebidas",
		Type: domain.CategoryTypeExpense,
	})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Name != "Alimentação e Bebidas" {
		t.Errorf("name = %q", updated.Name)
	}

	if err := svc.DeleteCategory(1, created.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := store.Categories.GetByID(1, created.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("category still loadable after delete: %v", err)
	}
}

func TestCreateCategoryRejectsBadType(t *testing.T) {
	store := testutil.NewMockStore()
	svc := NewCategoryService(store.Categories)

	if _, err := svc.CreateCategory(1, CreateCategoryInput{Name: "Outros", Type: "TRANSFER"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// Deleting a category detaches it from transactions instead of cascading.
func TestDeleteCategoryKeepsTransactions(t *testing.T) {
	store := testutil.NewMockStore()
	svc := NewCategoryService(store.Categories)
	txSvc := NewTransactionService(store.Transactions, store.Accounts, store.Categories)

	account, err := store.Accounts.Create(&domain.BankAccount{
		WorkspaceID:    1,
		Name:           "Conta Corrente",
		InitialBalance: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	category, err := svc.CreateCategory(1, CreateCategoryInput{Name: "Lazer", Type: domain.CategoryTypeExpense})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	tx, err := txSvc.CreateTransaction(1, uuid.New(), CreateTransactionInput{
		BankAccountID: account.ID,
		Description:   "Cinema",
		Amount:        decimal.NewFromInt(30),
		Type:          domain.TransactionTypeExpense,
		CategoryID:    &category.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := svc.DeleteCategory(1, category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := txSvc.GetTransactionByID(1, tx.ID); err != nil {
		t.Errorf("transaction lost with its category: %v", err)
	}
}
