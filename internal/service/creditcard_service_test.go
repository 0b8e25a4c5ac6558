package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newCardFixture(t *testing.T) (*CreditCardService, *testutil.MockStore, *domain.CreditCard) {
	t.Helper()
	store := testutil.NewMockStore()
	svc := NewCreditCardService(store.CreditCards, store.Accounts, store.Categories)

	card, err := svc.CreateCard(1, CreateCardInput{
		Name:       "Nubank",
		Limit:      decimal.NewFromInt(5000),
		ClosingDay: 10,
		DueDay:     20,
	})
	if err != nil {
		t.Fatalf("seeding card: %v", err)
	}
	return svc, store, card
}

func TestCreateCardValidation(t *testing.T) {
	store := testutil.NewMockStore()
	svc := NewCreditCardService(store.CreditCards, store.Accounts, store.Categories)

	cases := []struct {
		name  string
		input CreateCardInput
		want  error
	}{
		{"zero limit", CreateCardInput{Name: "Visa", Limit: decimal.Zero, ClosingDay: 10, DueDay: 20}, domain.ErrInvalidAmount},
		{"closing day zero", CreateCardInput{Name: "Visa", Limit: decimal.NewFromInt(1000), ClosingDay: 0, DueDay: 20}, domain.ErrInvalidDayOfMonth},
		{"closing day too high", CreateCardInput{Name: "Visa", Limit: decimal.NewFromInt(1000), ClosingDay: 32, DueDay: 20}, domain.ErrInvalidDayOfMonth},
		{"due day too high", CreateCardInput{Name: "Visa", Limit: decimal.NewFromInt(1000), ClosingDay: 10, DueDay: 32}, domain.ErrInvalidDayOfMonth},
		{"short name", CreateCardInput{Name: "V", Limit: decimal.NewFromInt(1000), ClosingDay: 10, DueDay: 20}, domain.ErrNameTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateCard(1, tc.input); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

// Two purchases straddling the closing day must land in distinct invoices,
// each totaling only its own purchase.
func TestPurchasesStraddlingClosingDay(t *testing.T) {
	svc, store, card := newCardFixture(t)

	before, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Mercado",
		TotalAmount:  decimal.NewFromInt(300),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("purchase before closing: %v", err)
	}

	after, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Eletrônicos",
		TotalAmount:  decimal.NewFromInt(900),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("purchase after closing: %v", err)
	}

	if before[0].InvoiceID == after[0].InvoiceID {
		t.Fatal("purchases on either side of the closing day share an invoice")
	}

	marchInvoice, err := store.CreditCards.GetInvoiceByID(card.ID, before[0].InvoiceID)
	if err != nil {
		t.Fatalf("loading march invoice: %v", err)
	}
	aprilInvoice, err := store.CreditCards.GetInvoiceByID(card.ID, after[0].InvoiceID)
	if err != nil {
		t.Fatalf("loading april invoice: %v", err)
	}

	if marchInvoice.Month != 3 || marchInvoice.Year != 2025 {
		t.Errorf("early purchase bucketed into %d/%d, want 3/2025", marchInvoice.Month, marchInvoice.Year)
	}
	if aprilInvoice.Month != 4 || aprilInvoice.Year != 2025 {
		t.Errorf("late purchase bucketed into %d/%d, want 4/2025", aprilInvoice.Month, aprilInvoice.Year)
	}
	if !marchInvoice.TotalAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("march total = %s, want 300", marchInvoice.TotalAmount)
	}
	if !aprilInvoice.TotalAmount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("april total = %s, want 900", aprilInvoice.TotalAmount)
	}
}

// Same-cycle purchases must accumulate into one invoice whose total is the
// exact sum of their shares.
func TestSameCyclePurchasesShareInvoice(t *testing.T) {
	svc, store, card := newCardFixture(t)

	first, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Restaurante",
		TotalAmount:  decimal.RequireFromString("123.45"),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}

	second, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Livraria",
		TotalAmount:  decimal.RequireFromString("76.55"),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	if first[0].InvoiceID != second[0].InvoiceID {
		t.Fatal("same-cycle purchases landed in different invoices")
	}

	invoice, err := store.CreditCards.GetInvoiceByID(card.ID, first[0].InvoiceID)
	if err != nil {
		t.Fatalf("loading invoice: %v", err)
	}
	if !invoice.TotalAmount.Equal(decimal.RequireFromString("200.00")) {
		t.Errorf("invoice total = %s, want 200.00", invoice.TotalAmount)
	}
}

func TestInstallmentPurchaseFansOutAcrossInvoices(t *testing.T) {
	svc, store, card := newCardFixture(t)

	created, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Notebook",
		TotalAmount:  decimal.NewFromInt(3000),
		Installments: 3,
		PurchaseDate: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d installments, want 3", len(created))
	}

	share := decimal.NewFromInt(1000)
	invoiceIDs := make(map[int32]bool)
	for i, p := range created {
		if !p.TotalAmount.Equal(share) {
			t.Errorf("installment %d amount = %s, want 1000", i+1, p.TotalAmount)
		}
		wantDesc := fmt.Sprintf("Notebook (%d/3)", i+1)
		if p.Description != wantDesc {
			t.Errorf("installment %d description = %q, want %q", i+1, p.Description, wantDesc)
		}
		if p.CurrentInstallment != i+1 {
			t.Errorf("installment %d numbered %d", i+1, p.CurrentInstallment)
		}
		invoiceIDs[p.InvoiceID] = true
	}
	if len(invoiceIDs) != 3 {
		t.Errorf("installments spread over %d invoices, want 3", len(invoiceIDs))
	}

	// Later installments chain back to the first.
	if created[0].ParentPurchaseID != nil {
		t.Error("first installment should have no parent")
	}
	for _, p := range created[1:] {
		if p.ParentPurchaseID == nil || *p.ParentPurchaseID != created[0].ID {
			t.Error("later installment not chained to the first")
		}
	}

	used, err := store.CreditCards.GetUsedAmount(card.ID)
	if err != nil {
		t.Fatalf("GetUsedAmount: %v", err)
	}
	if !used.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("used amount = %s, want 3000", used)
	}
}

func TestCreatePurchaseInstallmentBounds(t *testing.T) {
	svc, _, card := newCardFixture(t)

	for _, n := range []int{0, 49} {
		if _, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
			Description:  "Compra",
			TotalAmount:  decimal.NewFromInt(100),
			Installments: n,
			PurchaseDate: time.Now(),
		}); !errors.Is(err, domain.ErrInvalidInstallment) {
			t.Errorf("installments=%d: err = %v, want ErrInvalidInstallment", n, err)
		}
	}
}

func TestPayInvoiceDebitsAccountOnce(t *testing.T) {
	svc, store, card := newCardFixture(t)

	account, err := store.Accounts.Create(&domain.BankAccount{
		WorkspaceID:    1,
		Name:           "Conta Corrente",
		InitialBalance: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}

	created, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Passagens",
		TotalAmount:  decimal.NewFromInt(800),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	invoiceID := created[0].InvoiceID
	paid, err := svc.PayInvoice(1, card.ID, invoiceID, account.ID)
	if err != nil {
		t.Fatalf("PayInvoice: %v", err)
	}
	if paid.Status != domain.InvoiceStatusPaid {
		t.Errorf("invoice status = %s, want PAID", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Error("expected paidAt to be set")
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("balance = %s, want 1200", account.CurrentBalance)
	}

	if _, err := svc.PayInvoice(1, card.ID, invoiceID, account.ID); !errors.Is(err, domain.ErrInvoiceAlreadyPaid) {
		t.Errorf("second pay: err = %v, want ErrInvoiceAlreadyPaid", err)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("balance changed on rejected pay: %s", account.CurrentBalance)
	}

	// A paid invoice no longer consumes the limit.
	used, err := store.CreditCards.GetUsedAmount(card.ID)
	if err != nil {
		t.Fatalf("GetUsedAmount: %v", err)
	}
	if !used.IsZero() {
		t.Errorf("used amount after payment = %s, want 0", used)
	}
}

func TestGetCardsAnnotatesUsedAndAvailable(t *testing.T) {
	svc, _, card := newCardFixture(t)

	if _, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Assinatura",
		TotalAmount:  decimal.NewFromInt(50),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	summaries, err := svc.GetCards(1)
	if err != nil {
		t.Fatalf("GetCards: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d cards, want 1", len(summaries))
	}
	if !summaries[0].UsedAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("used = %s, want 50", summaries[0].UsedAmount)
	}
	if !summaries[0].AvailableAmount.Equal(decimal.NewFromInt(4950)) {
		t.Errorf("available = %s, want 4950", summaries[0].AvailableAmount)
	}
}

func TestDeleteCardBlockedByOpenInvoice(t *testing.T) {
	svc, _, card := newCardFixture(t)

	if _, err := svc.CreatePurchase(1, card.ID, CreatePurchaseInput{
		Description:  "Compra pendente",
		TotalAmount:  decimal.NewFromInt(100),
		Installments: 1,
		PurchaseDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	if err := svc.DeleteCard(1, card.ID); !errors.Is(err, domain.ErrCardHasOpenInvoices) {
		t.Errorf("err = %v, want ErrCardHasOpenInvoices", err)
	}
}
