package service

import (
	"fmt"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/util"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// CreditCardService handles credit cards, their purchases and invoice
// buckets. Card purchases never touch a bank balance directly: they
// accumulate into the billing cycle's invoice, which debits an account only
// when paid.
type CreditCardService struct {
	cardRepo       domain.CreditCardRepository
	accountRepo    domain.BankAccountRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCreditCardService creates a new CreditCardService
func NewCreditCardService(cardRepo domain.CreditCardRepository, accountRepo domain.BankAccountRepository, categoryRepo domain.CategoryRepository) *CreditCardService {
	return &CreditCardService{
		cardRepo:     cardRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CreditCardService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CreditCardService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateCardInput holds the input for creating a credit card
type CreateCardInput struct {
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
	Color      *string
}

func validateCardDays(closingDay, dueDay int) error {
	if closingDay < 1 || closingDay > 31 || dueDay < 1 || dueDay > 31 {
		return domain.ErrInvalidDayOfMonth
	}
	return nil
}

// CreateCard creates a credit card with validation
func (s *CreditCardService) CreateCard(workspaceID int32, input CreateCardInput) (*domain.CreditCard, error) {
	name, err := validateDescription(input.Name)
	if err != nil {
		return nil, err
	}
	if input.Limit.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if err := validateCardDays(input.ClosingDay, input.DueDay); err != nil {
		return nil, err
	}

	return s.cardRepo.Create(&domain.CreditCard{
		WorkspaceID: workspaceID,
		Name:        name,
		Limit:       input.Limit,
		ClosingDay:  input.ClosingDay,
		DueDay:      input.DueDay,
		Color:       input.Color,
	})
}

// CardSummary is a credit card annotated with its consumed limit.
type CardSummary struct {
	*domain.CreditCard
	UsedAmount      decimal.Decimal `json:"usedAmount"`
	AvailableAmount decimal.Decimal `json:"availableAmount"`
}

// GetCards lists a workspace's cards with used and available amounts. Used
// amount is the sum of non-paid invoice totals.
func (s *CreditCardService) GetCards(workspaceID int32) ([]*CardSummary, error) {
	cards, err := s.cardRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*CardSummary, 0, len(cards))
	for _, card := range cards {
		used, err := s.cardRepo.GetUsedAmount(card.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &CardSummary{
			CreditCard:      card,
			UsedAmount:      used,
			AvailableAmount: card.Limit.Sub(used),
		})
	}
	return summaries, nil
}

// GetCardByID retrieves a card within a workspace
func (s *CreditCardService) GetCardByID(workspaceID int32, id int32) (*domain.CreditCard, error) {
	return s.cardRepo.GetByID(workspaceID, id)
}

// UpdateCard updates a credit card
func (s *CreditCardService) UpdateCard(workspaceID int32, id int32, input CreateCardInput) (*domain.CreditCard, error) {
	name, err := validateDescription(input.Name)
	if err != nil {
		return nil, err
	}
	if input.Limit.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if err := validateCardDays(input.ClosingDay, input.DueDay); err != nil {
		return nil, err
	}

	return s.cardRepo.Update(workspaceID, id, &domain.UpdateCreditCardData{
		Name:       name,
		Limit:      input.Limit,
		ClosingDay: input.ClosingDay,
		DueDay:     input.DueDay,
		Color:      input.Color,
	})
}

// DeleteCard removes a card and its history; it fails while a non-paid
// invoice still has a balance.
func (s *CreditCardService) DeleteCard(workspaceID int32, id int32) error {
	if _, err := s.cardRepo.GetByID(workspaceID, id); err != nil {
		return err
	}
	return s.cardRepo.Delete(workspaceID, id)
}

// CreatePurchaseInput holds the input for creating a card purchase
type CreatePurchaseInput struct {
	Description  string
	TotalAmount  decimal.Decimal
	Installments int
	PurchaseDate time.Time
	CategoryID   *int32
}

// CreatePurchase splits a purchase into equal installment shares, dates
// installment i at purchaseDate + i months, resolves each to its billing
// cycle and accumulates the cycle's invoice bucket — all in one atomic unit.
// The share is total/N rounded to cents with no remainder redistribution.
func (s *CreditCardService) CreatePurchase(workspaceID int32, cardID int32, input CreatePurchaseInput) ([]*domain.CreditCardPurchase, error) {
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Installments < domain.MinInstallments || input.Installments > domain.MaxInstallments {
		return nil, domain.ErrInvalidInstallment
	}

	card, err := s.cardRepo.GetByID(workspaceID, cardID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(workspaceID, *input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	share := input.TotalAmount.Div(decimal.NewFromInt(int64(input.Installments))).Round(2)

	drafts := make([]*domain.PurchaseDraft, 0, input.Installments)
	for i := 0; i < input.Installments; i++ {
		installmentDate := util.AddMonths(input.PurchaseDate, i)
		cycle := domain.ResolveInvoiceCycle(installmentDate, card.ClosingDay, card.DueDay)

		installmentDescription := description
		if input.Installments > 1 {
			installmentDescription = fmt.Sprintf("%s (%d/%d)", description, i+1, input.Installments)
		}

		drafts = append(drafts, &domain.PurchaseDraft{
			Purchase: &domain.CreditCardPurchase{
				CreditCardID:       cardID,
				Description:        installmentDescription,
				TotalAmount:        share,
				Installments:       input.Installments,
				CurrentInstallment: i + 1,
				PurchaseDate:       input.PurchaseDate,
				CategoryID:         input.CategoryID,
			},
			Cycle: cycle,
		})
	}

	created, err := s.cardRepo.CreatePurchaseBatch(cardID, drafts)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.PurchaseCreated(created[0]))
	return created, nil
}

// GetPurchases lists the purchases of a card
func (s *CreditCardService) GetPurchases(workspaceID int32, cardID int32) ([]*domain.CreditCardPurchase, error) {
	if _, err := s.cardRepo.GetByID(workspaceID, cardID); err != nil {
		return nil, err
	}
	return s.cardRepo.GetPurchases(cardID)
}

// GetInvoices lists the invoice buckets of a card
func (s *CreditCardService) GetInvoices(workspaceID int32, cardID int32) ([]*domain.CreditCardInvoice, error) {
	if _, err := s.cardRepo.GetByID(workspaceID, cardID); err != nil {
		return nil, err
	}
	return s.cardRepo.GetInvoices(cardID)
}

// PayInvoice pays an invoice exactly once, debiting the paying account by
// the invoice total in the same atomic unit. Paying an already-paid invoice
// fails with ErrInvoiceAlreadyPaid.
func (s *CreditCardService) PayInvoice(workspaceID int32, cardID int32, invoiceID int32, bankAccountID int32) (*domain.CreditCardInvoice, error) {
	if _, err := s.cardRepo.GetByID(workspaceID, cardID); err != nil {
		return nil, err
	}

	invoice, err := s.cardRepo.GetInvoiceByID(cardID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceAlreadyPaid
	}

	if _, err := s.accountRepo.GetByID(workspaceID, bankAccountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	paid, err := s.cardRepo.PayInvoice(invoiceID, bankAccountID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.InvoicePaid(paid))
	return paid, nil
}
