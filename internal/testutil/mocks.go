package testutil

import (
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockStore bundles the in-memory repositories with their cross-references
// wired, so compound ledger operations (balance deltas alongside record
// writes) behave like the real store.
type MockStore struct {
	Accounts     *MockBankAccountRepository
	Categories   *MockCategoryRepository
	Transactions *MockTransactionRepository
	CreditCards  *MockCreditCardRepository
	Installments *MockInstallmentPlanRepository
	Goals        *MockGoalRepository
	Users        *MockUserRepository
	Workspaces   *MockWorkspaceRepository
}

// DecimalPtr returns a pointer to d, for seeding nullable amounts.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// NewMockStore creates a fully wired in-memory store.
func NewMockStore() *MockStore {
	accounts := &MockBankAccountRepository{Accounts: make(map[int32]*domain.BankAccount)}
	transactions := &MockTransactionRepository{Transactions: make(map[int32]*domain.Transaction), Accounts: accounts}
	accounts.TxRepo = transactions

	cards := &MockCreditCardRepository{
		Cards:     make(map[int32]*domain.CreditCard),
		Invoices:  make(map[int32]*domain.CreditCardInvoice),
		Purchases: make(map[int32]*domain.CreditCardPurchase),
		Accounts:  accounts,
	}
	installments := &MockInstallmentPlanRepository{
		Plans:        make(map[int32]*domain.InstallmentPlan),
		Accounts:     accounts,
		Transactions: transactions,
	}
	goals := &MockGoalRepository{
		Goals:        make(map[int32]*domain.Goal),
		Accounts:     accounts,
		Transactions: transactions,
	}

	return &MockStore{
		Accounts:     accounts,
		Categories:   &MockCategoryRepository{Categories: make(map[int32]*domain.Category)},
		Transactions: transactions,
		CreditCards:  cards,
		Installments: installments,
		Goals:        goals,
		Users:        &MockUserRepository{Users: make(map[uuid.UUID]*domain.User)},
		Workspaces:   &MockWorkspaceRepository{Workspaces: make(map[int32]*domain.Workspace)},
	}
}

// MockBankAccountRepository is an in-memory domain.BankAccountRepository
type MockBankAccountRepository struct {
	Accounts map[int32]*domain.BankAccount
	TxRepo   *MockTransactionRepository
	nextID   int32
}

func (m *MockBankAccountRepository) Create(account *domain.BankAccount) (*domain.BankAccount, error) {
	m.nextID++
	account.ID = m.nextID
	account.CurrentBalance = account.InitialBalance
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	m.Accounts[account.ID] = account
	return account, nil
}

func (m *MockBankAccountRepository) GetByID(workspaceID int32, id int32) (*domain.BankAccount, error) {
	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (m *MockBankAccountRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.BankAccount, error) {
	var result []*domain.BankAccount
	for _, a := range m.Accounts {
		if a.WorkspaceID == workspaceID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *MockBankAccountRepository) GetInvestmentAccounts() ([]*domain.BankAccount, error) {
	var result []*domain.BankAccount
	for _, a := range m.Accounts {
		if a.IsInvestment && a.CurrentBalance.IsPositive() {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *MockBankAccountRepository) Update(workspaceID int32, id int32, data *domain.UpdateBankAccountData) (*domain.BankAccount, error) {
	account, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	// Initial-balance correction: the current balance moves by the delta
	// between old and new initial balance.
	correction := data.InitialBalance.Sub(account.InitialBalance)
	account.Name = data.Name
	account.InitialBalance = data.InitialBalance
	account.CurrentBalance = account.CurrentBalance.Add(correction)
	account.IsInvestment = data.IsInvestment
	account.CDIPercentage = data.CDIPercentage
	account.MaturityDate = data.MaturityDate
	return account, nil
}

func (m *MockBankAccountRepository) Delete(workspaceID int32, id int32) error {
	account, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	if m.TxRepo != nil {
		for _, t := range m.TxRepo.Transactions {
			if t.BankAccountID == id {
				return domain.ErrAccountInUse
			}
		}
	}
	delete(m.Accounts, account.ID)
	return nil
}

func (m *MockBankAccountRepository) applyDelta(accountID int32, delta decimal.Decimal, principalDelta decimal.Decimal) {
	if account, ok := m.Accounts[accountID]; ok {
		account.CurrentBalance = account.CurrentBalance.Add(delta)
		if account.TotalInvested != nil {
			invested := account.TotalInvested.Add(principalDelta)
			account.TotalInvested = &invested
		}
	}
}

func (m *MockBankAccountRepository) CreditYield(accountID int32, amount decimal.Decimal, record *domain.Transaction, stampedAt time.Time) error {
	account, ok := m.Accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if m.TxRepo != nil {
		m.TxRepo.insert(record)
	}
	account.CurrentBalance = account.CurrentBalance.Add(amount)
	account.LastYieldUpdate = &stampedAt
	return nil
}

func (m *MockBankAccountRepository) StampYieldUpdate(accountID int32, stampedAt time.Time) error {
	account, ok := m.Accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.LastYieldUpdate = &stampedAt
	return nil
}

func (m *MockBankAccountRepository) Redeem(op *domain.RedemptionOp) error {
	source, ok := m.Accounts[op.SourceAccountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if m.TxRepo != nil {
		if op.TaxRecord != nil {
			m.TxRepo.insert(op.TaxRecord)
		}
		m.TxRepo.insert(op.WithdrawalRecord)
		if op.DepositRecord != nil {
			m.TxRepo.insert(op.DepositRecord)
		}
	}
	if op.DestinationAccountID != nil {
		dest, ok := m.Accounts[*op.DestinationAccountID]
		if !ok {
			return domain.ErrDestinationNotFound
		}
		dest.CurrentBalance = dest.CurrentBalance.Add(op.NetAmount)
	}
	source.CurrentBalance = source.CurrentBalance.Sub(op.Amount)
	invested := source.Principal().Sub(op.PrincipalReduction)
	source.TotalInvested = &invested
	return nil
}

// AddAccount seeds an account with an explicit ID (helper for tests)
func (m *MockBankAccountRepository) AddAccount(account *domain.BankAccount) {
	if account.ID > m.nextID {
		m.nextID = account.ID
	}
	m.Accounts[account.ID] = account
}

// MockCategoryRepository is an in-memory domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	nextID     int32
}

func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	m.nextID++
	category.ID = m.nextID
	m.Categories[category.ID] = category
	return category, nil
}

func (m *MockCategoryRepository) GetByID(workspaceID int32, id int32) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.WorkspaceID != workspaceID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (m *MockCategoryRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.WorkspaceID == workspaceID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCategoryRepository) Update(workspaceID int32, id int32, data *domain.UpdateCategoryData) (*domain.Category, error) {
	category, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	category.Name = data.Name
	category.Type = data.Type
	category.Color = data.Color
	category.Icon = data.Icon
	return category, nil
}

func (m *MockCategoryRepository) Delete(workspaceID int32, id int32) error {
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	delete(m.Categories, id)
	return nil
}

// MockTransactionRepository is an in-memory domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	Accounts     *MockBankAccountRepository
	nextID       int32
}

func (m *MockTransactionRepository) insert(t *domain.Transaction) *domain.Transaction {
	m.nextID++
	t.ID = m.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.Transactions[t.ID] = t
	return t
}

// AddTransaction seeds a transaction directly, without any balance effect.
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.insert(t)
}

func (m *MockTransactionRepository) CreateWithBalance(transaction *domain.Transaction, delta decimal.Decimal, principalDelta decimal.Decimal) (*domain.Transaction, error) {
	created := m.insert(transaction)
	m.Accounts.applyDelta(transaction.BankAccountID, delta, principalDelta)
	return created, nil
}

func (m *MockTransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.WorkspaceID != workspaceID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

func (m *MockTransactionRepository) GetByWorkspace(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, t := range m.Transactions {
		if t.WorkspaceID != workspaceID {
			continue
		}
		if filters != nil {
			if filters.BankAccountID != nil && t.BankAccountID != *filters.BankAccountID {
				continue
			}
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.IsPaid != nil && t.IsPaid != *filters.IsPaid {
				continue
			}
			if filters.Month != nil && filters.Year != nil {
				if int(t.Date.Month()) != *filters.Month || t.Date.Year() != *filters.Year {
					continue
				}
			}
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTransactionRepository) UpdateWithRebalance(workspaceID int32, id int32, data *domain.UpdateTransactionData, oldAccountID int32, revertDelta decimal.Decimal, applyDelta decimal.Decimal) (*domain.Transaction, error) {
	transaction, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	m.Accounts.applyDelta(oldAccountID, revertDelta, decimal.Zero)
	m.Accounts.applyDelta(data.BankAccountID, applyDelta, decimal.Zero)

	transaction.Description = data.Description
	transaction.Amount = data.Amount
	transaction.Type = data.Type
	transaction.Date = data.Date
	transaction.BankAccountID = data.BankAccountID
	transaction.CategoryID = data.CategoryID
	transaction.Notes = data.Notes
	transaction.IsPaid = data.IsPaid
	transaction.PaidAt = data.PaidAt
	return transaction, nil
}

func (m *MockTransactionRepository) DeleteWithRebalance(workspaceID int32, id int32, accountID int32, revertDelta decimal.Decimal) error {
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	m.Accounts.applyDelta(accountID, revertDelta, decimal.Zero)
	delete(m.Transactions, id)
	return nil
}

func (m *MockTransactionRepository) SetPaid(workspaceID int32, id int32, paid bool, paidAt *time.Time, delta decimal.Decimal) (*domain.Transaction, error) {
	transaction, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	transaction.IsPaid = paid
	transaction.PaidAt = paidAt
	m.Accounts.applyDelta(transaction.BankAccountID, delta, decimal.Zero)
	return transaction, nil
}

// MockCreditCardRepository is an in-memory domain.CreditCardRepository
type MockCreditCardRepository struct {
	Cards     map[int32]*domain.CreditCard
	Invoices  map[int32]*domain.CreditCardInvoice
	Purchases map[int32]*domain.CreditCardPurchase
	Accounts  *MockBankAccountRepository

	nextCardID     int32
	nextInvoiceID  int32
	nextPurchaseID int32
}

func (m *MockCreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	m.nextCardID++
	card.ID = m.nextCardID
	m.Cards[card.ID] = card
	return card, nil
}

func (m *MockCreditCardRepository) GetByID(workspaceID int32, id int32) (*domain.CreditCard, error) {
	card, ok := m.Cards[id]
	if !ok || card.WorkspaceID != workspaceID {
		return nil, domain.ErrCreditCardNotFound
	}
	return card, nil
}

func (m *MockCreditCardRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.CreditCard, error) {
	var result []*domain.CreditCard
	for _, c := range m.Cards {
		if c.WorkspaceID == workspaceID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCreditCardRepository) Update(workspaceID int32, id int32, data *domain.UpdateCreditCardData) (*domain.CreditCard, error) {
	card, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	card.Name = data.Name
	card.Limit = data.Limit
	card.ClosingDay = data.ClosingDay
	card.DueDay = data.DueDay
	card.Color = data.Color
	return card, nil
}

func (m *MockCreditCardRepository) Delete(workspaceID int32, id int32) error {
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	for _, inv := range m.Invoices {
		if inv.CreditCardID == id && inv.Status != domain.InvoiceStatusPaid && inv.TotalAmount.IsPositive() {
			return domain.ErrCardHasOpenInvoices
		}
	}
	for pid, p := range m.Purchases {
		if p.CreditCardID == id {
			delete(m.Purchases, pid)
		}
	}
	for iid, inv := range m.Invoices {
		if inv.CreditCardID == id {
			delete(m.Invoices, iid)
		}
	}
	delete(m.Cards, id)
	return nil
}

func (m *MockCreditCardRepository) findOrCreateInvoice(creditCardID int32, cycle domain.InvoiceCycle) *domain.CreditCardInvoice {
	for _, inv := range m.Invoices {
		if inv.CreditCardID == creditCardID && inv.Month == cycle.Month && inv.Year == cycle.Year {
			return inv
		}
	}
	m.nextInvoiceID++
	invoice := &domain.CreditCardInvoice{
		ID:           m.nextInvoiceID,
		CreditCardID: creditCardID,
		Month:        cycle.Month,
		Year:         cycle.Year,
		ClosingDate:  cycle.ClosingDate,
		DueDate:      cycle.DueDate,
		TotalAmount:  decimal.Zero,
		Status:       domain.InvoiceStatusOpen,
		CreatedAt:    time.Now(),
	}
	m.Invoices[invoice.ID] = invoice
	return invoice
}

func (m *MockCreditCardRepository) CreatePurchaseBatch(creditCardID int32, drafts []*domain.PurchaseDraft) ([]*domain.CreditCardPurchase, error) {
	var created []*domain.CreditCardPurchase
	var parentID *int32
	for _, draft := range drafts {
		invoice := m.findOrCreateInvoice(creditCardID, draft.Cycle)

		m.nextPurchaseID++
		purchase := draft.Purchase
		purchase.ID = m.nextPurchaseID
		purchase.CreditCardID = creditCardID
		purchase.InvoiceID = invoice.ID
		purchase.ParentPurchaseID = parentID
		m.Purchases[purchase.ID] = purchase

		invoice.TotalAmount = invoice.TotalAmount.Add(purchase.TotalAmount)

		if parentID == nil {
			id := purchase.ID
			parentID = &id
		}
		created = append(created, purchase)
	}
	return created, nil
}

func (m *MockCreditCardRepository) GetPurchases(creditCardID int32) ([]*domain.CreditCardPurchase, error) {
	var result []*domain.CreditCardPurchase
	for _, p := range m.Purchases {
		if p.CreditCardID == creditCardID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockCreditCardRepository) GetInvoices(creditCardID int32) ([]*domain.CreditCardInvoice, error) {
	var result []*domain.CreditCardInvoice
	for _, inv := range m.Invoices {
		if inv.CreditCardID == creditCardID {
			result = append(result, inv)
		}
	}
	return result, nil
}

func (m *MockCreditCardRepository) GetInvoiceByID(creditCardID int32, invoiceID int32) (*domain.CreditCardInvoice, error) {
	invoice, ok := m.Invoices[invoiceID]
	if !ok || invoice.CreditCardID != creditCardID {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (m *MockCreditCardRepository) PayInvoice(invoiceID int32, bankAccountID int32, paidAt time.Time) (*domain.CreditCardInvoice, error) {
	invoice, ok := m.Invoices[invoiceID]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil, domain.ErrInvoiceAlreadyPaid
	}
	invoice.Status = domain.InvoiceStatusPaid
	invoice.PaidAt = &paidAt
	invoice.PaidFromAccountID = &bankAccountID
	m.Accounts.applyDelta(bankAccountID, invoice.TotalAmount.Neg(), decimal.Zero)
	return invoice, nil
}

func (m *MockCreditCardRepository) GetUsedAmount(creditCardID int32) (decimal.Decimal, error) {
	used := decimal.Zero
	for _, inv := range m.Invoices {
		if inv.CreditCardID == creditCardID && inv.Status != domain.InvoiceStatusPaid {
			used = used.Add(inv.TotalAmount)
		}
	}
	return used, nil
}

// MockInstallmentPlanRepository is an in-memory domain.InstallmentPlanRepository
type MockInstallmentPlanRepository struct {
	Plans        map[int32]*domain.InstallmentPlan
	Accounts     *MockBankAccountRepository
	Transactions *MockTransactionRepository
	nextID       int32
}

func (m *MockInstallmentPlanRepository) CreatePlan(plan *domain.InstallmentPlan, children []*domain.Transaction) (*domain.InstallmentPlan, error) {
	m.nextID++
	plan.ID = m.nextID
	m.Plans[plan.ID] = plan
	for _, child := range children {
		child.InstallmentPurchaseID = &plan.ID
		m.Transactions.insert(child)
	}
	return plan, nil
}

func (m *MockInstallmentPlanRepository) GetByID(workspaceID int32, id int32) (*domain.InstallmentPlan, error) {
	plan, ok := m.Plans[id]
	if !ok || plan.WorkspaceID != workspaceID {
		return nil, domain.ErrInstallmentPlanNotFound
	}
	plan.Transactions = m.childrenOf(id)
	return plan, nil
}

func (m *MockInstallmentPlanRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.InstallmentPlan, error) {
	var result []*domain.InstallmentPlan
	for _, p := range m.Plans {
		if p.WorkspaceID == workspaceID {
			p.Transactions = m.childrenOf(p.ID)
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockInstallmentPlanRepository) childrenOf(planID int32) []*domain.Transaction {
	var children []*domain.Transaction
	for _, t := range m.Transactions.Transactions {
		if t.InstallmentPurchaseID != nil && *t.InstallmentPurchaseID == planID {
			children = append(children, t)
		}
	}
	return children
}

func (m *MockInstallmentPlanRepository) DeletePlan(workspaceID int32, id int32, accountID int32, restoreAmount decimal.Decimal) error {
	if _, err := m.GetByID(workspaceID, id); err != nil {
		return err
	}
	for tid, t := range m.Transactions.Transactions {
		if t.InstallmentPurchaseID != nil && *t.InstallmentPurchaseID == id {
			delete(m.Transactions.Transactions, tid)
		}
	}
	delete(m.Plans, id)
	if restoreAmount.IsPositive() {
		m.Accounts.applyDelta(accountID, restoreAmount, decimal.Zero)
	}
	return nil
}

// MockGoalRepository is an in-memory domain.GoalRepository
type MockGoalRepository struct {
	Goals        map[int32]*domain.Goal
	Accounts     *MockBankAccountRepository
	Transactions *MockTransactionRepository
	nextID       int32
}

func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	m.nextID++
	goal.ID = m.nextID
	m.Goals[goal.ID] = goal
	return goal, nil
}

func (m *MockGoalRepository) GetByID(workspaceID int32, id int32) (*domain.Goal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.WorkspaceID != workspaceID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

func (m *MockGoalRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Goal, error) {
	var result []*domain.Goal
	for _, g := range m.Goals {
		if g.WorkspaceID == workspaceID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *MockGoalRepository) Update(workspaceID int32, id int32, data *domain.UpdateGoalData) (*domain.Goal, error) {
	goal, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if data.Title != nil {
		goal.Title = *data.Title
	}
	if data.TargetAmount != nil {
		goal.TargetAmount = *data.TargetAmount
	}
	if data.CurrentAmount != nil {
		goal.CurrentAmount = *data.CurrentAmount
	}
	if data.Deadline != nil {
		goal.Deadline = data.Deadline
	}
	if data.Color != nil {
		goal.Color = data.Color
	}
	return goal, nil
}

func (m *MockGoalRepository) ApplyDeposit(workspaceID int32, op *domain.GoalDepositOp) error {
	goal, err := m.GetByID(workspaceID, op.GoalID)
	if err != nil {
		return err
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(op.Amount)
	m.Accounts.applyDelta(op.SourceAccountID, op.Amount.Neg(), decimal.Zero)
	if op.StorageAccountID != nil {
		m.Accounts.applyDelta(*op.StorageAccountID, op.Amount, decimal.Zero)
	}
	m.Transactions.insert(op.Record)
	return nil
}

func (m *MockGoalRepository) AdjustAmount(workspaceID int32, id int32, amount decimal.Decimal) error {
	goal, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	return nil
}

func (m *MockGoalRepository) DeleteWithReversal(workspaceID int32, id int32) error {
	goal, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	for tid, t := range m.Transactions.Transactions {
		if t.GoalID == nil || *t.GoalID != id {
			continue
		}
		// Deposits (expense) restore the source; withdrawals (income)
		// take back what was returned.
		reverse := t.Amount
		if t.Type == domain.TransactionTypeIncome {
			reverse = t.Amount.Neg()
		}
		m.Accounts.applyDelta(t.BankAccountID, reverse, decimal.Zero)
		delete(m.Transactions.Transactions, tid)
	}
	if goal.StorageAccountID != nil && goal.CurrentAmount.IsPositive() {
		m.Accounts.applyDelta(*goal.StorageAccountID, goal.CurrentAmount.Neg(), decimal.Zero)
	}
	delete(m.Goals, id)
	return nil
}

// MockUserRepository is an in-memory domain.UserRepository
type MockUserRepository struct {
	Users map[uuid.UUID]*domain.User
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetFirstInWorkspace(workspaceID int32) (*domain.User, error) {
	var first *domain.User
	for _, u := range m.Users {
		if u.WorkspaceID != workspaceID {
			continue
		}
		if first == nil || u.CreatedAt.Before(first.CreatedAt) {
			first = u
		}
	}
	if first == nil {
		return nil, domain.ErrUserNotFound
	}
	return first, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.Users[user.ID] = user
}

// MockWorkspaceRepository is an in-memory domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[int32]*domain.Workspace
}

func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if workspace, ok := m.Workspaces[id]; ok {
		return workspace, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) GetAll() ([]*domain.Workspace, error) {
	var result []*domain.Workspace
	for _, w := range m.Workspaces {
		result = append(result, w)
	}
	return result, nil
}

// MockRateProvider is a canned domain.DailyRateProvider
type MockRateProvider struct {
	Rate *domain.DailyRate
	Err  error
}

func (m *MockRateProvider) DailyRate() (*domain.DailyRate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rate, nil
}
