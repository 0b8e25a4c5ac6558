package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreditCardRepository implements domain.CreditCardRepository using PostgreSQL
type CreditCardRepository struct {
	pool *pgxpool.Pool
}

// NewCreditCardRepository creates a new CreditCardRepository
func NewCreditCardRepository(pool *pgxpool.Pool) *CreditCardRepository {
	return &CreditCardRepository{pool: pool}
}

const cardColumns = `id, workspace_id, name, credit_limit, closing_day, due_day, color, created_at, updated_at`

const invoiceColumns = `id, credit_card_id, month, year, closing_date, due_date,
	total_amount, status, paid_at, paid_from_account_id, created_at`

const purchaseColumns = `id, credit_card_id, invoice_id, description, total_amount,
	installments, current_installment, purchase_date, category_id, parent_purchase_id, created_at`

func (r *CreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(card.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO credit_cards (workspace_id, name, credit_limit, closing_day, due_day, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+cardColumns,
		card.WorkspaceID, card.Name, limit, card.ClosingDay, card.DueDay,
		textOrNull(card.Color))

	return scanCard(row)
}

func (r *CreditCardRepository) GetByID(workspaceID int32, id int32) (*domain.CreditCard, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+cardColumns+`
		FROM credit_cards
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (r *CreditCardRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.CreditCard, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+cardColumns+`
		FROM credit_cards
		WHERE workspace_id = $1
		ORDER BY name`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.CreditCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *CreditCardRepository) Update(workspaceID int32, id int32, data *domain.UpdateCreditCardData) (*domain.CreditCard, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(data.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE credit_cards
		SET name = $1, credit_limit = $2, closing_day = $3, due_day = $4,
			color = $5, updated_at = NOW()
		WHERE id = $6 AND workspace_id = $7
		RETURNING `+cardColumns,
		data.Name, limit, data.ClosingDay, data.DueDay, textOrNull(data.Color),
		id, workspaceID)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// Delete removes a card with its purchases and invoices. It refuses while any
// non-paid invoice still carries a balance.
func (r *CreditCardRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var hasOpen bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credit_card_invoices
			WHERE credit_card_id = $1 AND status != 'PAID' AND total_amount > 0
		)`, id).Scan(&hasOpen)
	if err != nil {
		return err
	}
	if hasOpen {
		return domain.ErrCardHasOpenInvoices
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM credit_card_purchases WHERE credit_card_id = $1`, id)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM credit_card_invoices WHERE credit_card_id = $1`, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM credit_cards WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCreditCardNotFound
	}

	return tx.Commit(ctx)
}

// CreatePurchaseBatch inserts every installment row of a purchase, resolving
// each one's invoice bucket inside the same database transaction. The first
// inserted row becomes the parent of the chain.
func (r *CreditCardRepository) CreatePurchaseBatch(creditCardID int32, drafts []*domain.PurchaseDraft) ([]*domain.CreditCardPurchase, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var created []*domain.CreditCardPurchase
	var parentID *int32

	for _, draft := range drafts {
		invoiceID, err := ensureInvoiceTx(ctx, tx, creditCardID, draft.Cycle)
		if err != nil {
			return nil, err
		}

		share, err := decimalToPgNumeric(draft.Purchase.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid installment amount: %w", err)
		}

		var categoryID pgtype.Int4
		if draft.Purchase.CategoryID != nil {
			categoryID.Int32 = *draft.Purchase.CategoryID
			categoryID.Valid = true
		}
		var parent pgtype.Int4
		if parentID != nil {
			parent.Int32 = *parentID
			parent.Valid = true
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO credit_card_purchases (credit_card_id, invoice_id, description,
				total_amount, installments, current_installment, purchase_date,
				category_id, parent_purchase_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+purchaseColumns,
			creditCardID, invoiceID, draft.Purchase.Description, share,
			draft.Purchase.Installments, draft.Purchase.CurrentInstallment,
			draft.Purchase.PurchaseDate, categoryID, parent)

		purchase, err := scanPurchase(row)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			UPDATE credit_card_invoices
			SET total_amount = total_amount + $1
			WHERE id = $2`, share, invoiceID)
		if err != nil {
			return nil, err
		}

		if parentID == nil {
			parentID = &purchase.ID
		}
		created = append(created, purchase)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *CreditCardRepository) GetPurchases(creditCardID int32) ([]*domain.CreditCardPurchase, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM credit_card_purchases
		WHERE credit_card_id = $1
		ORDER BY purchase_date DESC, id DESC`, creditCardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.CreditCardPurchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

func (r *CreditCardRepository) GetInvoices(creditCardID int32) ([]*domain.CreditCardInvoice, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM credit_card_invoices
		WHERE credit_card_id = $1
		ORDER BY year DESC, month DESC`, creditCardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*domain.CreditCardInvoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *CreditCardRepository) GetInvoiceByID(creditCardID int32, invoiceID int32) (*domain.CreditCardInvoice, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM credit_card_invoices
		WHERE id = $1 AND credit_card_id = $2`, invoiceID, creditCardID)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// PayInvoice flips the invoice to PAID and debits the paying account by the
// invoice total. The status guard in the UPDATE makes a concurrent second pay
// lose the race and fail with ErrInvoiceAlreadyPaid.
func (r *CreditCardRepository) PayInvoice(invoiceID int32, bankAccountID int32, paidAt time.Time) (*domain.CreditCardInvoice, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE credit_card_invoices
		SET status = 'PAID', paid_at = $1, paid_from_account_id = $2
		WHERE id = $3 AND status != 'PAID'
		RETURNING `+invoiceColumns, paidAt, bankAccountID, invoiceID)

	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := r.pool.QueryRow(ctx, `
				SELECT EXISTS (SELECT 1 FROM credit_card_invoices WHERE id = $1)`,
				invoiceID).Scan(&exists); checkErr == nil && exists {
				return nil, domain.ErrInvoiceAlreadyPaid
			}
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	total, err := decimalToPgNumeric(invoice.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice total: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bank_accounts
		SET current_balance = current_balance - $1, updated_at = NOW()
		WHERE id = $2`, total, bankAccountID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAccountNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetUsedAmount sums non-paid invoice totals, the amount counted against a
// card's limit.
func (r *CreditCardRepository) GetUsedAmount(creditCardID int32) (decimal.Decimal, error) {
	ctx := context.Background()

	var used pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM credit_card_invoices
		WHERE credit_card_id = $1 AND status != 'PAID'`, creditCardID).Scan(&used)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(used), nil
}

// ensureInvoiceTx finds or creates the invoice bucket of a billing cycle. The
// ON CONFLICT no-op plus re-select keeps concurrent inserts on the same cycle
// converging on one row.
func ensureInvoiceTx(ctx context.Context, tx pgx.Tx, creditCardID int32, cycle domain.InvoiceCycle) (int32, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO credit_card_invoices (credit_card_id, month, year, closing_date, due_date, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, 0, 'OPEN')
		ON CONFLICT (credit_card_id, month, year) DO NOTHING`,
		creditCardID, cycle.Month, cycle.Year, cycle.ClosingDate, cycle.DueDate)
	if err != nil {
		return 0, err
	}

	var invoiceID int32
	err = tx.QueryRow(ctx, `
		SELECT id FROM credit_card_invoices
		WHERE credit_card_id = $1 AND month = $2 AND year = $3`,
		creditCardID, cycle.Month, cycle.Year).Scan(&invoiceID)
	if err != nil {
		return 0, err
	}
	return invoiceID, nil
}

func scanCard(row pgx.Row) (*domain.CreditCard, error) {
	var card domain.CreditCard
	var limit pgtype.Numeric
	var color pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&card.ID, &card.WorkspaceID, &card.Name, &limit,
		&card.ClosingDay, &card.DueDay, &color, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	card.Limit = pgNumericToDecimal(limit)
	if color.Valid {
		card.Color = &color.String
	}
	card.CreatedAt = createdAt.Time
	card.UpdatedAt = updatedAt.Time
	return &card, nil
}

func scanInvoice(row pgx.Row) (*domain.CreditCardInvoice, error) {
	var invoice domain.CreditCardInvoice
	var total pgtype.Numeric
	var status string
	var closingDate, dueDate, paidAt, createdAt pgtype.Timestamptz
	var paidFrom pgtype.Int4

	err := row.Scan(&invoice.ID, &invoice.CreditCardID, &invoice.Month, &invoice.Year,
		&closingDate, &dueDate, &total, &status, &paidAt, &paidFrom, &createdAt)
	if err != nil {
		return nil, err
	}

	invoice.ClosingDate = closingDate.Time
	invoice.DueDate = dueDate.Time
	invoice.TotalAmount = pgNumericToDecimal(total)
	invoice.Status = domain.InvoiceStatus(status)
	if paidAt.Valid {
		invoice.PaidAt = &paidAt.Time
	}
	if paidFrom.Valid {
		invoice.PaidFromAccountID = &paidFrom.Int32
	}
	invoice.CreatedAt = createdAt.Time
	return &invoice, nil
}

func scanPurchase(row pgx.Row) (*domain.CreditCardPurchase, error) {
	var purchase domain.CreditCardPurchase
	var amount pgtype.Numeric
	var purchaseDate, createdAt pgtype.Timestamptz
	var categoryID, parentID pgtype.Int4

	err := row.Scan(&purchase.ID, &purchase.CreditCardID, &purchase.InvoiceID,
		&purchase.Description, &amount, &purchase.Installments,
		&purchase.CurrentInstallment, &purchaseDate, &categoryID, &parentID, &createdAt)
	if err != nil {
		return nil, err
	}

	purchase.TotalAmount = pgNumericToDecimal(amount)
	purchase.PurchaseDate = purchaseDate.Time
	if categoryID.Valid {
		purchase.CategoryID = &categoryID.Int32
	}
	if parentID.Valid {
		purchase.ParentPurchaseID = &parentID.Int32
	}
	purchase.CreatedAt = createdAt.Time
	return &purchase, nil
}
