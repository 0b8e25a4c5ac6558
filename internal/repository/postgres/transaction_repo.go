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

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, workspace_id, bank_account_id, description, amount, type,
	date, is_paid, paid_at, notes, category_id, created_by_id,
	installment_purchase_id, installment_number, goal_id, created_at, updated_at`

// CreateWithBalance inserts the transaction and applies the balance and
// principal deltas to its account in one database transaction
func (r *TransactionRepository) CreateWithBalance(transaction *domain.Transaction, delta decimal.Decimal, principalDelta decimal.Decimal) (*domain.Transaction, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := insertTransactionTx(ctx, tx, transaction)
	if err != nil {
		return nil, err
	}

	if err := applyBalanceDeltaTx(ctx, tx, transaction.BankAccountID, delta, principalDelta); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID within a workspace
func (r *TransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByWorkspace retrieves transactions for a workspace with optional filters
func (r *TransactionRepository) GetByWorkspace(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE workspace_id = $1`
	args := []interface{}{workspaceID}

	if filters != nil {
		if filters.BankAccountID != nil {
			args = append(args, *filters.BankAccountID)
			query += fmt.Sprintf(" AND bank_account_id = $%d", len(args))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
		if filters.IsPaid != nil {
			args = append(args, *filters.IsPaid)
			query += fmt.Sprintf(" AND is_paid = $%d", len(args))
		}
		if filters.Month != nil && filters.Year != nil {
			args = append(args, *filters.Month, *filters.Year)
			query += fmt.Sprintf(" AND EXTRACT(MONTH FROM date) = $%d AND EXTRACT(YEAR FROM date) = $%d", len(args)-1, len(args))
		}
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// UpdateWithRebalance persists the new fields and reconciles both account
// balances in one database transaction
func (r *TransactionRepository) UpdateWithRebalance(workspaceID int32, id int32, data *domain.UpdateTransactionData, oldAccountID int32, revertDelta decimal.Decimal, applyDelta decimal.Decimal) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var notes pgtype.Text
	if data.Notes != nil {
		notes.String = *data.Notes
		notes.Valid = true
	}
	var categoryID pgtype.Int4
	if data.CategoryID != nil {
		categoryID.Int32 = *data.CategoryID
		categoryID.Valid = true
	}
	var paidAt pgtype.Timestamptz
	if data.PaidAt != nil {
		paidAt.Time = *data.PaidAt
		paidAt.Valid = true
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE transactions
		SET description = $1, amount = $2, type = $3, date = $4,
			bank_account_id = $5, category_id = $6, notes = $7,
			is_paid = $8, paid_at = $9, updated_at = NOW()
		WHERE id = $10 AND workspace_id = $11
		RETURNING `+transactionColumns,
		data.Description, amount, string(data.Type), data.Date,
		data.BankAccountID, categoryID, notes, data.IsPaid, paidAt, id, workspaceID)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	if err := applyBalanceDeltaTx(ctx, tx, oldAccountID, revertDelta, decimal.Zero); err != nil {
		return nil, err
	}
	if err := applyBalanceDeltaTx(ctx, tx, data.BankAccountID, applyDelta, decimal.Zero); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteWithRebalance removes the row and reverts its balance impact in one
// database transaction
func (r *TransactionRepository) DeleteWithRebalance(workspaceID int32, id int32, accountID int32, revertDelta decimal.Decimal) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	if err := applyBalanceDeltaTx(ctx, tx, accountID, revertDelta, decimal.Zero); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetPaid flips the paid state and applies the delta in one database
// transaction
func (r *TransactionRepository) SetPaid(workspaceID int32, id int32, paid bool, paidAt *time.Time, delta decimal.Decimal) (*domain.Transaction, error) {
	ctx := context.Background()

	var paidAtValue pgtype.Timestamptz
	if paidAt != nil {
		paidAtValue.Time = *paidAt
		paidAtValue.Valid = true
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE transactions
		SET is_paid = $1, paid_at = $2, updated_at = NOW()
		WHERE id = $3 AND workspace_id = $4
		RETURNING `+transactionColumns, paid, paidAtValue, id, workspaceID)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	if err := applyBalanceDeltaTx(ctx, tx, updated.BankAccountID, delta, decimal.Zero); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// insertTransactionTx inserts a transaction row inside an open database
// transaction. Shared with the account repository's compound operations.
func insertTransactionTx(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var paidAt pgtype.Timestamptz
	if transaction.PaidAt != nil {
		paidAt.Time = *transaction.PaidAt
		paidAt.Valid = true
	}
	var notes pgtype.Text
	if transaction.Notes != nil {
		notes.String = *transaction.Notes
		notes.Valid = true
	}
	var categoryID pgtype.Int4
	if transaction.CategoryID != nil {
		categoryID.Int32 = *transaction.CategoryID
		categoryID.Valid = true
	}
	var installmentPurchaseID pgtype.Int4
	if transaction.InstallmentPurchaseID != nil {
		installmentPurchaseID.Int32 = *transaction.InstallmentPurchaseID
		installmentPurchaseID.Valid = true
	}
	var installmentNumber pgtype.Int4
	if transaction.InstallmentNumber != nil {
		installmentNumber.Int32 = *transaction.InstallmentNumber
		installmentNumber.Valid = true
	}
	var goalID pgtype.Int4
	if transaction.GoalID != nil {
		goalID.Int32 = *transaction.GoalID
		goalID.Valid = true
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO transactions (workspace_id, bank_account_id, description, amount,
			type, date, is_paid, paid_at, notes, category_id, created_by_id,
			installment_purchase_id, installment_number, goal_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+transactionColumns,
		transaction.WorkspaceID, transaction.BankAccountID, transaction.Description,
		amount, string(transaction.Type), transaction.Date, transaction.IsPaid,
		paidAt, notes, categoryID, transaction.CreatedByID,
		installmentPurchaseID, installmentNumber, goalID)

	return scanTransaction(row)
}

// applyBalanceDeltaTx adds delta to current_balance (and principalDelta to
// total_invested) as a relative update. A NULL total_invested stays NULL
// under the relative arithmetic, so untracked principal is never invented
// here. A zero delta still touches the row; callers skip the call when
// there is nothing to apply.
func applyBalanceDeltaTx(ctx context.Context, tx pgx.Tx, accountID int32, delta decimal.Decimal, principalDelta decimal.Decimal) error {
	if delta.IsZero() && principalDelta.IsZero() {
		return nil
	}

	deltaNum, err := decimalToPgNumeric(delta)
	if err != nil {
		return fmt.Errorf("invalid balance delta: %w", err)
	}
	principalNum, err := decimalToPgNumeric(principalDelta)
	if err != nil {
		return fmt.Errorf("invalid principal delta: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bank_accounts
		SET current_balance = current_balance + $1,
			total_invested = total_invested + $2,
			updated_at = NOW()
		WHERE id = $3`, deltaNum, principalNum, accountID)
	return err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var amount pgtype.Numeric
	var date, paidAt, createdAt, updatedAt pgtype.Timestamptz
	var notes pgtype.Text
	var categoryID, installmentPurchaseID, installmentNumber, goalID pgtype.Int4
	var txType string

	err := row.Scan(&transaction.ID, &transaction.WorkspaceID, &transaction.BankAccountID,
		&transaction.Description, &amount, &txType, &date, &transaction.IsPaid,
		&paidAt, &notes, &categoryID, &transaction.CreatedByID,
		&installmentPurchaseID, &installmentNumber, &goalID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Type = domain.TransactionType(txType)
	transaction.Date = date.Time
	if paidAt.Valid {
		transaction.PaidAt = &paidAt.Time
	}
	if notes.Valid {
		transaction.Notes = &notes.String
	}
	if categoryID.Valid {
		transaction.CategoryID = &categoryID.Int32
	}
	if installmentPurchaseID.Valid {
		transaction.InstallmentPurchaseID = &installmentPurchaseID.Int32
	}
	if installmentNumber.Valid {
		transaction.InstallmentNumber = &installmentNumber.Int32
	}
	if goalID.Valid {
		transaction.GoalID = &goalID.Int32
	}
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time
	return &transaction, nil
}
