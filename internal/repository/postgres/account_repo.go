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

// BankAccountRepository implements domain.BankAccountRepository using PostgreSQL
type BankAccountRepository struct {
	pool *pgxpool.Pool
}

// NewBankAccountRepository creates a new BankAccountRepository
func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

const accountColumns = `id, workspace_id, name, initial_balance, current_balance,
	is_investment, total_invested, cdi_percentage, maturity_date, last_yield_update,
	created_at, updated_at`

// Create creates a new bank account
func (r *BankAccountRepository) Create(account *domain.BankAccount) (*domain.BankAccount, error) {
	ctx := context.Background()

	initialBalance, err := decimalToPgNumeric(account.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance: %w", err)
	}
	// Unset principal is stored as NULL so it stays distinct from a
	// redeemed-to-zero account.
	var totalInvested pgtype.Numeric
	if account.TotalInvested != nil {
		totalInvested, err = decimalToPgNumeric(*account.TotalInvested)
		if err != nil {
			return nil, fmt.Errorf("invalid total invested: %w", err)
		}
	}
	cdiPercentage, err := decimalToPgNumeric(account.CDIPercentage)
	if err != nil {
		return nil, fmt.Errorf("invalid cdi percentage: %w", err)
	}

	var maturityDate pgtype.Date
	if account.MaturityDate != nil {
		maturityDate.Time = *account.MaturityDate
		maturityDate.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO bank_accounts (workspace_id, name, initial_balance, current_balance,
			is_investment, total_invested, cdi_percentage, maturity_date)
		VALUES ($1, $2, $3, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		account.WorkspaceID, account.Name, initialBalance,
		account.IsInvestment, totalInvested, cdiPercentage, maturityDate)

	return scanAccount(row)
}

// GetByID retrieves a bank account by its ID within a workspace
func (r *BankAccountRepository) GetByID(workspaceID int32, id int32) (*domain.BankAccount, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM bank_accounts
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetAllByWorkspace retrieves all bank accounts of a workspace
func (r *BankAccountRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.BankAccount, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM bank_accounts
		WHERE workspace_id = $1
		ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetInvestmentAccounts retrieves every investment account with a positive
// balance, across all workspaces
func (r *BankAccountRepository) GetInvestmentAccounts() ([]*domain.BankAccount, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM bank_accounts
		WHERE is_investment = TRUE AND current_balance > 0
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Update updates account fields; a changed initial balance moves the current
// balance by the same delta inside the statement, so concurrent ledger
// writes are not overwritten
func (r *BankAccountRepository) Update(workspaceID int32, id int32, data *domain.UpdateBankAccountData) (*domain.BankAccount, error) {
	ctx := context.Background()

	initialBalance, err := decimalToPgNumeric(data.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance: %w", err)
	}
	cdiPercentage, err := decimalToPgNumeric(data.CDIPercentage)
	if err != nil {
		return nil, fmt.Errorf("invalid cdi percentage: %w", err)
	}

	var maturityDate pgtype.Date
	if data.MaturityDate != nil {
		maturityDate.Time = *data.MaturityDate
		maturityDate.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE bank_accounts
		SET name = $1,
			current_balance = current_balance + ($2 - initial_balance),
			initial_balance = $2,
			is_investment = $3,
			cdi_percentage = $4,
			maturity_date = $5,
			updated_at = NOW()
		WHERE id = $6 AND workspace_id = $7
		RETURNING `+accountColumns,
		data.Name, initialBalance, data.IsInvestment, cdiPercentage, maturityDate, id, workspaceID)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// Delete removes an account; it fails while transactions still reference it
func (r *BankAccountRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()

	var inUse bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE bank_account_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrAccountInUse
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM bank_accounts WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// CreditYield books the yield record and increments the balance in one
// database transaction, stamping last_yield_update
func (r *BankAccountRepository) CreditYield(accountID int32, amount decimal.Decimal, record *domain.Transaction, stampedAt time.Time) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := insertTransactionTx(ctx, tx, record); err != nil {
		return err
	}

	yield, err := decimalToPgNumeric(amount)
	if err != nil {
		return fmt.Errorf("invalid yield amount: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE bank_accounts
		SET current_balance = current_balance + $1,
			last_yield_update = $2,
			updated_at = NOW()
		WHERE id = $3`, yield, stampedAt, accountID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// StampYieldUpdate marks the account as visited by the yield batch without
// crediting anything
func (r *BankAccountRepository) StampYieldUpdate(accountID int32, stampedAt time.Time) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		UPDATE bank_accounts SET last_yield_update = $1 WHERE id = $2`, stampedAt, accountID)
	return err
}

// Redeem applies the whole redemption write set in one database transaction
func (r *BankAccountRepository) Redeem(op *domain.RedemptionOp) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if op.TaxRecord != nil {
		if _, err := insertTransactionTx(ctx, tx, op.TaxRecord); err != nil {
			return err
		}
	}
	if _, err := insertTransactionTx(ctx, tx, op.WithdrawalRecord); err != nil {
		return err
	}
	if op.DepositRecord != nil {
		if _, err := insertTransactionTx(ctx, tx, op.DepositRecord); err != nil {
			return err
		}
	}

	if op.DestinationAccountID != nil {
		net, err := decimalToPgNumeric(op.NetAmount)
		if err != nil {
			return fmt.Errorf("invalid net amount: %w", err)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE bank_accounts
			SET current_balance = current_balance + $1, updated_at = NOW()
			WHERE id = $2`, net, *op.DestinationAccountID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrDestinationNotFound
		}
	}

	amount, err := decimalToPgNumeric(op.Amount)
	if err != nil {
		return fmt.Errorf("invalid redemption amount: %w", err)
	}
	principal, err := decimalToPgNumeric(op.PrincipalReduction)
	if err != nil {
		return fmt.Errorf("invalid principal reduction: %w", err)
	}
	// First redemption on an account with untracked principal starts
	// from the initial balance; afterwards the column carries the
	// remaining principal, down to a genuine zero.
	if _, err := tx.Exec(ctx, `
		UPDATE bank_accounts
		SET current_balance = current_balance - $1,
			total_invested = COALESCE(total_invested, initial_balance) - $2,
			updated_at = NOW()
		WHERE id = $3`, amount, principal, op.SourceAccountID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanAccount(row pgx.Row) (*domain.BankAccount, error) {
	var account domain.BankAccount
	var initialBalance, currentBalance, totalInvested, cdiPercentage pgtype.Numeric
	var maturityDate pgtype.Date
	var lastYieldUpdate, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&account.ID, &account.WorkspaceID, &account.Name,
		&initialBalance, &currentBalance, &account.IsInvestment, &totalInvested,
		&cdiPercentage, &maturityDate, &lastYieldUpdate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	account.InitialBalance = pgNumericToDecimal(initialBalance)
	account.CurrentBalance = pgNumericToDecimal(currentBalance)
	if totalInvested.Valid {
		invested := pgNumericToDecimal(totalInvested)
		account.TotalInvested = &invested
	}
	account.CDIPercentage = pgNumericToDecimal(cdiPercentage)
	if maturityDate.Valid {
		account.MaturityDate = &maturityDate.Time
	}
	if lastYieldUpdate.Valid {
		account.LastYieldUpdate = &lastYieldUpdate.Time
	}
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.BankAccount, error) {
	var accounts []*domain.BankAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
