package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InstallmentPlanRepository implements domain.InstallmentPlanRepository using
// PostgreSQL
type InstallmentPlanRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentPlanRepository creates a new InstallmentPlanRepository
func NewInstallmentPlanRepository(pool *pgxpool.Pool) *InstallmentPlanRepository {
	return &InstallmentPlanRepository{pool: pool}
}

const planColumns = `id, workspace_id, bank_account_id, description, total_amount,
	total_installments, start_date, category_id, created_at`

// CreatePlan inserts the parent row and its child transactions in one
// database transaction. Children are unpaid, so no balance changes here.
func (r *InstallmentPlanRepository) CreatePlan(plan *domain.InstallmentPlan, children []*domain.Transaction) (*domain.InstallmentPlan, error) {
	ctx := context.Background()

	total, err := decimalToPgNumeric(plan.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	var categoryID pgtype.Int4
	if plan.CategoryID != nil {
		categoryID.Int32 = *plan.CategoryID
		categoryID.Valid = true
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO installment_purchases (workspace_id, bank_account_id, description,
			total_amount, total_installments, start_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+planColumns,
		plan.WorkspaceID, plan.BankAccountID, plan.Description, total,
		plan.TotalInstallments, plan.StartDate, categoryID)

	created, err := scanPlan(row)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		child.InstallmentPurchaseID = &created.ID
		inserted, err := insertTransactionTx(ctx, tx, child)
		if err != nil {
			return nil, err
		}
		created.Transactions = append(created.Transactions, inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *InstallmentPlanRepository) GetByID(workspaceID int32, id int32) (*domain.InstallmentPlan, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM installment_purchases
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstallmentPlanNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE installment_purchase_id = $1
		ORDER BY installment_number`, plan.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		child, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		plan.Transactions = append(plan.Transactions, child)
	}
	return plan, rows.Err()
}

func (r *InstallmentPlanRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.InstallmentPlan, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+planColumns+`
		FROM installment_purchases
		WHERE workspace_id = $1
		ORDER BY start_date DESC, id DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.InstallmentPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plan := range plans {
		childRows, err := r.pool.Query(ctx, `
			SELECT `+transactionColumns+`
			FROM transactions
			WHERE installment_purchase_id = $1
			ORDER BY installment_number`, plan.ID)
		if err != nil {
			return nil, err
		}
		for childRows.Next() {
			child, err := scanTransaction(childRows)
			if err != nil {
				childRows.Close()
				return nil, err
			}
			plan.Transactions = append(plan.Transactions, child)
		}
		childRows.Close()
		if err := childRows.Err(); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// DeletePlan removes the children and the parent and restores restoreAmount
// (the already-booked share of the plan) to the account, atomically.
func (r *InstallmentPlanRepository) DeletePlan(workspaceID int32, id int32, accountID int32, restoreAmount decimal.Decimal) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM transactions
		WHERE installment_purchase_id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM installment_purchases
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentPlanNotFound
	}

	if err := applyBalanceDeltaTx(ctx, tx, accountID, restoreAmount, decimal.Zero); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanPlan(row pgx.Row) (*domain.InstallmentPlan, error) {
	var plan domain.InstallmentPlan
	var total pgtype.Numeric
	var startDate, createdAt pgtype.Timestamptz
	var categoryID pgtype.Int4

	err := row.Scan(&plan.ID, &plan.WorkspaceID, &plan.BankAccountID,
		&plan.Description, &total, &plan.TotalInstallments, &startDate,
		&categoryID, &createdAt)
	if err != nil {
		return nil, err
	}

	plan.TotalAmount = pgNumericToDecimal(total)
	plan.StartDate = startDate.Time
	if categoryID.Valid {
		plan.CategoryID = &categoryID.Int32
	}
	plan.CreatedAt = createdAt.Time
	return &plan, nil
}
