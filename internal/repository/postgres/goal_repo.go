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

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, workspace_id, title, target_amount, current_amount,
	deadline, storage_account_id, color, created_at, updated_at`

func (r *GoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	var deadline pgtype.Timestamptz
	if goal.Deadline != nil {
		deadline.Time = *goal.Deadline
		deadline.Valid = true
	}
	var storageAccountID pgtype.Int4
	if goal.StorageAccountID != nil {
		storageAccountID.Int32 = *goal.StorageAccountID
		storageAccountID.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO goals (workspace_id, title, target_amount, current_amount,
			deadline, storage_account_id, color)
		VALUES ($1, $2, $3, 0, $4, $5, $6)
		RETURNING `+goalColumns,
		goal.WorkspaceID, goal.Title, target, deadline, storageAccountID,
		textOrNull(goal.Color))

	return scanGoal(row)
}

func (r *GoalRepository) GetByID(workspaceID int32, id int32) (*domain.Goal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (r *GoalRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Goal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE workspace_id = $1
		ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *GoalRepository) Update(workspaceID int32, id int32, data *domain.UpdateGoalData) (*domain.Goal, error) {
	ctx := context.Background()

	current, err := r.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	title := current.Title
	if data.Title != nil {
		title = *data.Title
	}
	targetAmount := current.TargetAmount
	if data.TargetAmount != nil {
		targetAmount = *data.TargetAmount
	}
	currentAmount := current.CurrentAmount
	if data.CurrentAmount != nil {
		currentAmount = *data.CurrentAmount
	}
	deadline := current.Deadline
	if data.Deadline != nil {
		deadline = data.Deadline
	}
	color := current.Color
	if data.Color != nil {
		color = data.Color
	}

	target, err := decimalToPgNumeric(targetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	currentNum, err := decimalToPgNumeric(currentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}
	var deadlineValue pgtype.Timestamptz
	if deadline != nil {
		deadlineValue.Time = *deadline
		deadlineValue.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE goals
		SET title = $1, target_amount = $2, current_amount = $3, deadline = $4,
			color = $5, updated_at = NOW()
		WHERE id = $6 AND workspace_id = $7
		RETURNING `+goalColumns,
		title, target, currentNum, deadlineValue, textOrNull(color), id, workspaceID)

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// ApplyDeposit executes the whole deposit write set in one database
// transaction: the goal increment, the source debit, the optional storage
// credit and the ledger record. op.Amount is signed; a withdrawal's negative
// amount runs every leg in reverse.
func (r *GoalRepository) ApplyDeposit(workspaceID int32, op *domain.GoalDepositOp) error {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(op.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE goals
		SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2 AND workspace_id = $3`, amount, op.GoalID, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}

	if err := applyBalanceDeltaTx(ctx, tx, op.SourceAccountID, op.Amount.Neg(), decimal.Zero); err != nil {
		return err
	}
	if op.StorageAccountID != nil {
		if err := applyBalanceDeltaTx(ctx, tx, *op.StorageAccountID, op.Amount, decimal.Zero); err != nil {
			return err
		}
	}

	if _, err := insertTransactionTx(ctx, tx, op.Record); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AdjustAmount moves current_amount by a signed delta without any ledger
// effect. Used for goals tracked outside the accounts.
func (r *GoalRepository) AdjustAmount(workspaceID int32, id int32, amount decimal.Decimal) error {
	ctx := context.Background()

	delta, err := decimalToPgNumeric(amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE goals
		SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2 AND workspace_id = $3`, delta, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// DeleteWithReversal unwinds the goal: every transaction carrying its id is
// reverted on its account and deleted, the storage account is drained by the
// saved amount, then the goal row goes away. One database transaction.
func (r *GoalRepository) DeleteWithReversal(workspaceID int32, id int32) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE id = $1 AND workspace_id = $2
		FOR UPDATE`, id, workspaceID)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrGoalNotFound
		}
		return err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE goal_id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	var records []*domain.Transaction
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return err
		}
		records = append(records, record)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, record := range records {
		// Deposits (expense) restore the source; withdrawals (income)
		// take back what was returned.
		reverse := record.Amount
		if record.Type == domain.TransactionTypeIncome {
			reverse = record.Amount.Neg()
		}
		if err := applyBalanceDeltaTx(ctx, tx, record.BankAccountID, reverse, decimal.Zero); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM transactions WHERE goal_id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}

	if goal.StorageAccountID != nil && goal.CurrentAmount.IsPositive() {
		if err := applyBalanceDeltaTx(ctx, tx, *goal.StorageAccountID, goal.CurrentAmount.Neg(), decimal.Zero); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM goals WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var goal domain.Goal
	var target, current pgtype.Numeric
	var deadline, createdAt, updatedAt pgtype.Timestamptz
	var storageAccountID pgtype.Int4
	var color pgtype.Text

	err := row.Scan(&goal.ID, &goal.WorkspaceID, &goal.Title, &target, &current,
		&deadline, &storageAccountID, &color, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	goal.TargetAmount = pgNumericToDecimal(target)
	goal.CurrentAmount = pgNumericToDecimal(current)
	if deadline.Valid {
		goal.Deadline = &deadline.Time
	}
	if storageAccountID.Valid {
		goal.StorageAccountID = &storageAccountID.Int32
	}
	if color.Valid {
		goal.Color = &color.String
	}
	goal.CreatedAt = createdAt.Time
	goal.UpdatedAt = updatedAt.Time
	return &goal, nil
}
