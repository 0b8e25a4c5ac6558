package postgres

import (
	"context"
	"errors"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, workspace_id, name, type, color, icon, created_at, updated_at`

func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (workspace_id, name, type, color, icon)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		category.WorkspaceID, category.Name, string(category.Type),
		textOrNull(category.Color), textOrNull(category.Icon))

	return scanCategory(row)
}

func (r *CategoryRepository) GetByID(workspaceID int32, id int32) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1 AND workspace_id = $2`, id, workspaceID)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE workspace_id = $1
		ORDER BY name`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(workspaceID int32, id int32, data *domain.UpdateCategoryData) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $1, type = $2, color = $3, icon = $4, updated_at = NOW()
		WHERE id = $5 AND workspace_id = $6
		RETURNING `+categoryColumns,
		data.Name, string(data.Type), textOrNull(data.Color), textOrNull(data.Icon),
		id, workspaceID)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete detaches the category from its transactions before removing it, so
// the ledger history survives the category.
func (r *CategoryRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE transactions SET category_id = NULL
		WHERE category_id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM categories WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return tx.Commit(ctx)
}

func textOrNull(s *string) pgtype.Text {
	var t pgtype.Text
	if s != nil {
		t.String = *s
		t.Valid = true
	}
	return t
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	var color, icon pgtype.Text
	var categoryType string
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&category.ID, &category.WorkspaceID, &category.Name,
		&categoryType, &color, &icon, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	category.Type = domain.CategoryType(categoryType)
	if color.Valid {
		category.Color = &color.String
	}
	if icon.Valid {
		category.Icon = &icon.String
	}
	category.CreatedAt = createdAt.Time
	category.UpdatedAt = updatedAt.Time
	return &category, nil
}
