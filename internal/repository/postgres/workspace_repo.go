package postgres

import (
	"context"
	"errors"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	ctx := context.Background()

	var workspace domain.Workspace
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM workspaces
		WHERE id = $1`, id).Scan(&workspace.ID, &workspace.Name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	workspace.CreatedAt = createdAt.Time
	workspace.UpdatedAt = updatedAt.Time
	return &workspace, nil
}

func (r *WorkspaceRepository) GetAll() ([]*domain.Workspace, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM workspaces
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		var workspace domain.Workspace
		var createdAt, updatedAt pgtype.Timestamptz
		if err := rows.Scan(&workspace.ID, &workspace.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		workspace.CreatedAt = createdAt.Time
		workspace.UpdatedAt = updatedAt.Time
		workspaces = append(workspaces, &workspace)
	}
	return workspaces, rows.Err()
}

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, workspace_id, email, name, created_at
		FROM users
		WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetFirstInWorkspace returns the oldest user of a workspace, the one
// batch-generated transactions are attributed to.
func (r *UserRepository) GetFirstInWorkspace(workspaceID int32) (*domain.User, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, workspace_id, email, name, created_at
		FROM users
		WHERE workspace_id = $1
		ORDER BY created_at
		LIMIT 1`, workspaceID)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var name pgtype.Text
	var createdAt pgtype.Timestamptz

	err := row.Scan(&user.ID, &user.WorkspaceID, &user.Email, &name, &createdAt)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		user.Name = &name.String
	}
	user.CreatedAt = createdAt.Time
	return &user, nil
}
