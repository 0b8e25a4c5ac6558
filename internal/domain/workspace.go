package domain

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID int32     `json:"workspaceId"`
	Email       string    `json:"email"`
	Name        *string   `json:"name,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type WorkspaceRepository interface {
	GetByID(id int32) (*Workspace, error)
	GetAll() ([]*Workspace, error)
}

type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	// GetFirstInWorkspace returns the oldest user of a workspace, used to
	// attribute batch-generated transactions.
	GetFirstInWorkspace(workspaceID int32) (*User, error)
}
