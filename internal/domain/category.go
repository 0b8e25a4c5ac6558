package domain

import "time"

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

type Category struct {
	ID          int32        `json:"id"`
	WorkspaceID int32        `json:"workspaceId"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	Color       *string      `json:"color,omitempty"`
	Icon        *string      `json:"icon,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type UpdateCategoryData struct {
	Name  string
	Type  CategoryType
	Color *string
	Icon  *string
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(workspaceID int32, id int32) (*Category, error)
	GetAllByWorkspace(workspaceID int32) ([]*Category, error)
	Update(workspaceID int32, id int32, data *UpdateCategoryData) (*Category, error)
	// Delete detaches the category from its transactions and removes it.
	Delete(workspaceID int32, id int32) error
}
