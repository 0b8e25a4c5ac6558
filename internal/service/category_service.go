package service

import "github.com/centavo/centavo-backend/internal/domain"

// CategoryService handles category business logic. Categories are cosmetic
// labels: no operation on them touches a balance.
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name  string
	Type  domain.CategoryType
	Color *string
	Icon  *string
}

// CreateCategory creates a category with validation
func (s *CategoryService) CreateCategory(workspaceID int32, input CreateCategoryInput) (*domain.Category, error) {
	name, err := validateDescription(input.Name)
	if err != nil {
		return nil, err
	}

	if input.Type != domain.CategoryTypeIncome && input.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidInput
	}

	return s.categoryRepo.Create(&domain.Category{
		WorkspaceID: workspaceID,
		Name:        name,
		Type:        input.Type,
		Color:       input.Color,
		Icon:        input.Icon,
	})
}

// GetCategories retrieves all categories of a workspace
func (s *CategoryService) GetCategories(workspaceID int32) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByWorkspace(workspaceID)
}

// UpdateCategory updates a category
func (s *CategoryService) UpdateCategory(workspaceID int32, id int32, input CreateCategoryInput) (*domain.Category, error) {
	name, err := validateDescription(input.Name)
	if err != nil {
		return nil, err
	}

	if input.Type != domain.CategoryTypeIncome && input.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidInput
	}

	return s.categoryRepo.Update(workspaceID, id, &domain.UpdateCategoryData{
		Name:  name,
		Type:  input.Type,
		Color: input.Color,
		Icon:  input.Icon,
	})
}

// DeleteCategory removes a category; its transactions keep a null category.
func (s *CategoryService) DeleteCategory(workspaceID int32, id int32) error {
	return s.categoryRepo.Delete(workspaceID, id)
}
