package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/item-flow/internal/domain"
)

// CategoryService handles category operations.
type CategoryService struct {
	categories domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories domain.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Create adds a category with a unique, non-blank name.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Rename changes a category's name. The row is re-read after the update
// because updating a missing id does not fail.
func (s *CategoryService) Rename(ctx context.Context, id, name string) (*domain.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, &domain.Category{ID: id, Name: name}); err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get renamed category: %w", err)
	}
	return category, nil
}

// Delete removes a category and detaches its items. Deleting an unknown
// id succeeds.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(name) > 100 {
		return "", fmt.Errorf("%w: name must be 100 characters or fewer", domain.ErrInvalidInput)
	}
	return name, nil
}
