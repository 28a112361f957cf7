package domain

import "context"

// Category groups items. Names are unique and compared case-sensitively.
type Category struct {
	ID   string
	Name string
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	// Update renames a category. Updating a missing id is not an error;
	// callers re-read the row to detect it.
	Update(ctx context.Context, category *Category) error
	// Delete detaches referencing items and removes the category.
	// Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
