package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/item-flow/internal/domain"
)

// Seeder inserts the demo catalogue.
type Seeder struct {
	categories domain.CategoryRepository
	items      domain.ItemRepository
}

// NewSeeder creates a new Seeder.
func NewSeeder(categories domain.CategoryRepository, items domain.ItemRepository) *Seeder {
	return &Seeder{categories: categories, items: items}
}

type seedItem struct {
	name     string
	category string
	image    string
}

var seedCategories = []string{"Electronics", "Books", "Groceries", "Tropical Fruits"}

var seedItems = []seedItem{
	{"Wireless Mouse", "Electronics", "https://res.cloudinary.com/dy3ms7zlg/image/upload/v1760788264/item-flow/b9lql2ozhij0h3h4zilv.jpg"},
	{"The Pragmatic Programmer", "Books", "https://res.cloudinary.com/dy3ms7zlg/image/upload/v1760788171/item-flow/hsnawhkbcenyayghbvip.jpg"},
	{"Milk", "Groceries", "https://res.cloudinary.com/dy3ms7zlg/image/upload/v1760788142/item-flow/dctokwyhpijuxzuigrbb.jpg"},
	{"Standalone Keyboard", "Electronics", "https://res.cloudinary.com/dy3ms7zlg/image/upload/v1760788161/item-flow/wbcbxex5ibigpboutkc8.jpg"},
	{"Apple", "Tropical Fruits", "https://res.cloudinary.com/dy3ms7zlg/image/upload/v1760799492/item-flow/pg0wuoibx7qamo3pwfa6.jpg"},
	{"Banana", "Tropical Fruits", "https://res.cloudinary.com/dy3ms7zlg/image/upload/v1760799504/item-flow/e5xo2pciwupxqpkmfdgc.jpg"},
}

// Seed is idempotent: existing categories are matched by name and items
// are only inserted into an empty table.
func (s *Seeder) Seed(ctx context.Context) error {
	ids := make(map[string]string, len(seedCategories))
	for _, name := range seedCategories {
		c, err := s.categories.GetByName(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			c = &domain.Category{Name: name}
			err = s.categories.Create(ctx, c)
		}
		if err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		ids[name] = c.ID
	}

	count, err := s.items.Count(ctx, "")
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, it := range seedItems {
		categoryID := ids[it.category]
		item := &domain.Item{Name: it.name, CategoryID: &categoryID, Image: it.image}
		if err := s.items.Create(ctx, item); err != nil {
			return fmt.Errorf("seed item %s: %w", it.name, err)
		}
	}
	return nil
}
