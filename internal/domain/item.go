package domain

import "context"

// Item is an inventory entry. CategoryName is resolved by a join on read
// and is nil for uncategorized items. An empty Image means no attachment.
type Item struct {
	ID           string
	Name         string
	CategoryID   *string
	CategoryName *string
	Image        string
}

// ItemFilter selects a page of items. Filter matches item or category
// names case-insensitively; an empty Filter matches everything.
type ItemFilter struct {
	Filter string
	Limit  int
	Offset int
}

// ItemPage is one page of a filtered listing.
type ItemPage struct {
	Items       []Item
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	List(ctx context.Context, filter ItemFilter) ([]Item, error)
	Count(ctx context.Context, filter string) (int, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	// ListImages returns every non-empty image locator currently referenced.
	ListImages(ctx context.Context) ([]string, error)
}
