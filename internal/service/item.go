package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/pagination"
)

// ItemInput carries the client-supplied fields of a create or update.
// A nil Image keeps the current attachment on update.
type ItemInput struct {
	Name       string
	CategoryID string
	Image      *domain.ImageUpload
}

// ItemService handles item listing and mutations, including the lifecycle
// of each item's image attachment.
type ItemService struct {
	items       domain.ItemRepository
	categories  domain.CategoryRepository
	attachments domain.AttachmentStore
	releaser    domain.AttachmentReleaser
	strict      bool
}

// NewItemService creates a new ItemService. With strictCategories unknown
// category ids are rejected by the store; without it they are stored as
// uncategorized.
func NewItemService(
	items domain.ItemRepository,
	categories domain.CategoryRepository,
	attachments domain.AttachmentStore,
	releaser domain.AttachmentReleaser,
	strictCategories bool,
) *ItemService {
	return &ItemService{
		items:       items,
		categories:  categories,
		attachments: attachments,
		releaser:    releaser,
		strict:      strictCategories,
	}
}

// List returns one page of items whose name or category name contains
// filter, ordered by item name.
func (s *ItemService) List(ctx context.Context, filter string, page, limit int) (*domain.ItemPage, error) {
	filter = strings.TrimSpace(filter)

	total, err := s.items.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	window := pagination.Compute(total, page, limit)
	result := &domain.ItemPage{
		Items:       []domain.Item{},
		TotalItems:  total,
		TotalPages:  window.TotalPages,
		CurrentPage: window.Page,
	}
	if window.PastEnd(total) {
		return result, nil
	}

	result.Items, err = s.items.List(ctx, domain.ItemFilter{Filter: filter, Limit: window.Limit, Offset: window.Offset})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return result, nil
}

// Create stores the optional image, then the item. If the insert fails the
// stored image is released again.
func (s *ItemService) Create(ctx context.Context, in ItemInput) (*domain.Item, error) {
	name, err := itemName(in.Name)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{Name: name, CategoryID: categoryID}
	if in.Image != nil {
		locator, err := s.attachments.Store(ctx, *in.Image)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		item.Image = locator
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.releaser.Enqueue(ctx, domain.ReleaseJob{Locator: item.Image, Op: "create"})
		return nil, fmt.Errorf("create item: %w", err)
	}

	created, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("get created item: %w", err)
	}
	return created, nil
}

// Update replaces an item's name and category and, when in.Image is set,
// its image. The previous image is released only after the update has
// been written.
func (s *ItemService) Update(ctx context.Context, id string, in ItemInput) (*domain.Item, error) {
	name, err := itemName(in.Name)
	if err != nil {
		return nil, err
	}

	existing, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{ID: id, Name: name, CategoryID: categoryID, Image: existing.Image}
	if in.Image != nil {
		locator, err := s.attachments.Store(ctx, *in.Image)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		item.Image = locator
	}

	if err := s.items.Update(ctx, item); err != nil {
		if item.Image != existing.Image {
			s.releaser.Enqueue(ctx, domain.ReleaseJob{ItemID: id, Locator: item.Image, Op: "update"})
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	if item.Image != existing.Image {
		s.releaser.Enqueue(ctx, domain.ReleaseJob{ItemID: id, Locator: existing.Image, Op: "update"})
	}

	updated, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get updated item: %w", err)
	}
	return updated, nil
}

// Delete removes an item and then releases its image. Deleting an unknown
// id fails with domain.ErrNotFound, unlike category deletion.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	existing, err := s.items.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.releaser.Enqueue(ctx, domain.ReleaseJob{ItemID: id, Locator: existing.Image, Op: "delete"})
	return nil
}

// resolveCategory maps the raw category id to the value stored on the
// item. Blank means uncategorized.
func (s *ItemService) resolveCategory(ctx context.Context, raw string) (*string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return nil, nil
	}
	if s.strict {
		return &id, nil
	}

	_, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &id, nil
}

func itemName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(name) > 200 {
		return "", fmt.Errorf("%w: name must be 200 characters or fewer", domain.ErrInvalidInput)
	}
	return name, nil
}
