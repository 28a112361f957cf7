package handler

import "github.com/msomdec/item-flow/internal/domain"

// ItemDTO is the JSON representation of an item. Category carries the
// category name, not its id.
type ItemDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    *string `json:"image"`
	Category *string `json:"category"`
}

func toItemDTO(it *domain.Item) ItemDTO {
	dto := ItemDTO{ID: it.ID, Name: it.Name, Category: it.CategoryName}
	if it.Image != "" {
		image := it.Image
		dto.Image = &image
	}
	return dto
}

// ItemPageDTO is the JSON representation of one page of a listing.
type ItemPageDTO struct {
	Items       []ItemDTO `json:"items"`
	TotalItems  int       `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

func toItemPageDTO(p *domain.ItemPage) ItemPageDTO {
	items := make([]ItemDTO, len(p.Items))
	for i := range p.Items {
		items[i] = toItemDTO(&p.Items[i])
	}
	return ItemPageDTO{
		Items:       items,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
	}
}

// CategoryDTO is the JSON representation of a category.
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCategoryDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func toCategoryDTOs(categories []domain.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = toCategoryDTO(&categories[i])
	}
	return dtos
}

// categoryRequest is the body of category create and rename.
type categoryRequest struct {
	Name string `json:"name"`
}

// itemRequest is the JSON body of item create and update.
type itemRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

// suggestRequest is the body of a name suggestion request.
type suggestRequest struct {
	CategoryName string `json:"categoryName"`
}
