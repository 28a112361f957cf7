package handler

import (
	"fmt"
	"net/http"

	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/service"
)

// CategoryHandler serves the category endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// HandleList returns every category ordered by name.
// GET /api/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTOs(categories))
}

// HandleCreate adds a category.
// POST /api/categories
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, r, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput))
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(category))
}

// HandleRename changes a category's name.
// PUT /api/categories/{id}
func (h *CategoryHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, r, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput))
		return
	}

	category, err := h.categories.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(category))
}

// HandleDelete removes a category. Unknown ids still get a 204.
// DELETE /api/categories/{id}
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
