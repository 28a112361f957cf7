package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/service"
)

// SuggestHandler serves item name suggestions.
type SuggestHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(suggestions *service.SuggestionService) *SuggestHandler {
	return &SuggestHandler{suggestions: suggestions}
}

// HandleSuggest returns a list of names for a new item in a category.
// POST /api/ai/suggest-name
func (h *SuggestHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	names, err := h.suggestions.Suggest(r.Context(), req.CategoryName)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, names)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Category name is required.")
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("suggest item names", "category", req.CategoryName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get suggestions from AI.")
	}
}
