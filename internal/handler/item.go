package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/msomdec/item-flow/internal/attachment"
	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/pagination"
	"github.com/msomdec/item-flow/internal/service"
)

// ItemHandler serves the item endpoints.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// HandleList returns one page of items.
// GET /api/items?filter=&page=&limit=
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pagination.Parse(q.Get("page"), q.Get("limit"))

	result, err := h.items.List(r.Context(), q.Get("filter"), page, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemPageDTO(result))
}

// HandleCreate adds an item from a multipart form or a JSON body.
// POST /api/items
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := readItemInput(w, r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	item, err := h.items.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// HandleUpdate replaces an item's fields and optionally its image.
// PUT /api/items/{id}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	in, err := readItemInput(w, r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	item, err := h.items.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleDelete removes an item.
// DELETE /api/items/{id}
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readItemInput(w http.ResponseWriter, r *http.Request) (service.ItemInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req itemRequest
		if err := readJSON(r, &req); err != nil {
			return service.ItemInput{}, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
		}
		return service.ItemInput{Name: req.Name, CategoryID: req.CategoryID}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, attachment.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(attachment.MaxImageSize); err != nil {
		return service.ItemInput{}, fmt.Errorf("%w: invalid multipart form", domain.ErrInvalidInput)
	}

	in := service.ItemInput{
		Name:       r.FormValue("name"),
		CategoryID: r.FormValue("category_id"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return service.ItemInput{}, fmt.Errorf("%w: invalid image", domain.ErrInvalidInput)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, attachment.MaxImageSize+1))
	if err != nil {
		return service.ItemInput{}, fmt.Errorf("read image: %w", err)
	}

	// Detect content type from file bytes (more reliable than multipart header).
	in.Image = &domain.ImageUpload{
		Filename:    header.Filename,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}
	return in, nil
}
