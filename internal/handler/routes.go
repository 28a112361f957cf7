package handler

import (
	"net/http"
)

// Handlers groups the endpoint handlers mounted by RegisterRoutes.
type Handlers struct {
	Items       *ItemHandler
	Categories  *CategoryHandler
	Suggestions *SuggestHandler
	Reset       *ResetHandler
	// UploadsDir is served under /uploads/ when non-empty.
	UploadsDir string
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /health", HandleHealth)

	mux.HandleFunc("GET /api/items", h.Items.HandleList)
	mux.HandleFunc("POST /api/items", h.Items.HandleCreate)
	mux.HandleFunc("PUT /api/items/{id}", h.Items.HandleUpdate)
	mux.HandleFunc("DELETE /api/items/{id}", h.Items.HandleDelete)

	mux.HandleFunc("GET /api/categories", h.Categories.HandleList)
	mux.HandleFunc("POST /api/categories", h.Categories.HandleCreate)
	mux.HandleFunc("PUT /api/categories/{id}", h.Categories.HandleRename)
	mux.HandleFunc("DELETE /api/categories/{id}", h.Categories.HandleDelete)

	if h.Suggestions != nil {
		mux.HandleFunc("POST /api/ai/suggest-name", h.Suggestions.HandleSuggest)
	}
	if h.Reset != nil {
		mux.HandleFunc("POST /api/test/reset", h.Reset.HandleReset)
	}
	if h.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadsDir))))
	}
}
