package handler

import (
	"context"
	"net/http"
)

// Resetter empties the store.
type Resetter interface {
	Reset(ctx context.Context) error
}

// ResetHandler wipes all data between end-to-end test runs.
type ResetHandler struct {
	store   Resetter
	enabled bool
}

// NewResetHandler creates a ResetHandler. Requests are refused unless
// enabled is set.
func NewResetHandler(store Resetter, enabled bool) *ResetHandler {
	return &ResetHandler{store: store, enabled: enabled}
}

// HandleReset deletes every item and category.
// POST /api/test/reset
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		writeError(w, http.StatusForbidden, "This endpoint is only for testing purposes.")
		return
	}
	if err := h.store.Reset(r.Context()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
