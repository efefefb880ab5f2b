package handlers

import (
	"net/http"

	"camellia-order-gateway/pkg/response"

	"go.uber.org/zap"
)

// Menu serves the backend menu with option and note catalogs normalized
// into ordered lists, so every consumer renders the same shape.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Backend.FetchMenu(r.Context())
	if err != nil {
		h.Logger.Warn("menu fetch failed", zap.Error(err))
		response.Error(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to load menu")
		return
	}
	response.Success(w, items)
}
