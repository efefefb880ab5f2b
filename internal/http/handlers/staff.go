package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/internal/lifecycle"
	"camellia-order-gateway/pkg/response"
)

type staffSnapshot struct {
	Orders      []backend.Order `json:"orders"`
	Status      string          `json:"status"`
	Count       int             `json:"count"`
	LastUpdated *time.Time      `json:"lastUpdated"`
	Error       string          `json:"error,omitempty"`
}

// StaffOrders serves the poll controller's latest consistent snapshot. A
// failed poll keeps the previous order list and carries the error message
// alongside it.
func (h *Handler) StaffOrders(w http.ResponseWriter, r *http.Request) {
	snap := h.Sync.Snapshot()

	out := staffSnapshot{
		Orders: snap.Orders,
		Status: snap.Filter,
		Count:  len(snap.Orders),
	}
	if !snap.LastUpdated.IsZero() {
		t := snap.LastUpdated
		out.LastUpdated = &t
	}
	if snap.Err != nil {
		out.Error = "Failed to load orders. Please try again."
	}
	response.Success(w, out)
}

// StaffFilter restarts the poll cycle against a new status filter.
func (h *Handler) StaffFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !backend.KnownStatus(body.Status) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
		return
	}

	h.Sync.SetFilter(body.Status)
	response.Success(w, map[string]string{"status": body.Status})
}

// StaffOrderAccept moves a new order to ACCEPTED.
func (h *Handler) StaffOrderAccept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, backend.StatusAccepted)
}

// StaffOrderReady moves an accepted order to READY.
func (h *Handler) StaffOrderReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, backend.StatusReady)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, target string) {
	orderID, err := readPathInt64(r, "orderId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Order ID is required")
		return
	}

	updated, err := h.Actions.Transition(r.Context(), orderID, target)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrTransitionPending):
			response.Error(w, http.StatusConflict, "TRANSITION_PENDING", "A transition for this order is already in progress")
		case errors.Is(err, lifecycle.ErrUnknownStatus):
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
		default:
			message := "Failed to update order status. Please try again."
			var trErr *backend.TransitionError
			if errors.As(err, &trErr) && trErr.Message != "" {
				message = trErr.Message
			}
			response.Error(w, http.StatusBadGateway, "TRANSITION_FAILED", message)
		}
		return
	}
	response.Success(w, updated)
}
