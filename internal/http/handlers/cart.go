package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/internal/cart"
	"camellia-order-gateway/internal/menu"
	"camellia-order-gateway/pkg/response"

	"go.uber.org/zap"
)

type cartView struct {
	CartID  string      `json:"cartId"`
	TableID string      `json:"tableId"`
	Note    string      `json:"note"`
	Lines   []cart.Line `json:"lines"`
	Total   float64     `json:"total"`
}

func buildCartView(id string, c *cart.Cart) cartView {
	tableID, note := c.Details()
	return cartView{
		CartID:  id,
		TableID: tableID,
		Note:    note,
		Lines:   c.Lines(),
		Total:   math.Round(c.Total()*100) / 100,
	}
}

// CartCreate opens a new cart session.
func (h *Handler) CartCreate(w http.ResponseWriter, r *http.Request) {
	id, c := h.Carts.Create()
	response.Created(w, buildCartView(id, c))
}

// CartGet returns the session's lines and rounded total.
func (h *Handler) CartGet(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookupCart(w, r)
	if !ok {
		return
	}
	response.Success(w, buildCartView(id, c))
}

// CartUpdate sets the table identifier and the free-text order note.
func (h *Handler) CartUpdate(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookupCart(w, r)
	if !ok {
		return
	}

	var body struct {
		TableID *string `json:"tableId"`
		Note    *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	c.SetDetails(body.TableID, body.Note)
	response.Success(w, buildCartView(id, c))
}

// CartDelete discards a session entirely, used when a customer abandons
// the order instead of submitting it.
func (h *Handler) CartDelete(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.lookupCart(w, r)
	if !ok {
		return
	}
	h.Carts.Delete(id)
	response.Success(w, map[string]string{"cartId": id})
}

// CartAddItem prices a selection against the live menu and merges the
// resulting line into the cart.
func (h *Handler) CartAddItem(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookupCart(w, r)
	if !ok {
		return
	}

	var body struct {
		ItemID       menu.ID  `json:"itemId"`
		OptionName   string   `json:"optionName"`
		NoteNames    []string `json:"noteNames"`
		CustomerName string   `json:"customerName"`
		Quantity     int      `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	items, err := h.Backend.FetchMenu(r.Context())
	if err != nil {
		h.Logger.Warn("menu fetch failed", zap.Error(err))
		response.Error(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to load menu")
		return
	}

	item, found := menu.FindItem(items, body.ItemID)
	if !found {
		response.Error(w, http.StatusBadRequest, "INVALID_ITEM", "Menu item not found")
		return
	}

	line, err := cart.NewLine(item, cart.Selection{
		OptionName:   body.OptionName,
		NoteNames:    body.NoteNames,
		CustomerName: body.CustomerName,
		Qty:          body.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrSoldOut):
			response.Error(w, http.StatusBadRequest, "INVALID_ITEM", "Item is sold out")
		case errors.Is(err, cart.ErrUnknownOption):
			response.Error(w, http.StatusBadRequest, "INVALID_ITEM", "Option is not offered by this item")
		default:
			response.Error(w, http.StatusBadRequest, "INVALID_ITEM", "Invalid menu item")
		}
		return
	}

	c.Add(line)
	response.Success(w, buildCartView(id, c))
}

// CartUpdateItemQty adjusts quantity. Without a selection in the body it
// applies to every line of the item; with one it addresses the single
// matching line. Zero or less removes the line(s).
func (h *Handler) CartUpdateItemQty(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookupCart(w, r)
	if !ok {
		return
	}

	itemID := menu.ID(readPathString(r, "itemId"))
	var body struct {
		Quantity     int       `json:"quantity"`
		OptionName   *string   `json:"optionName"`
		NoteNames    *[]string `json:"noteNames"`
		CustomerName *string   `json:"customerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var matched bool
	if body.OptionName != nil || body.NoteNames != nil || body.CustomerName != nil {
		optionName := ""
		if body.OptionName != nil {
			optionName = *body.OptionName
		}
		var noteNames []string
		if body.NoteNames != nil {
			noteNames = *body.NoteNames
		}
		customerName := ""
		if body.CustomerName != nil {
			customerName = *body.CustomerName
		}

		line, found := c.FindLine(itemID, optionName, noteNames, customerName)
		if found {
			matched = c.SetLineQuantity(line.Identity(), body.Quantity)
		}
	} else {
		matched = c.SetQuantity(itemID, body.Quantity)
	}

	if !matched {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "No matching cart line")
		return
	}
	response.Success(w, buildCartView(id, c))
}

// CartSubmit validates the cart locally, submits it to the order store and
// clears the lines and note on success. Invalid items never reach the
// backend.
func (h *Handler) CartSubmit(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookupCart(w, r)
	if !ok {
		return
	}

	payload, err := c.Payload()
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			response.Error(w, http.StatusBadRequest, "EMPTY_CART", "Cart is empty")
		case errors.Is(err, cart.ErrInvalidItem):
			response.Error(w, http.StatusBadRequest, "INVALID_ITEM", "Invalid menu item in cart")
		default:
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		}
		return
	}

	created, err := h.Backend.CreateOrder(r.Context(), payload)
	if err != nil {
		var subErr *backend.SubmissionError
		message := "Order submission failed"
		if errors.As(err, &subErr) && subErr.Message != "" {
			message = subErr.Message
		}
		h.Logger.Warn("order submission failed", zap.String("cartId", id), zap.Error(err))
		response.Error(w, http.StatusBadGateway, "SUBMISSION_FAILED", message)
		return
	}

	c.Clear()
	response.Created(w, created)
}

func (h *Handler) lookupCart(w http.ResponseWriter, r *http.Request) (string, *cart.Cart, bool) {
	id := readPathString(r, "cartId")
	c, ok := h.Carts.Get(id)
	if !ok {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Cart session not found")
		return "", nil, false
	}
	return id, c, true
}
