package backend

import "encoding/json"

// Order statuses as owned by the backend. Transitions are monotonic; the
// gateway only ever requests the next forward step.
const (
	StatusNew      = "NEW"
	StatusAccepted = "ACCEPTED"
	StatusReady    = "READY"
)

// KnownStatus reports whether s is a status the lifecycle understands.
func KnownStatus(s string) bool {
	switch s {
	case StatusNew, StatusAccepted, StatusReady:
		return true
	}
	return false
}

// NextStatus returns the forward transition target for a status, if any.
func NextStatus(s string) (string, bool) {
	switch s {
	case StatusNew:
		return StatusAccepted, true
	case StatusAccepted:
		return StatusReady, true
	}
	return "", false
}

// Order is the canonical order read by the staff view. The backend owns
// order contents; the gateway only reads them and requests status
// transitions.
type Order struct {
	OrderID   int64      `json:"orderId"`
	TableNo   string     `json:"tableNo"`
	CreatedAt string     `json:"createdAt"`
	Note      string     `json:"note,omitempty"`
	Items     []LineView `json:"items"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
}

// UnmarshalJSON adapts the backend wire shape (tableId, totalPrice,
// orderStatus, orderItems) as well as already-canonical keys, so the same
// model decodes responses from every observed endpoint.
func (o *Order) UnmarshalJSON(data []byte) error {
	var wire struct {
		OrderID     int64      `json:"orderId"`
		TableID     string     `json:"tableId"`
		TableNo     string     `json:"tableNo"`
		CreatedAt   string     `json:"createdAt"`
		Note        string     `json:"note"`
		Notes       string     `json:"notes"`
		OrderItems  []LineView `json:"orderItems"`
		Items       []LineView `json:"items"`
		TotalPrice  *float64   `json:"totalPrice"`
		Total       *float64   `json:"total"`
		OrderStatus string     `json:"orderStatus"`
		Status      string     `json:"status"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	o.OrderID = wire.OrderID
	o.CreatedAt = wire.CreatedAt

	o.TableNo = wire.TableNo
	if o.TableNo == "" {
		o.TableNo = wire.TableID
	}

	o.Note = wire.Note
	if o.Note == "" {
		o.Note = wire.Notes
	}

	o.Items = wire.Items
	if o.Items == nil {
		o.Items = wire.OrderItems
	}

	switch {
	case wire.Total != nil:
		o.Total = *wire.Total
	case wire.TotalPrice != nil:
		o.Total = *wire.TotalPrice
	}

	o.Status = wire.Status
	if o.Status == "" {
		o.Status = wire.OrderStatus
	}
	return nil
}

// LineView is one order line as shown to staff.
type LineView struct {
	ItemID       int64   `json:"itemId"`
	ItemName     string  `json:"itemName"`
	UnitPrice    float64 `json:"unitPrice"`
	Qty          int     `json:"qty"`
	CustomerName string  `json:"customerName,omitempty"`
	ChosenOption string  `json:"chosenOption,omitempty"`
	ChosenNote   string  `json:"chosenNote,omitempty"`
}

// UnmarshalJSON accepts both observed backend item shapes: the pre-joined
// DTO with flat menuItemId/itemName/unitPrice/quantity fields, and the
// legacy shape nesting a menuItem object. Flat fields win; the nested
// object only fills gaps.
func (lv *LineView) UnmarshalJSON(data []byte) error {
	var wire struct {
		MenuItemID   *int64   `json:"menuItemId"`
		ItemID       *int64   `json:"itemId"`
		ItemName     string   `json:"itemName"`
		UnitPrice    *float64 `json:"unitPrice"`
		Quantity     *int     `json:"quantity"`
		Qty          *int     `json:"qty"`
		CustomerName string   `json:"customerName"`
		ChosenOption string   `json:"chosenOption"`
		ChosenNote   string   `json:"chosenNote"`
		NotesText    string   `json:"notesText"`
		MenuItem     *struct {
			ItemID    int64   `json:"itemId"`
			ItemName  string  `json:"itemName"`
			ItemPrice float64 `json:"itemPrice"`
		} `json:"menuItem"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.MenuItemID != nil:
		lv.ItemID = *wire.MenuItemID
	case wire.ItemID != nil:
		lv.ItemID = *wire.ItemID
	case wire.MenuItem != nil:
		lv.ItemID = wire.MenuItem.ItemID
	}

	lv.ItemName = wire.ItemName
	if lv.ItemName == "" && wire.MenuItem != nil {
		lv.ItemName = wire.MenuItem.ItemName
	}

	switch {
	case wire.UnitPrice != nil:
		lv.UnitPrice = *wire.UnitPrice
	case wire.MenuItem != nil:
		lv.UnitPrice = wire.MenuItem.ItemPrice
	}

	switch {
	case wire.Qty != nil:
		lv.Qty = *wire.Qty
	case wire.Quantity != nil:
		lv.Qty = *wire.Quantity
	}

	lv.CustomerName = wire.CustomerName
	lv.ChosenOption = wire.ChosenOption

	lv.ChosenNote = wire.ChosenNote
	if lv.ChosenNote == "" {
		lv.ChosenNote = wire.NotesText
	}
	return nil
}

// CreateOrderRequest is the submission payload for POST /api/orders.
type CreateOrderRequest struct {
	TableID    string            `json:"tableId"`
	Items      []CreateOrderItem `json:"items"`
	Notes      *string           `json:"notes"`
	TotalPrice float64           `json:"totalPrice"`
}

type CreateOrderItem struct {
	MenuItemID   int64    `json:"menuItemId"`
	Quantity     int      `json:"quantity"`
	CustomerName *string  `json:"customerName"`
	ChosenOption *string  `json:"chosenOption"`
	Notes        []string `json:"notes"`
}
