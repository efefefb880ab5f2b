// Package cart implements the order-cart aggregation engine: line pricing,
// identity-based merging and submission payload assembly.
package cart

import (
	"errors"
	"math"
	"sync"

	"camellia-order-gateway/internal/backend"
	"camellia-order-gateway/internal/menu"
	"camellia-order-gateway/internal/pricing"
)

var (
	ErrSoldOut       = errors.New("cart: item is sold out")
	ErrInvalidItem   = errors.New("cart: invalid menu item")
	ErrUnknownOption = errors.New("cart: option not offered by item")
	ErrEmptyCart     = errors.New("cart: cart is empty")
)

// Selection is what the customer picked when adding an item.
type Selection struct {
	OptionName   string
	NoteNames    []string
	CustomerName string
	Qty          int
}

// Line is one cart entry. UnitPrice is computed when the line is built and
// frozen afterwards; later menu price changes never reprice existing lines.
type Line struct {
	ItemID        menu.ID           `json:"itemId"`
	ItemName      string            `json:"itemName"`
	BasePriceUsed float64           `json:"basePriceUsed"`
	Option        *pricing.Pair     `json:"selectedOption"`
	Notes         pricing.PriceList `json:"selectedNotes"`
	CustomerName  string            `json:"customerName,omitempty"`
	UnitPrice     float64           `json:"computedUnitPrice"`
	Qty           int               `json:"qty"`
}

// NewLine prices a selection against a menu item. Sold-out items are
// rejected. When an option is named it must be one the item offers; note
// names the item does not list are carried at price 0, mirroring the
// backend's pricing rules.
func NewLine(item menu.Item, sel Selection) (Line, error) {
	if item.Soldout {
		return Line{}, ErrSoldOut
	}

	qty := sel.Qty
	if qty < 1 {
		qty = 1
	}

	base := item.ItemPrice
	var option *pricing.Pair
	if sel.OptionName != "" {
		pair, ok := item.Options.Find(sel.OptionName)
		if !ok {
			return Line{}, ErrUnknownOption
		}
		option = &pair
		base = pair.Price
	}

	notes := pricing.PriceList{}
	for _, name := range sel.NoteNames {
		if name == "" {
			continue
		}
		pair, ok := item.Notes.Find(name)
		if !ok {
			pair = pricing.Pair{Name: name, Price: 0}
		}
		notes = append(notes, pair)
	}

	return Line{
		ItemID:        item.ItemID,
		ItemName:      item.ItemName,
		BasePriceUsed: base,
		Option:        option,
		Notes:         notes,
		CustomerName:  sel.CustomerName,
		UnitPrice:     base + notes.Sum(),
		Qty:           qty,
	}, nil
}

// Identity is the merge key: two additions collapse into one line iff every
// field of the tuple compares equal, option and notes by structure.
type Identity struct {
	ItemID       menu.ID
	Option       *pricing.Pair
	Notes        pricing.PriceList
	CustomerName string
}

func (l Line) Identity() Identity {
	return Identity{ItemID: l.ItemID, Option: l.Option, Notes: l.Notes, CustomerName: l.CustomerName}
}

func (id Identity) Equal(other Identity) bool {
	if id.ItemID != other.ItemID || id.CustomerName != other.CustomerName {
		return false
	}
	if (id.Option == nil) != (other.Option == nil) {
		return false
	}
	if id.Option != nil && *id.Option != *other.Option {
		return false
	}
	return id.Notes.Equal(other.Notes)
}

// Cart is one customer's in-progress order. Methods are safe for use from
// concurrent requests against the same session.
type Cart struct {
	mu      sync.Mutex
	lines   []Line
	tableID string
	note    string
}

// SetDetails updates the table identifier and the free-text order note.
// A nil field leaves the current value unchanged.
func (c *Cart) SetDetails(tableID, note *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tableID != nil {
		c.tableID = *tableID
	}
	if note != nil {
		c.note = *note
	}
}

// Details returns the table identifier and the order note.
func (c *Cart) Details() (tableID, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tableID, c.note
}

// Add merges the line into an existing one with the same identity tuple,
// summing quantities, or appends it. First-add order is preserved.
func (c *Cart) Add(line Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := line.Identity()
	for i := range c.lines {
		if c.lines[i].Identity().Equal(id) {
			c.lines[i].Qty += line.Qty
			return
		}
	}
	c.lines = append(c.lines, line)
}

// SetQuantity adjusts every line carrying the given item id. A quantity of
// zero or less removes those lines entirely. Reports whether any line
// matched.
func (c *Cart) SetQuantity(itemID menu.ID, qty int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := false
	if qty <= 0 {
		kept := c.lines[:0]
		for _, l := range c.lines {
			if l.ItemID == itemID {
				matched = true
				continue
			}
			kept = append(kept, l)
		}
		c.lines = kept
		return matched
	}

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Qty = qty
			matched = true
		}
	}
	return matched
}

// SetLineQuantity adjusts the single line matching the full identity tuple,
// removing it when qty is zero or less. Reports whether a line matched.
func (c *Cart) SetLineQuantity(id Identity, qty int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if !c.lines[i].Identity().Equal(id) {
			continue
		}
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Qty = qty
		}
		return true
	}
	return false
}

// FindLine returns the first line matching the named selection, used to
// address one line of an item when several selections of it coexist.
func (c *Cart) FindLine(itemID menu.ID, optionName string, noteNames []string, customerName string) (Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.ItemID != itemID || l.CustomerName != customerName {
			continue
		}
		if optionName == "" && l.Option != nil {
			continue
		}
		if optionName != "" && (l.Option == nil || l.Option.Name != optionName) {
			continue
		}
		if !sameNames(l.Notes, noteNames) {
			continue
		}
		return l, true
	}
	return Line{}, false
}

func sameNames(notes pricing.PriceList, names []string) bool {
	if len(notes) != len(names) {
		return false
	}
	for i := range notes {
		if notes[i].Name != names[i] {
			return false
		}
	}
	return true
}

// Total sums unit price times quantity over all lines. No intermediate
// rounding; callers round at the display or submission boundary.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Cart) totalLocked() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.UnitPrice * float64(l.Qty)
	}
	return total
}

// Lines returns a snapshot copy of the cart's lines in display order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear drops all lines and the order note after a successful submission.
// The table identifier survives for the next order from the same station.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.note = ""
}

// Payload builds the backend submission request. Every line must resolve a
// numeric menu item id; a sold-out or malformed line fails locally with
// ErrInvalidItem before any network traffic. The aggregate total is the
// cart total rounded to two decimals; line order is preserved.
func (c *Cart) Payload() (backend.CreateOrderRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return backend.CreateOrderRequest{}, ErrEmptyCart
	}

	items := make([]backend.CreateOrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		menuItemID, err := l.ItemID.Int64()
		if err != nil {
			return backend.CreateOrderRequest{}, ErrInvalidItem
		}

		item := backend.CreateOrderItem{
			MenuItemID: menuItemID,
			Quantity:   l.Qty,
			Notes:      noteNames(l.Notes),
		}
		if l.CustomerName != "" {
			item.CustomerName = &l.CustomerName
		}
		if l.Option != nil {
			item.ChosenOption = &l.Option.Name
		}
		items = append(items, item)
	}

	req := backend.CreateOrderRequest{
		TableID:    c.tableID,
		Items:      items,
		TotalPrice: math.Round(c.totalLocked()*100) / 100,
	}
	if c.note != "" {
		note := c.note
		req.Notes = &note
	}
	return req, nil
}

func noteNames(notes pricing.PriceList) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Name)
	}
	return out
}
