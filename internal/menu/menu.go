// Package menu models the read-only menu served by the backend order store.
package menu

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"camellia-order-gateway/internal/pricing"
)

var ErrNonNumericID = errors.New("menu: item id is not numeric")

// ID is a menu item identifier as received from the backend. The backend
// shape is duck-typed, so an ID decodes from a JSON number or a string and
// is only resolved to a numeric id at the submission boundary.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := id.Int64(); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

// Int64 resolves the id to its numeric form. Absent or non-numeric ids
// fail with ErrNonNumericID.
func (id ID) Int64() (int64, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return 0, ErrNonNumericID
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNonNumericID
	}
	return n, nil
}

func (id ID) String() string { return string(id) }

// Item is one menu entry. Options and Notes arrive as name->price objects
// and are normalized into ordered lists by pricing.PriceList.
type Item struct {
	ItemID    ID                `json:"itemId"`
	ItemName  string            `json:"itemName"`
	ItemPrice float64           `json:"itemPrice"`
	Soldout   bool              `json:"soldout"`
	Options   pricing.PriceList `json:"options"`
	Notes     pricing.PriceList `json:"notes"`
}

// FindItem returns the item with the given id.
func FindItem(items []Item, id ID) (Item, bool) {
	for _, it := range items {
		if it.ItemID == id {
			return it, true
		}
	}
	return Item{}, false
}
