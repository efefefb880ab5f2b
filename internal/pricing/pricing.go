// Package pricing holds the price/option model shared by the menu, the cart
// and the order views. The backend serves option and note catalogs as JSON
// objects keyed by name; a customer-facing list must render deterministically,
// so the object is converted exactly once, here, into an ordered list.
package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Pair is one named price entry, e.g. {"Chicken", 8.99}.
type Pair struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PriceList is an ordered list of name/price pairs. Order matches the
// insertion order of the source document.
type PriceList []Pair

// UnmarshalJSON accepts either the backend's map shape ({"Chicken": 8.99})
// or the already-normalized array shape ([{"name":...,"price":...}]).
// Map keys keep document order. Unparseable prices coerce to 0.
func (pl *PriceList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*pl = PriceList{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var pairs []Pair
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return err
		}
		*pl = pairs
		return nil
	case '{':
		return pl.decodeObject(trimmed)
	default:
		return fmt.Errorf("pricing: cannot decode %q into a price list", string(trimmed))
	}
}

func (pl *PriceList) decodeObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return err
	}

	out := PriceList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("pricing: unexpected key token %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := valTok.(json.Delim); ok && (d == '{' || d == '[') {
			// Nested value; consume it fully so the loop stays on
			// top-level keys. Coerces to 0 like any non-price value.
			if err := skipNested(dec); err != nil {
				return err
			}
			out = append(out, Pair{Name: name, Price: 0})
			continue
		}
		out = append(out, Pair{Name: name, Price: coercePrice(valTok)})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*pl = out
	return nil
}

// skipNested consumes the remainder of a compound value whose opening
// delimiter has already been read.
func skipNested(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// MarshalJSON always emits the array shape.
func (pl PriceList) MarshalJSON() ([]byte, error) {
	if pl == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Pair(pl))
}

// Find returns the pair with the given name.
func (pl PriceList) Find(name string) (Pair, bool) {
	for _, p := range pl {
		if p.Name == name {
			return p, true
		}
	}
	return Pair{}, false
}

// Sum returns the sum of all prices in the list.
func (pl PriceList) Sum() float64 {
	var total float64
	for _, p := range pl {
		total += p.Price
	}
	return total
}

// Equal reports structural equality of two lists, order included.
func (pl PriceList) Equal(other PriceList) bool {
	if len(pl) != len(other) {
		return false
	}
	for i := range pl {
		if pl[i] != other[i] {
			return false
		}
	}
	return true
}

func coercePrice(tok json.Token) float64 {
	switch v := tok.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	default:
		return 0
	}
}
