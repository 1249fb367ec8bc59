package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// maxNumberLen bounds the text of a numeric price.
const maxNumberLen = 64

// Price is the order price as submitted by the storefront: either a JSON
// number or a JSON string. Numbers keep the exact text the client sent; the
// parsed amount is only used for the zero check.
type Price struct {
	text    string
	amount  decimal.Decimal
	numeric bool
}

// NewTextPrice returns a price submitted as a string.
func NewTextPrice(s string) Price { return Price{text: s} }

// NewNumericPrice returns a price submitted as a number.
func NewNumericPrice(d decimal.Decimal) Price {
	return Price{text: d.String(), amount: d, numeric: true}
}

// IsSet reports whether the price carries a usable value. Zero and the empty
// string count as missing.
func (p Price) IsSet() bool {
	if p.numeric {
		return !p.amount.IsZero()
	}
	return p.text != ""
}

// IsNumeric reports whether the price was submitted as a JSON number.
func (p Price) IsNumeric() bool { return p.numeric }

// String returns the price exactly as submitted.
func (p Price) String() string { return p.text }

// UnmarshalJSON accepts a string, a number or null.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*p = Price{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		*p = NewTextPrice(s)
	default:
		if len(b) > maxNumberLen {
			return fmt.Errorf("price: number longer than %d characters", maxNumberLen)
		}
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("price must be a string or a number, got %s", b)
		}
		*p = Price{text: string(b), amount: d, numeric: true}
	}
	return nil
}

// MarshalJSON writes the price back in the form it was received.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.numeric {
		return []byte(p.text), nil
	}
	return json.Marshal(p.text)
}
