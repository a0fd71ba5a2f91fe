package model

import "github.com/shopspring/decimal"

// CartLine is one product in the in-memory cart. Product is the snapshot taken
// when the line was last touched; its Stock bounds Quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is quantity × unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.PriceDecimal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal sums line subtotals.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
