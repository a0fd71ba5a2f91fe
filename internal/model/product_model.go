package model

import (
	"strconv"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Categories  []string `json:"categories"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Stock       int      `json:"stock"`
}

func (p Product) Key() string { return p.ID }

// PriceDecimal is the unit price as an exact decimal. Round only for display.
func (p Product) PriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.Price)
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Invalid("name", "is required")
	}
	if p.Price < 0 {
		return apperr.Invalid("price", "must be >= 0")
	}
	if p.Stock < 0 {
		return apperr.Invalid("stock", "must be >= 0")
	}
	return nil
}

// Matches is a case-insensitive substring match over name, description and categories.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if containsFold(p.Name, q) || containsFold(p.Description, q) {
		return true
	}
	for _, c := range p.Categories {
		if containsFold(c, q) {
			return true
		}
	}
	return false
}

// ParsePrice parses user input such as "19.99" or "19,99".
func ParsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return 0, apperr.Invalid("price", "is not a number")
	}
	if d.IsNegative() {
		return 0, apperr.Invalid("price", "must be >= 0")
	}
	return d.Round(2).InexactFloat64(), nil
}

func ParseStock(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, apperr.Invalid("stock", "is not an integer")
	}
	if n < 0 {
		return 0, apperr.Invalid("stock", "must be >= 0")
	}
	return n, nil
}
