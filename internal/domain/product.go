// Package domain holds the storefront data model.
//
// Prices and totals are shopspring/decimal values sent as JSON numbers.
// Importing this package sets decimal.MarshalJSONWithoutQuotes for the whole
// process, so every decimal marshalled anywhere in the binary is unquoted.
package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog item. A null Price means the product has no known
// price and cannot be ordered.
type Product struct {
	ID          string              `json:"id" db:"id"`
	Title       string              `json:"title" db:"title"`
	Category    string              `json:"category" db:"category"`
	Description string              `json:"description" db:"description"`
	Image       string              `json:"image" db:"image"`
	Price       decimal.NullDecimal `json:"price" db:"price"`
}

// Priced reports whether the product carries a price.
func (p Product) Priced() bool {
	return p.Price.Valid
}

// ProductView decorates a product with presentation-only fields.
type ProductView struct {
	Product
	Index       int    `json:"index,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty"`
}

// ProductList is the envelope returned by the catalog listing.
type ProductList struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// NewProductList wraps items in an envelope whose Total matches.
func NewProductList(items []Product) ProductList {
	if items == nil {
		items = []Product{}
	}

	return ProductList{Total: len(items), Items: items}
}

// Consistent reports whether Total matches the number of items.
func (l ProductList) Consistent() bool {
	return l.Total == len(l.Items)
}

// Price builds a non-null price from a string such as "1450" or "19.99".
func Price(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

// SumPrices folds the prices of products. Unpriced products contribute zero.
func SumPrices(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		if p.Price.Valid {
			total = total.Add(p.Price.Decimal)
		}
	}

	return total
}
