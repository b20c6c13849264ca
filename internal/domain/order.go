package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerData is the payment and contact data attached to an order.
type CustomerData struct {
	Payment string `json:"payment" db:"payment"`
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
	Address string `json:"address" db:"address"`
}

// OrderForm is the subset of customer fields collected from the buyer.
type OrderForm struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderRequest is the body of an order submission: customer data, the
// expected total and the ids of the ordered products.
type OrderRequest struct {
	CustomerData
	Total decimal.Decimal `json:"total"`
	Items []string        `json:"items"`
}

// OrderResult is returned when an order has been accepted.
type OrderResult struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// OrderError is the payload of a rejected order submission.
type OrderError struct {
	Error string `json:"error"`
}

// Order is an accepted basket together with its customer data.
type Order struct {
	ID        string          `json:"id"`
	Products  []Product       `json:"products"`
	Customer  CustomerData    `json:"customer"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProductIDs returns the ids of the ordered products in order.
func (o *Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}

	return ids
}

// Result is the confirmation sent back to the buyer.
func (o *Order) Result() OrderResult {
	return OrderResult{ID: o.ID, Total: o.Total}
}
