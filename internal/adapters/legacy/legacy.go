// Package legacy speaks the older storefront wire format, where every field
// carries its entity prefix (productId, customerEmail, ...). It maps those
// shapes to and from the domain types and holds no behaviour of its own.
package legacy

import (
	"github.com/shopspring/decimal"

	"go-storefront/internal/domain"
)

type ApiProduct struct {
	ProductID          string              `json:"productId"`
	ProductDescription string              `json:"productDescription"`
	ProductImage       string              `json:"productImage"`
	ProductTitle       string              `json:"productTitle"`
	ProductCategory    string              `json:"productCategory"`
	ProductPrice       decimal.NullDecimal `json:"productPrice"`
}

type ApiProductList struct {
	TotalCount   int          `json:"totalCount"`
	ProductItems []ApiProduct `json:"productItems"`
}

type ApiCustomerData struct {
	PaymentMethod   string `json:"paymentMethod"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
}

type ApiOrderRequest struct {
	ApiCustomerData
	OrderTotal decimal.Decimal `json:"orderTotal"`
	ProductIDs []string        `json:"productIds"`
}

type ApiOrderResponse struct {
	OrderID        string          `json:"orderId"`
	ConfirmedTotal decimal.Decimal `json:"confirmedTotal"`
}

type ApiOrderError struct {
	ErrorMessage string `json:"errorMessage"`
}

// UiOrder is the order as the legacy front-end kept it.
type UiOrder struct {
	OrderedProducts []ApiProduct    `json:"orderedProducts"`
	CustomerInfo    ApiCustomerData `json:"customerInfo"`
	OrderTotal      decimal.Decimal `json:"orderTotal"`
}

func FromProduct(p domain.Product) ApiProduct {
	return ApiProduct{
		ProductID:          p.ID,
		ProductDescription: p.Description,
		ProductImage:       p.Image,
		ProductTitle:       p.Title,
		ProductCategory:    p.Category,
		ProductPrice:       p.Price,
	}
}

func (p ApiProduct) Domain() domain.Product {
	return domain.Product{
		ID:          p.ProductID,
		Title:       p.ProductTitle,
		Category:    p.ProductCategory,
		Description: p.ProductDescription,
		Image:       p.ProductImage,
		Price:       p.ProductPrice,
	}
}

func fromProducts(products []domain.Product) []ApiProduct {
	out := make([]ApiProduct, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}

	return out
}

func toProducts(products []ApiProduct) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.Domain())
	}

	return out
}

func FromProductList(l domain.ProductList) ApiProductList {
	return ApiProductList{
		TotalCount:   l.Total,
		ProductItems: fromProducts(l.Items),
	}
}

func (l ApiProductList) Domain() domain.ProductList {
	return domain.ProductList{
		Total: l.TotalCount,
		Items: toProducts(l.ProductItems),
	}
}

func FromCustomerData(c domain.CustomerData) ApiCustomerData {
	return ApiCustomerData{
		PaymentMethod:   c.Payment,
		CustomerEmail:   c.Email,
		CustomerPhone:   c.Phone,
		CustomerAddress: c.Address,
	}
}

func (c ApiCustomerData) Domain() domain.CustomerData {
	return domain.CustomerData{
		Payment: c.PaymentMethod,
		Email:   c.CustomerEmail,
		Phone:   c.CustomerPhone,
		Address: c.CustomerAddress,
	}
}

func FromOrderRequest(r domain.OrderRequest) ApiOrderRequest {
	return ApiOrderRequest{
		ApiCustomerData: FromCustomerData(r.CustomerData),
		OrderTotal:      r.Total,
		ProductIDs:      r.Items,
	}
}

func (r ApiOrderRequest) Domain() domain.OrderRequest {
	return domain.OrderRequest{
		CustomerData: r.ApiCustomerData.Domain(),
		Total:        r.OrderTotal,
		Items:        r.ProductIDs,
	}
}

func FromOrderResult(r domain.OrderResult) ApiOrderResponse {
	return ApiOrderResponse{OrderID: r.ID, ConfirmedTotal: r.Total}
}

func (r ApiOrderResponse) Domain() domain.OrderResult {
	return domain.OrderResult{ID: r.OrderID, Total: r.ConfirmedTotal}
}

func FromOrderError(e domain.OrderError) ApiOrderError {
	return ApiOrderError{ErrorMessage: e.Error}
}

func (e ApiOrderError) Domain() domain.OrderError {
	return domain.OrderError{Error: e.ErrorMessage}
}

func FromOrder(o *domain.Order) UiOrder {
	return UiOrder{
		OrderedProducts: fromProducts(o.Products),
		CustomerInfo:    FromCustomerData(o.Customer),
		OrderTotal:      o.Total,
	}
}

// Domain rebuilds an unsaved order; the legacy shape has no id or timestamp.
func (o UiOrder) Domain() *domain.Order {
	return &domain.Order{
		Products: toProducts(o.OrderedProducts),
		Customer: o.CustomerInfo.Domain(),
		Total:    o.OrderTotal,
	}
}
