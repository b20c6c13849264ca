// Package basket holds the buyer-side application state: the catalog
// snapshot a buyer browses, the basket being filled and the order form
// collected before checkout.
package basket

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"go-storefront/internal/domain"
)

var ErrUnknownField = errors.New("unknown order field")

// OrderField names a field of the order form.
type OrderField string

const (
	FieldPayment OrderField = "payment"
	FieldAddress OrderField = "address"
	FieldEmail   OrderField = "email"
	FieldPhone   OrderField = "phone"
)

const (
	LabelAdd        = "Add to basket"
	LabelRemove     = "Remove from basket"
	LabelNotForSale = "Not for sale"
)

// FormErrors maps an order field to the message shown next to it. An empty
// map means the validated step is complete.
type FormErrors map[OrderField]string

// Form is the order form as filled so far.
type Form struct {
	Payment string `json:"payment"`
	domain.OrderForm
}

// State is the application state of one buyer. It is safe for concurrent use.
type State struct {
	mu             sync.RWMutex
	items          []domain.Product
	basket         []string
	inBasket       map[string]domain.Product
	form           Form
	paymentMethods []string
	checkingOut    bool
}

// NewState creates an empty state accepting the given payment methods.
func NewState(paymentMethods []string) *State {
	return &State{
		inBasket:       make(map[string]domain.Product),
		paymentMethods: paymentMethods,
	}
}

// SetItems replaces the catalog snapshot and re-resolves the basket against
// it. Lines whose product is gone or no longer priced are dropped; the rest
// take the current catalog data.
func (s *State) SetItems(items []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]domain.Product(nil), items...)

	kept := s.basket[:0]
	for _, id := range s.basket {
		product, ok := s.product(id)
		if !ok || !product.Priced() {
			delete(s.inBasket, id)
			continue
		}
		s.inBasket[id] = product
		kept = append(kept, id)
	}
	s.basket = kept
}

// Items returns the catalog snapshot.
func (s *State) Items() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Product(nil), s.items...)
}

// Product looks id up in the catalog snapshot.
func (s *State) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.product(id)
}

func (s *State) product(id string) (domain.Product, bool) {
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}

	return domain.Product{}, false
}

// AddToBasket puts the product with id in the basket. Adding a product that
// is already there changes nothing.
func (s *State) AddToBasket(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.product(id)
	if !ok {
		return domain.ErrProductNotFound
	}
	if !product.Priced() {
		return domain.ErrNotForSale
	}

	if _, exists := s.inBasket[id]; exists {
		return nil
	}

	s.inBasket[id] = product
	s.basket = append(s.basket, id)

	return nil
}

// DeleteFromBasket takes the product with id out of the basket.
func (s *State) DeleteFromBasket(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.inBasket[id]; !exists {
		return
	}

	delete(s.inBasket, id)
	for i, existing := range s.basket {
		if existing == id {
			s.basket = append(s.basket[:i], s.basket[i+1:]...)
			break
		}
	}
}

// ClearBasket empties the basket.
func (s *State) ClearBasket() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.basket = nil
	s.inBasket = make(map[string]domain.Product)
}

// BeginCheckout marks the state as checking out. It returns false when a
// checkout is already running; callers that get true must call EndCheckout.
func (s *State) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkingOut {
		return false
	}
	s.checkingOut = true

	return true
}

func (s *State) EndCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkingOut = false
}

func (s *State) InBasket(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.inBasket[id]

	return exists
}

func (s *State) BasketCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.basket)
}

func (s *State) BasketTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.SumPrices(s.basketProducts())
}

func (s *State) basketProducts() []domain.Product {
	products := make([]domain.Product, 0, len(s.basket))
	for _, id := range s.basket {
		products = append(products, s.inBasket[id])
	}

	return products
}

// Basket returns the basket lines numbered from 1.
func (s *State) Basket() []domain.ProductView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]domain.ProductView, 0, len(s.basket))
	for i, p := range s.basketProducts() {
		lines = append(lines, domain.ProductView{Product: p, Index: i + 1})
	}

	return lines
}

// Card returns the catalog card of a product with the label of the action
// available to the buyer.
func (s *State) Card(id string) (domain.ProductView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.product(id)
	if !ok {
		return domain.ProductView{}, false
	}

	view := domain.ProductView{Product: product}
	switch _, inBasket := s.inBasket[id]; {
	case inBasket:
		view.ButtonLabel = LabelRemove
	case !product.Priced():
		view.ButtonLabel = LabelNotForSale
	default:
		view.ButtonLabel = LabelAdd
	}

	return view, true
}

// SetOrderField stores value and validates the step the field belongs to.
func (s *State) SetOrderField(field OrderField, value string) (FormErrors, error) {
	s.mu.Lock()
	switch field {
	case FieldPayment:
		s.form.Payment = value
	case FieldAddress:
		s.form.Address = value
	case FieldEmail:
		s.form.Email = value
	case FieldPhone:
		s.form.Phone = value
	default:
		s.mu.Unlock()
		return nil, ErrUnknownField
	}
	s.mu.Unlock()

	if field == FieldPayment || field == FieldAddress {
		return s.ValidateOrder(), nil
	}

	return s.ValidateContacts(), nil
}

// Form returns the order form.
func (s *State) Form() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.form
}

// ValidateOrder checks the first checkout step: payment method and address.
func (s *State) ValidateOrder() FormErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()

	errs := FormErrors{}
	if !s.acceptsPayment(s.form.Payment) {
		errs[FieldPayment] = "Choose a payment method"
	}
	if !domain.ValidAddress(s.form.Address) {
		errs[FieldAddress] = "Enter a delivery address"
	}

	return errs
}

// ValidateContacts checks the second checkout step: e-mail and phone.
func (s *State) ValidateContacts() FormErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()

	errs := FormErrors{}
	if !domain.ValidEmail(s.form.Email) {
		errs[FieldEmail] = "Enter a valid e-mail"
	}
	if !domain.ValidPhone(s.form.Phone) {
		errs[FieldPhone] = "Enter a valid phone number"
	}

	return errs
}

func (s *State) acceptsPayment(method string) bool {
	for _, m := range s.paymentMethods {
		if m == method {
			return true
		}
	}

	return false
}

// ClearOrder resets the order form.
func (s *State) ClearOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = Form{}
}

// Order builds the submission for the current basket and form.
func (s *State) Order() domain.OrderRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.OrderRequest{
		CustomerData: domain.CustomerData{
			Payment: s.form.Payment,
			Email:   s.form.Email,
			Phone:   s.form.Phone,
			Address: s.form.Address,
		},
		Total: domain.SumPrices(s.basketProducts()),
		Items: append([]string{}, s.basket...),
	}
}
