package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	orderRepo "go-storefront/internal/adapters/repository/order"
	"go-storefront/internal/domain"
	"go-storefront/internal/services/notification"
	"go-storefront/pkg/diagnostics"
	"go-storefront/pkg/tracing"
)

// Catalog resolves the products named in an order.
type Catalog interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type Service interface {
	// Place validates req against the catalog and stores the order. A
	// rejected submission returns a *domain.ValidationError.
	Place(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	PaymentMethods() []string
}

type service struct {
	repo           orderRepo.Repository
	catalog        Catalog
	tracer         tracing.Tracer
	paymentMethods []string
	now            func() time.Time
}

func NewService(repo orderRepo.Repository, catalog Catalog, tracer tracing.Tracer, paymentMethods []string) Service {
	return &service{
		repo:           repo,
		catalog:        catalog,
		tracer:         tracer,
		paymentMethods: paymentMethods,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Place(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.order.Place")
	defer span.End()

	products, err := s.check(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order := &domain.Order{
		ID:        uuid.New().String(),
		Products:  products,
		Customer:  req.CustomerData,
		Total:     domain.SumPrices(products),
		CreatedAt: s.now(),
	}

	confirmation, err := json.Marshal(notification.ConfirmationMessage{
		OrderID: order.ID,
		Email:   order.Customer.Email,
		Items:   len(order.Products),
		Total:   order.Total,
		Trace:   s.tracer.Inject(ctx),
	})
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, order, &orderRepo.OutboxMessage{
		ID:      uuid.New().String(),
		Topic:   notification.ConfirmationTopic,
		Message: confirmation,
	})
	if err != nil {
		return nil, err
	}

	diagnostics.OrdersPlaced.Inc()
	diagnostics.OrderRevenue.Add(order.Total.InexactFloat64())

	return order, nil
}

// check returns the ordered products when req is acceptable.
func (s *service) check(ctx context.Context, req domain.OrderRequest) ([]domain.Product, error) {
	if len(req.Items) == 0 {
		return nil, reject(domain.ErrEmptyOrder, "order has no items", "empty")
	}

	if !s.acceptsPayment(req.Payment) {
		return nil, reject(domain.ErrInvalidPayment, fmt.Sprintf("unknown payment method %q", req.Payment), "payment")
	}

	switch {
	case !domain.ValidEmail(req.Email):
		return nil, reject(domain.ErrInvalidCustomer, "invalid email", "customer")
	case !domain.ValidPhone(req.Phone):
		return nil, reject(domain.ErrInvalidCustomer, "invalid phone", "customer")
	case !domain.ValidAddress(req.Address):
		return nil, reject(domain.ErrInvalidCustomer, "address is required", "customer")
	}

	products := make([]domain.Product, 0, len(req.Items))
	for _, id := range req.Items {
		product, err := s.catalog.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, reject(domain.ErrProductNotFound, fmt.Sprintf("product with id %s not found", id), "not_found")
			}
			return nil, err
		}

		if !product.Priced() {
			return nil, reject(domain.ErrNotForSale, fmt.Sprintf("product %s is not for sale", id), "not_for_sale")
		}

		products = append(products, *product)
	}

	if total := domain.SumPrices(products); !total.Equal(req.Total) {
		return nil, reject(domain.ErrInvalidTotal, "wrong order total", "total")
	}

	return products, nil
}

func (s *service) acceptsPayment(method string) bool {
	for _, m := range s.paymentMethods {
		if m == method {
			return true
		}
	}

	return false
}

func reject(err error, message, reason string) error {
	diagnostics.OrdersRejected.WithLabelValues(reason).Inc()

	return domain.NewValidationError(err, message)
}

func (s *service) Get(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.order.Get")
	defer span.End()

	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.order.List")
	defer span.End()

	return s.repo.List(ctx)
}

func (s *service) PaymentMethods() []string {
	return append([]string(nil), s.paymentMethods...)
}
