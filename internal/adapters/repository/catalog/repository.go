package catalog

import (
	"context"
	"errors"
	"sync"

	"go-storefront/internal/domain"
)

var ErrProductNotFound = domain.ErrProductNotFound
var ErrProductAlreadyExists = errors.New("product already exists")

// Repository stores the catalog. List returns products in the order they
// were created.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
}

// NewRepository creates an in-memory catalog.
func NewRepository() Repository {
	return &repository{
		products: make(map[string]domain.Product),
	}
}

func (r *repository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		return ErrProductAlreadyExists
	}

	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)

	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

func (r *repository) Update(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		return ErrProductNotFound
	}

	r.products[product.ID] = *product

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return ErrProductNotFound
	}

	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}

	return products, nil
}
