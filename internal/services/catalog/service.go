package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go-storefront/internal/adapters/repository/catalog"
	"go-storefront/internal/domain"
	"go-storefront/pkg/tracing"
)

type Service interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) (domain.ProductList, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	// Seed creates every product of list that is not in the catalog yet and
	// returns how many were created.
	Seed(ctx context.Context, list domain.ProductList) (int, error)
}

type service struct {
	repo   catalog.Repository
	tracer tracing.Tracer
}

func NewService(repo catalog.Repository, tracer tracing.Tracer) Service {
	return &service{repo: repo, tracer: tracer}
}

func (s *service) Get(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.catalog.Get")
	defer span.End()

	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context) (domain.ProductList, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.catalog.List")
	defer span.End()

	products, err := s.repo.List(ctx)
	if err != nil {
		return domain.ProductList{}, err
	}

	return domain.NewProductList(products), nil
}

func (s *service) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "internal.services.catalog.Create")
	defer span.End()

	if product.ID == "" || product.Title == "" {
		return fmt.Errorf("%w: id and title are required", ErrInvalidProduct)
	}

	return s.repo.Create(ctx, product)
}

func (s *service) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "internal.services.catalog.Update")
	defer span.End()

	if product.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidProduct)
	}

	return s.repo.Update(ctx, product)
}

func (s *service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "internal.services.catalog.Delete")
	defer span.End()

	return s.repo.Delete(ctx, id)
}

func (s *service) Seed(ctx context.Context, list domain.ProductList) (int, error) {
	ctx, span := s.tracer.Start(ctx, "internal.services.catalog.Seed")
	defer span.End()

	if !list.Consistent() {
		return 0, fmt.Errorf("%w: total %d does not match %d items", ErrInvalidProduct, list.Total, len(list.Items))
	}

	created := 0
	for i := range list.Items {
		product := list.Items[i]

		err := s.Create(ctx, &product)
		if errors.Is(err, catalog.ErrProductAlreadyExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed product %s: %w", product.ID, err)
		}
		created++
	}

	return created, nil
}

// ReadProductList decodes a JSON product list file, the same envelope
// GET /product/ returns.
func ReadProductList(path string) (domain.ProductList, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ProductList{}, err
	}

	var list domain.ProductList
	if err := json.Unmarshal(b, &list); err != nil {
		return domain.ProductList{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return list, nil
}
