package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go-storefront/internal/adapters/repository/catalog"
	"go-storefront/internal/domain"
	"go-storefront/pkg/tracing"
)

func newService() Service {
	tracer := tracing.NewProvider("catalog-test", nil).Tracer("catalog-service")

	return NewService(catalog.NewRepository(), tracer)
}

func TestService_ListIsConsistentEnvelope(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.True(t, list.Consistent())
	require.Equal(t, 0, list.Total)

	require.NoError(t, s.Create(ctx, &domain.Product{ID: "a", Title: "A", Price: domain.Price("10")}))
	require.NoError(t, s.Create(ctx, &domain.Product{ID: "b", Title: "B"}))

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.True(t, list.Consistent())
	require.Equal(t, 2, list.Total)
}

func TestService_RejectsInvalidProducts(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	require.ErrorIs(t, s.Create(ctx, &domain.Product{Title: "no id"}), ErrInvalidProduct)
	require.ErrorIs(t, s.Create(ctx, &domain.Product{ID: "no-title"}), ErrInvalidProduct)
	require.ErrorIs(t, s.Update(ctx, &domain.Product{ID: "a"}), ErrInvalidProduct)
	require.ErrorIs(t, s.Update(ctx, &domain.Product{ID: "a", Title: "A"}), catalog.ErrProductNotFound)
}

func TestService_Seed(t *testing.T) {
	t.Parallel()

	s := newService()
	ctx := context.Background()

	list := domain.NewProductList([]domain.Product{
		{ID: "a", Title: "A", Price: domain.Price("10")},
		{ID: "b", Title: "B"},
	})

	created, err := s.Seed(ctx, list)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	created, err = s.Seed(ctx, list)
	require.NoError(t, err)
	require.Equal(t, 0, created, "seeding twice creates nothing")

	_, err = s.Seed(ctx, domain.ProductList{Total: 5, Items: list.Items})
	require.ErrorIs(t, err, ErrInvalidProduct)
}

func TestReadProductList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"total": 1,
		"items": [{"id": "854cef69", "title": "+1 час в сутках", "category": "софт-скил", "price": 750}]
	}`), 0o600))

	list, err := ReadProductList(path)
	require.NoError(t, err)
	require.True(t, list.Consistent())
	require.Equal(t, "854cef69", list.Items[0].ID)

	_, err = ReadProductList(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
