package basket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/domain"
	"go-storefront/pkg/tracing"
)

var products = []domain.Product{
	{ID: "854cef69", Title: "+1 час в сутках", Price: domain.Price("750")},
	{ID: "c101ab44", Title: "Фреймворк куки судьбы", Price: domain.Price("2500")},
	{ID: "b06cde61", Title: "Мамка-таймер"},
}

func newState() *State {
	s := NewState([]string{"online", "cash"})
	s.SetItems(products)

	return s
}

func TestState_Items(t *testing.T) {
	t.Parallel()

	s := newState()
	require.Equal(t, products, s.Items())

	p, ok := s.Product("c101ab44")
	require.True(t, ok)
	require.Equal(t, "Фреймворк куки судьбы", p.Title)

	_, ok = s.Product("missing")
	require.False(t, ok)
}

func TestState_Basket(t *testing.T) {
	t.Parallel()

	s := newState()
	require.Equal(t, 0, s.BasketCount())
	require.True(t, s.BasketTotal().IsZero())

	require.NoError(t, s.AddToBasket("c101ab44"))
	require.NoError(t, s.AddToBasket("854cef69"))
	require.NoError(t, s.AddToBasket("c101ab44"), "adding twice is a no-op")
	require.ErrorIs(t, s.AddToBasket("b06cde61"), domain.ErrNotForSale)
	require.ErrorIs(t, s.AddToBasket("missing"), domain.ErrProductNotFound)

	require.Equal(t, 2, s.BasketCount())
	require.True(t, s.BasketTotal().Equal(decimal.NewFromInt(3250)))
	require.True(t, s.InBasket("854cef69"))
	require.False(t, s.InBasket("b06cde61"))

	lines := s.Basket()
	require.Len(t, lines, 2)
	require.Equal(t, "c101ab44", lines[0].ID)
	require.Equal(t, 1, lines[0].Index)
	require.Equal(t, "854cef69", lines[1].ID)
	require.Equal(t, 2, lines[1].Index)

	s.DeleteFromBasket("c101ab44")
	s.DeleteFromBasket("c101ab44")
	require.Equal(t, 1, s.BasketCount())
	require.True(t, s.BasketTotal().Equal(decimal.NewFromInt(750)))
	require.Equal(t, 1, s.Basket()[0].Index)

	s.ClearBasket()
	require.Equal(t, 0, s.BasketCount())
	require.Empty(t, s.Basket())
}

func TestState_SetItemsRefreshesBasket(t *testing.T) {
	t.Parallel()

	s := newState()
	require.NoError(t, s.AddToBasket("854cef69"))
	require.NoError(t, s.AddToBasket("c101ab44"))

	repriced := []domain.Product{
		{ID: "854cef69", Title: "+1 час в сутках", Price: domain.Price("800")},
		{ID: "c101ab44", Title: "Фреймворк куки судьбы"},
		{ID: "b06cde61", Title: "Мамка-таймер"},
	}
	s.SetItems(repriced)

	require.Equal(t, 1, s.BasketCount(), "unpriced products leave the basket")
	require.False(t, s.InBasket("c101ab44"))
	require.True(t, s.BasketTotal().Equal(decimal.NewFromInt(800)))

	req := s.Order()
	require.Equal(t, []string{"854cef69"}, req.Items)
	require.True(t, req.Total.Equal(decimal.NewFromInt(800)))

	s.SetItems(repriced[1:])
	require.Equal(t, 0, s.BasketCount(), "deleted products leave the basket")
	require.Empty(t, s.Basket())
}

func TestState_Checkout(t *testing.T) {
	t.Parallel()

	s := newState()
	require.True(t, s.BeginCheckout())
	require.False(t, s.BeginCheckout(), "one checkout at a time")

	s.EndCheckout()
	require.True(t, s.BeginCheckout())
	s.EndCheckout()
}

func TestState_Card(t *testing.T) {
	t.Parallel()

	s := newState()
	require.NoError(t, s.AddToBasket("854cef69"))

	tests := map[string]string{
		"854cef69": LabelRemove,
		"c101ab44": LabelAdd,
		"b06cde61": LabelNotForSale,
	}
	for id, label := range tests {
		card, ok := s.Card(id)
		require.True(t, ok)
		require.Equal(t, label, card.ButtonLabel, id)
	}

	_, ok := s.Card("missing")
	require.False(t, ok)
}

func TestState_OrderForm(t *testing.T) {
	t.Parallel()

	s := newState()

	errs := s.ValidateOrder()
	require.Contains(t, errs, FieldPayment)
	require.Contains(t, errs, FieldAddress)

	errs, err := s.SetOrderField(FieldPayment, "online")
	require.NoError(t, err)
	require.NotContains(t, errs, FieldPayment)
	require.Contains(t, errs, FieldAddress)

	errs, err = s.SetOrderField(FieldAddress, "Spb Vosstania 1")
	require.NoError(t, err)
	require.Empty(t, errs)

	errs, err = s.SetOrderField(FieldEmail, "test@test.ru")
	require.NoError(t, err)
	require.Equal(t, FormErrors{FieldPhone: "Enter a valid phone number"}, errs)

	errs, err = s.SetOrderField(FieldPhone, "+71234567890")
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = s.SetOrderField("coupon", "FREE")
	require.True(t, errors.Is(err, ErrUnknownField))

	errs, err = s.SetOrderField(FieldPayment, "barter")
	require.NoError(t, err)
	require.Contains(t, errs, FieldPayment)

	s.ClearOrder()
	require.Equal(t, Form{}, s.Form())
}

func TestState_Order(t *testing.T) {
	t.Parallel()

	s := newState()
	require.NoError(t, s.AddToBasket("854cef69"))
	require.NoError(t, s.AddToBasket("c101ab44"))
	for field, value := range map[OrderField]string{
		FieldPayment: "cash",
		FieldAddress: "Spb Vosstania 1",
		FieldEmail:   "test@test.ru",
		FieldPhone:   "+71234567890",
	} {
		_, err := s.SetOrderField(field, value)
		require.NoError(t, err)
	}

	req := s.Order()
	require.Equal(t, []string{"854cef69", "c101ab44"}, req.Items)
	require.True(t, req.Total.Equal(decimal.NewFromInt(3250)))
	require.Equal(t, domain.CustomerData{
		Payment: "cash",
		Email:   "test@test.ru",
		Phone:   "+71234567890",
		Address: "Spb Vosstania 1",
	}, req.CustomerData)
}

type staticCatalog struct {
	list domain.ProductList
	err  error
}

func (c *staticCatalog) List(context.Context) (domain.ProductList, error) {
	return c.list, c.err
}

func TestStore_Sessions(t *testing.T) {
	t.Parallel()

	catalog := &staticCatalog{list: domain.NewProductList(products)}
	store := NewStore(catalog, tracing.NewProvider("basket-test", nil).Tracer("basket"), []string{"online"})

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	ctx := context.Background()
	id, state, err := store.Session(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NoError(t, state.AddToBasket("854cef69"))

	again, state2, err := store.Session(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, again)
	require.Same(t, state, state2)
	require.Equal(t, 1, state2.BasketCount())

	other, _, err := store.Session(ctx, "forged")
	require.NoError(t, err)
	require.NotEqual(t, "forged", other, "unknown ids get a fresh session")
	require.Equal(t, 2, store.Len())

	catalog.list = domain.NewProductList(products[:1])
	_, state, err = store.Session(ctx, id)
	require.NoError(t, err)
	require.Len(t, state.Items(), 1, "catalog snapshot is refreshed")

	clock = clock.Add(time.Hour)
	_, _, err = store.Session(ctx, other)
	require.NoError(t, err)

	require.Equal(t, 1, store.Sweep(30*time.Minute))
	require.Equal(t, 1, store.Len())

	catalog.err = errors.New("db down")
	_, _, err = store.Session(ctx, id)
	require.Error(t, err)
}

func TestSweeper(t *testing.T) {
	t.Parallel()

	store := NewStore(&staticCatalog{}, tracing.NewProvider("basket-test", nil).Tracer("basket"), nil)
	_, _, err := store.Session(context.Background(), "")
	require.NoError(t, err)

	sweeper := NewSweeper(store, -time.Second, 5*time.Millisecond)
	sweeper.Start()
	defer sweeper.Stop()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}
