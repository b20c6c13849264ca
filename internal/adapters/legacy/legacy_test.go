package legacy

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/domain"
)

func TestProductList_MapsBothWays(t *testing.T) {
	t.Parallel()

	list := domain.NewProductList([]domain.Product{
		{ID: "a", Title: "Бэкенд-антистресс", Category: "другое", Image: "/Asterisk_2.svg", Price: domain.Price("1000")},
		{ID: "b", Title: "Мамка-таймер", Category: "софт-скил"},
	})

	api := FromProductList(list)
	require.Equal(t, 2, api.TotalCount)
	require.Equal(t, "a", api.ProductItems[0].ProductID)
	require.Equal(t, "Бэкенд-антистресс", api.ProductItems[0].ProductTitle)

	require.Equal(t, list, api.Domain())
}

func TestProductList_DecodesLegacyJSON(t *testing.T) {
	t.Parallel()

	var api ApiProductList
	err := json.Unmarshal([]byte(`{
		"totalCount": 1,
		"productItems": [{
			"productId": "854cef69",
			"productDescription": "desc",
			"productImage": "/5_Dots.svg",
			"productTitle": "+1 час в сутках",
			"productCategory": "софт-скил",
			"productPrice": 750
		}]
	}`), &api)
	require.NoError(t, err)

	list := api.Domain()
	require.True(t, list.Consistent())
	require.Equal(t, "854cef69", list.Items[0].ID)
	require.True(t, list.Items[0].Price.Decimal.Equal(decimal.NewFromInt(750)))
}

func TestOrderRequest_MapsBothWays(t *testing.T) {
	t.Parallel()

	req := domain.OrderRequest{
		CustomerData: domain.CustomerData{
			Payment: "online",
			Email:   "test@test.ru",
			Phone:   "+71234567890",
			Address: "Spb Vosstania 1",
		},
		Total: decimal.NewFromInt(2200),
		Items: []string{"854cef69", "c101ab44"},
	}

	api := FromOrderRequest(req)
	require.Equal(t, "test@test.ru", api.CustomerEmail)
	require.Equal(t, req.Items, api.ProductIDs)

	b, err := json.Marshal(api)
	require.NoError(t, err)
	require.Contains(t, string(b), `"paymentMethod":"online"`)
	require.Contains(t, string(b), `"orderTotal":2200`)

	var decoded ApiOrderRequest
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, req.CustomerData, decoded.Domain().CustomerData)
	require.Equal(t, req.Items, decoded.Domain().Items)
	require.True(t, req.Total.Equal(decoded.Domain().Total))
}

func TestOrderResponseAndError(t *testing.T) {
	t.Parallel()

	result := domain.OrderResult{ID: "28c57cb4", Total: decimal.NewFromInt(2200)}
	require.Equal(t, result, FromOrderResult(result).Domain())

	orderErr := domain.OrderError{Error: "wrong order total"}
	b, err := json.Marshal(FromOrderError(orderErr))
	require.NoError(t, err)
	require.JSONEq(t, `{"errorMessage":"wrong order total"}`, string(b))
	require.Equal(t, orderErr, FromOrderError(orderErr).Domain())
}

func TestUiOrder_MapsBothWays(t *testing.T) {
	t.Parallel()

	order := &domain.Order{
		Products: []domain.Product{{ID: "a", Price: domain.Price("10")}},
		Customer: domain.CustomerData{Payment: "cash", Email: "a@b.c", Phone: "+70000000000", Address: "x"},
		Total:    decimal.NewFromInt(10),
	}

	ui := FromOrder(order)
	require.Equal(t, "a", ui.OrderedProducts[0].ProductID)
	require.Equal(t, "cash", ui.CustomerInfo.PaymentMethod)
	require.Equal(t, order, ui.Domain())
}
