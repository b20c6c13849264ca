package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-storefront/pkg/tracing"
)

type failingService struct{}

func (failingService) SendConfirmation(context.Context, ConfirmationMessage) error {
	return errors.New("mail gateway down")
}

func TestConfirmationHandler(t *testing.T) {
	t.Parallel()

	tracer := tracing.NewProvider("notification-test", nil).Tracer("notification")

	var out bytes.Buffer
	handler := NewConfirmationHandler(NewService(tracer, log.New(&out, "", 0)), tracer)

	ctx, span := tracer.Start(context.Background(), "place order")
	b, err := json.Marshal(ConfirmationMessage{
		OrderID: "28c57cb4",
		Email:   "test@test.ru",
		Items:   2,
		Total:   decimal.NewFromInt(2200),
		Trace:   tracer.Inject(ctx),
	})
	span.End()
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), b))
	require.Equal(t, "Order 28c57cb4 confirmed for test@test.ru: 2 items, total 2200\n", out.String())
}

func TestConfirmationHandler_Errors(t *testing.T) {
	t.Parallel()

	tracer := tracing.NewProvider("notification-test", nil).Tracer("notification")

	handler := NewConfirmationHandler(failingService{}, tracer)
	require.Error(t, handler(context.Background(), []byte(`not json`)))
	require.ErrorContains(t, handler(context.Background(), []byte(`{"orderId":"1"}`)), "mail gateway down")
}
