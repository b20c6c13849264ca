package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"go-storefront/internal/adapters/queue"
	"go-storefront/pkg/diagnostics"
	"go-storefront/pkg/tracing"
)

const ConfirmationTopic = "order-confirmation"

// ConfirmationMessage is published for every accepted order.
type ConfirmationMessage struct {
	OrderID string          `json:"orderId"`
	Email   string          `json:"email"`
	Items   int             `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Trace   tracing.Carrier `json:"trace,omitempty"`
}

// NewConfirmationHandler creates a queue handler for ConfirmationTopic.
func NewConfirmationHandler(service Service, tracer tracing.Tracer) queue.Handler {
	return func(ctx context.Context, message []byte) error {
		var msg ConfirmationMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			diagnostics.NotificationsSent.WithLabelValues("malformed").Inc()
			return fmt.Errorf("failed to unmarshal message: %w", err)
		}

		ctx, span := tracer.StartSpanFromCarrier(
			ctx,
			msg.Trace,
			"internal.services.notification.consumer.Confirmation",
		)
		defer span.End()

		if err := service.SendConfirmation(ctx, msg); err != nil {
			span.RecordError(err)
			diagnostics.NotificationsSent.WithLabelValues("failed").Inc()
			return fmt.Errorf("send confirmation for order %s: %w", msg.OrderID, err)
		}

		diagnostics.NotificationsSent.WithLabelValues("sent").Inc()
		return nil
	}
}
