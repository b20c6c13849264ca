package notification

import (
	"context"
	"log"

	"go-storefront/pkg/tracing"
)

// Service delivers order confirmations to customers.
type Service interface {
	SendConfirmation(ctx context.Context, msg ConfirmationMessage) error
}

type service struct {
	tracer tracing.Tracer
	logger *log.Logger
}

// NewService creates a notification service that writes confirmations to
// logger in place of a mail gateway.
func NewService(tracer tracing.Tracer, logger *log.Logger) Service {
	return &service{tracer: tracer, logger: logger}
}

func (s *service) SendConfirmation(ctx context.Context, msg ConfirmationMessage) error {
	_, span := s.tracer.Start(ctx, "internal.services.notification.SendConfirmation")
	defer span.End()

	s.logger.Printf("Order %s confirmed for %s: %d items, total %s", msg.OrderID, msg.Email, msg.Items, msg.Total)

	return nil
}
