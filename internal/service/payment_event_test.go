package service_test

import (
	"errors"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/google/uuid"
)

func (s *IntegrationTestSuite) createOrderForPayment() int64 {
	itemID := s.seedItem("green tea", "10.50")

	enriched, err := s.OrderService.CreateOrder(s.Ctx, "alice@example.com", []service.CreateOrderLine{
		{ItemID: itemID, Quantity: 1},
	})
	s.Require().NoError(err)

	return enriched.Order.ID
}

func (s *IntegrationTestSuite) TestPaymentSucceededMarksOrderProcessed() {
	orderID := s.createOrderForPayment()

	err := s.OrderService.HandlePaymentEvent(s.Ctx, &domain.PaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   orderID,
		UserID:    10,
		Status:    domain.PaymentStatusSuccess,
	})
	s.Require().NoError(err)

	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, adminIdentity())
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusProcessed, enriched.Order.Status)
}

func (s *IntegrationTestSuite) TestPaymentSucceededRedelivery() {
	orderID := s.createOrderForPayment()

	event := &domain.PaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   orderID,
		UserID:    10,
		Status:    domain.PaymentStatusSuccess,
	}

	// The stream is at-least-once so the same event can arrive twice. Both
	// deliveries must succeed and the order stays PROCESSED.
	s.Require().NoError(s.OrderService.HandlePaymentEvent(s.Ctx, event))
	s.Require().NoError(s.OrderService.HandlePaymentEvent(s.Ctx, event))

	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, adminIdentity())
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusProcessed, enriched.Order.Status)
}

func (s *IntegrationTestSuite) TestPaymentSucceededUnknownOrder() {
	err := s.OrderService.HandlePaymentEvent(s.Ctx, &domain.PaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   424242,
		UserID:    10,
		Status:    domain.PaymentStatusSuccess,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, repository.ErrOrderNotFound))
}

func (s *IntegrationTestSuite) TestPaymentFailedLeavesOrderUntouched() {
	orderID := s.createOrderForPayment()

	err := s.OrderService.HandlePaymentEvent(s.Ctx, &domain.PaymentEvent{
		PaymentID: uuid.NewString(),
		OrderID:   orderID,
		UserID:    10,
		Status:    domain.PaymentStatusFailure,
	})
	s.Require().NoError(err)

	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, adminIdentity())
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCreated, enriched.Order.Status)
}
