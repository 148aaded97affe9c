package service_test

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/shopspring/decimal"
)

func (s *IntegrationTestSuite) TestCreateOrder() {
	teaID := s.seedItem("green tea", "10.50")
	mugID := s.seedItem("mug", "4.00")

	enriched, err := s.OrderService.CreateOrder(s.Ctx, "alice@example.com", []service.CreateOrderLine{
		{ItemID: teaID, Quantity: 2},
		{ItemID: mugID, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Require().NotNil(enriched)

	s.NotZero(enriched.Order.ID)
	s.Equal(int64(10), enriched.Order.UserID)
	s.Equal(domain.OrderStatusCreated, enriched.Order.Status)
	s.Len(enriched.Order.Items, 2)
	s.Equal("alice@example.com", enriched.User.Email)

	// 2 * 10.50 + 1 * 4.00, decimal-exact.
	s.True(enriched.Order.Total().Equal(decimal.RequireFromString("25.00")),
		"expected total 25.00, got %s", enriched.Order.Total())

	// Prices are snapshotted onto the lines at creation time.
	for _, line := range enriched.Order.Items {
		s.NotZero(line.ID)
		s.Equal(enriched.Order.ID, line.OrderID)
		s.NotEmpty(line.ItemName)
	}
}

func (s *IntegrationTestSuite) TestCreateOrderPublishesEvent() {
	teaID := s.seedItem("green tea", "10.00")
	mugID := s.seedItem("mug", "5.00")

	enriched, err := s.OrderService.CreateOrder(s.Ctx, "alice@example.com", []service.CreateOrderLine{
		{ItemID: teaID, Quantity: 2},
		{ItemID: mugID, Quantity: 1},
	})
	s.Require().NoError(err)

	consumer, err := sarama.NewConsumer(s.KafkaBrokers, sarama.NewConfig())
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(consumer.Close())
	}()

	partition, err := consumer.ConsumePartition("order_created", 0, sarama.OffsetOldest)
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(partition.Close())
	}()

	select {
	case msg := <-partition.Messages():
		s.Equal("order_created", msg.Topic)

		var event domain.OrderCreatedEvent
		s.Require().NoError(json.Unmarshal(msg.Value, &event))

		s.Equal(enriched.Order.ID, event.OrderID)
		s.Equal(int64(10), event.UserID)
		s.True(event.Amount.Equal(decimal.RequireFromString("25.00")),
			"expected amount 25.00, got %s", event.Amount)
	case <-time.After(10 * time.Second):
		s.FailNow("no order created event received")
	}
}

func (s *IntegrationTestSuite) TestCreateOrderUnknownItem() {
	teaID := s.seedItem("green tea", "10.50")

	enriched, err := s.OrderService.CreateOrder(s.Ctx, "alice@example.com", []service.CreateOrderLine{
		{ItemID: teaID, Quantity: 1},
		{ItemID: 99999, Quantity: 1},
	})
	s.Require().Error(err)
	s.Nil(enriched)
	s.True(errors.Is(err, repository.ErrItemNotFound))

	// The failed validation must not leave a partial order behind.
	_, total, listErr := s.OrderService.ListOrders(s.Ctx, repository.ListFilter{}, repository.Page{Number: 0, Size: 20})
	s.Require().NoError(listErr)
	s.Zero(total)
}

func (s *IntegrationTestSuite) TestCreateOrderDirectoryDegraded() {
	teaID := s.seedItem("green tea", "10.50")
	s.Directory.degraded = true

	enriched, err := s.OrderService.CreateOrder(s.Ctx, "alice@example.com", []service.CreateOrderLine{
		{ItemID: teaID, Quantity: 1},
	})
	s.Require().Error(err)
	s.Nil(enriched)
	s.True(errors.Is(err, service.ErrUserServiceUnavailable))
}

func (s *IntegrationTestSuite) TestCreateOrderEmptyLines() {
	enriched, err := s.OrderService.CreateOrder(s.Ctx, "alice@example.com", nil)
	s.Require().Error(err)
	s.Nil(enriched)
	s.True(errors.Is(err, service.ErrEmptyOrder))
}
