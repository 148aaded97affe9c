package service_test

import (
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
)

func (s *IntegrationTestSuite) seedOrders() []int64 {
	itemID := s.seedItem("pencil", "1.10")

	ids := make([]int64, 0, 3)
	for _, email := range []string{"alice@example.com", "alice@example.com", "bob@example.com"} {
		enriched, err := s.OrderService.CreateOrder(s.Ctx, email, []service.CreateOrderLine{
			{ItemID: itemID, Quantity: 1},
		})
		s.Require().NoError(err)
		ids = append(ids, enriched.Order.ID)
	}

	return ids
}

func (s *IntegrationTestSuite) TestListOrdersBatchEnrichment() {
	s.seedOrders()
	s.Directory.batchCalls = 0

	enriched, total, err := s.OrderService.ListOrders(s.Ctx, repository.ListFilter{}, repository.Page{Number: 0, Size: 20})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(enriched, 3)

	// Three orders, two distinct owners, exactly one directory round trip.
	s.Equal(1, s.Directory.batchCalls)

	owners := map[int64]string{}
	for _, e := range enriched {
		owners[e.User.ID] = e.User.Email
	}
	s.Equal("alice@example.com", owners[10])
	s.Equal("bob@example.com", owners[20])
}

func (s *IntegrationTestSuite) TestListOrdersEmptyPageSkipsDirectory() {
	s.seedOrders()
	s.Directory.batchCalls = 0

	enriched, total, err := s.OrderService.ListOrders(s.Ctx, repository.ListFilter{}, repository.Page{Number: 5, Size: 20})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Empty(enriched)
	s.Zero(s.Directory.batchCalls)
}

func (s *IntegrationTestSuite) TestListOrdersDegradedDirectory() {
	s.seedOrders()
	s.Directory.degraded = true

	enriched, _, err := s.OrderService.ListOrders(s.Ctx, repository.ListFilter{}, repository.Page{Number: 0, Size: 20})
	s.Require().NoError(err)
	s.Len(enriched, 3)

	for _, e := range enriched {
		s.True(e.User.IsFallback())
	}
}

func (s *IntegrationTestSuite) TestListOrdersFilterByIDs() {
	ids := s.seedOrders()

	enriched, total, err := s.OrderService.ListOrders(s.Ctx, repository.ListFilter{IDs: ids[:2]}, repository.Page{Number: 0, Size: 20})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(enriched, 2)
}

func (s *IntegrationTestSuite) TestListOrdersFilterByStatus() {
	ids := s.seedOrders()

	_, err := s.OrderService.UpdateOrderStatus(s.Ctx, ids[0], domain.OrderStatusShipped)
	s.Require().NoError(err)

	enriched, total, listErr := s.OrderService.ListOrders(
		s.Ctx,
		repository.ListFilter{Statuses: []domain.OrderStatus{domain.OrderStatusShipped}},
		repository.Page{Number: 0, Size: 20},
	)
	s.Require().NoError(listErr)
	s.Equal(int64(1), total)
	s.Len(enriched, 1)
	s.Equal(ids[0], enriched[0].Order.ID)
}
