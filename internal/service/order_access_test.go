package service_test

import (
	"errors"

	"github.com/Zaharysh37/order-service/internal/auth"
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
)

func adminIdentity() auth.Identity {
	return auth.Identity{UserID: 1, Roles: []string{auth.RoleAdmin}}
}

func userIdentity(id int64) auth.Identity {
	return auth.Identity{UserID: id}
}

func (s *IntegrationTestSuite) createOrderFor(email string) int64 {
	itemID := s.seedItem("notebook", "3.20")

	enriched, err := s.OrderService.CreateOrder(s.Ctx, email, []service.CreateOrderLine{
		{ItemID: itemID, Quantity: 1},
	})
	s.Require().NoError(err)

	return enriched.Order.ID
}

func (s *IntegrationTestSuite) TestGetOrderByOwner() {
	orderID := s.createOrderFor("alice@example.com")

	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, userIdentity(10))
	s.Require().NoError(err)
	s.Equal(int64(10), enriched.Order.UserID)
	s.Equal("alice@example.com", enriched.User.Email)
}

func (s *IntegrationTestSuite) TestGetOrderDeniedForStranger() {
	orderID := s.createOrderFor("alice@example.com")

	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, userIdentity(20))
	s.Require().Error(err)
	s.Nil(enriched)
	s.True(errors.Is(err, service.ErrAccessDenied))
}

func (s *IntegrationTestSuite) TestGetOrderAllowedForAdmin() {
	orderID := s.createOrderFor("alice@example.com")

	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, adminIdentity())
	s.Require().NoError(err)
	s.Equal(int64(10), enriched.Order.UserID)
}

func (s *IntegrationTestSuite) TestGetOrderNotFound() {
	_, err := s.OrderService.GetOrderByID(s.Ctx, 424242, adminIdentity())
	s.Require().Error(err)
	s.True(errors.Is(err, repository.ErrOrderNotFound))
}

func (s *IntegrationTestSuite) TestGetOrderEnrichmentDegrades() {
	orderID := s.createOrderFor("alice@example.com")
	s.Directory.degraded = true

	// Reads tolerate directory degradation: the order comes back with the
	// fallback owner instead of failing.
	enriched, err := s.OrderService.GetOrderByID(s.Ctx, orderID, userIdentity(10))
	s.Require().NoError(err)
	s.True(enriched.User.IsFallback())
}

func (s *IntegrationTestSuite) TestDeleteOrderByOwner() {
	orderID := s.createOrderFor("alice@example.com")

	s.Require().NoError(s.OrderService.DeleteOrder(s.Ctx, orderID, userIdentity(10)))

	_, err := s.OrderService.GetOrderByID(s.Ctx, orderID, adminIdentity())
	s.True(errors.Is(err, repository.ErrOrderNotFound))
}

func (s *IntegrationTestSuite) TestDeleteOrderDeniedForStranger() {
	orderID := s.createOrderFor("alice@example.com")

	err := s.OrderService.DeleteOrder(s.Ctx, orderID, userIdentity(20))
	s.Require().Error(err)
	s.True(errors.Is(err, service.ErrAccessDenied))
}

func (s *IntegrationTestSuite) TestUpdateOrderStatus() {
	orderID := s.createOrderFor("alice@example.com")

	enriched, err := s.OrderService.UpdateOrderStatus(s.Ctx, orderID, domain.OrderStatusShipped)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusShipped, enriched.Order.Status)
}

func (s *IntegrationTestSuite) TestUpdateOrderStatusNotFound() {
	_, err := s.OrderService.UpdateOrderStatus(s.Ctx, 424242, domain.OrderStatusShipped)
	s.Require().Error(err)
	s.True(errors.Is(err, repository.ErrOrderNotFound))
}
