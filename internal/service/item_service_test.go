package service_test

import (
	"errors"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *IntegrationTestSuite) itemService() service.ItemService {
	return service.NewItemService(s.ItemRepo, zap.NewNop())
}

func (s *IntegrationTestSuite) TestItemLifecycle() {
	items := s.itemService()

	id, err := items.Create(s.Ctx, &domain.Item{
		Name:  "kettle",
		Price: decimal.RequireFromString("29.99"),
	})
	s.Require().NoError(err)
	s.NotZero(id)

	item, err := items.FindByID(s.Ctx, id)
	s.Require().NoError(err)
	s.Equal("kettle", item.Name)
	s.True(item.Price.Equal(decimal.RequireFromString("29.99")))

	newName := "electric kettle"
	newPrice := decimal.RequireFromString("34.50")
	err = items.Update(s.Ctx, id, &domain.UpdateItemInput{Name: &newName, Price: &newPrice})
	s.Require().NoError(err)

	item, err = items.FindByID(s.Ctx, id)
	s.Require().NoError(err)
	s.Equal("electric kettle", item.Name)
	s.True(item.Price.Equal(newPrice))

	s.Require().NoError(items.Delete(s.Ctx, id))

	_, err = items.FindByID(s.Ctx, id)
	s.True(errors.Is(err, repository.ErrItemNotFound))
}

func (s *IntegrationTestSuite) TestItemList() {
	items := s.itemService()

	for _, name := range []string{"a", "b", "c"} {
		_, err := items.Create(s.Ctx, &domain.Item{Name: name, Price: decimal.RequireFromString("1.00")})
		s.Require().NoError(err)
	}

	page, total, err := items.List(s.Ctx, 2, 0)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(page, 2)
}
