package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"go.uber.org/zap"
)

type ItemService interface {
	Create(ctx context.Context, item *domain.Item) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, limit, offset int64) ([]domain.Item, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateItemInput) error
	Delete(ctx context.Context, id int64) error
}

type itemService struct {
	itemRepo repository.ItemRepository
	logger   *zap.Logger
}

func NewItemService(itemRepo repository.ItemRepository, logger *zap.Logger) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (s *itemService) Create(ctx context.Context, item *domain.Item) (int64, error) {
	id, err := s.itemRepo.Create(ctx, item)
	if err != nil {
		s.logger.Error("error creating item", zap.Error(err))
		return 0, fmt.Errorf("error creating item: %w", err)
	}

	return id, nil
}

func (s *itemService) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Warn("item not found", zap.Int64("item_id", id))
			return nil, err
		}

		s.logger.Error("error getting item", zap.Error(err))
		return nil, fmt.Errorf("error getting item by id: %w", err)
	}

	return item, nil
}

func (s *itemService) List(ctx context.Context, limit, offset int64) ([]domain.Item, int64, error) {
	items, total, err := s.itemRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("list error", zap.Error(err))
		return nil, 0, fmt.Errorf("error listing items: %w", err)
	}

	return items, total, nil
}

func (s *itemService) Update(ctx context.Context, id int64, input *domain.UpdateItemInput) error {
	if err := s.itemRepo.Update(ctx, id, input); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Warn("item not found", zap.Int64("item_id", id))
			return err
		}

		s.logger.Error("error updating item", zap.Error(err))
		return fmt.Errorf("error updating item: %w", err)
	}

	return nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	if err := s.itemRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Warn("item not found", zap.Int64("item_id", id))
			return err
		}

		s.logger.Error("error deleting item", zap.Error(err))
		return err
	}

	return nil
}
