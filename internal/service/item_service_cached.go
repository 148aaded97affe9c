package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

type cachedItemService struct {
	next        ItemService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewCachedItemService decorates the catalog read path with a redis cache.
// Writes invalidate the cached entry.
func NewCachedItemService(next ItemService, redisClient *redis.Client) ItemService {
	return &cachedItemService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    time.Minute * 10,
	}
}

func itemKey(id int64) string {
	return fmt.Sprintf("item:%d", id)
}

func (s *cachedItemService) Create(ctx context.Context, item *domain.Item) (int64, error) {
	return s.next.Create(ctx, item)
}

func (s *cachedItemService) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	val, err := s.redisClient.Get(ctx, itemKey(id)).Result()
	if err == nil {
		var item domain.Item
		if err := json.Unmarshal([]byte(val), &item); err == nil {
			return &item, nil
		}
	}

	item, err := s.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(item); err == nil {
		s.redisClient.Set(ctx, itemKey(id), data, s.cacheTTL)
	}

	return item, nil
}

func (s *cachedItemService) List(ctx context.Context, limit, offset int64) ([]domain.Item, int64, error) {
	return s.next.List(ctx, limit, offset)
}

func (s *cachedItemService) Update(ctx context.Context, id int64, input *domain.UpdateItemInput) error {
	if err := s.next.Update(ctx, id, input); err != nil {
		return err
	}

	s.redisClient.Del(ctx, itemKey(id))
	return nil
}

func (s *cachedItemService) Delete(ctx context.Context, id int64) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}

	s.redisClient.Del(ctx, itemKey(id))
	return nil
}
