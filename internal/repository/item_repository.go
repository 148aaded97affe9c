package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/pkg/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, limit, offset int64) ([]domain.Item, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateItemInput) error
	DeleteByID(ctx context.Context, id int64) error
}

type itemRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewItemRepository(pool *pgxpool.Pool, logger *zap.Logger) ItemRepository {
	return &itemRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("item_repository"),
	}
}

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ItemRepository.Create")
	defer span.End()

	query := `
		INSERT INTO items (name, price)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, item.Name, item.Price).Scan(&id); err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to insert item",
			zap.Error(err),
		)

		return 0, mapPgError(err)
	}

	return id, nil
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	ctx, span := r.tracer.Start(ctx, "ItemRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("item_id", id),
	)

	query := `
		SELECT id, name, price
		FROM items
		WHERE id = $1
	`

	var item domain.Item
	if err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}

		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to query item",
			zap.Int64("item_id", id),
			zap.Error(err),
		)

		return nil, err
	}

	return &item, nil
}

func (r *itemRepo) List(ctx context.Context, limit, offset int64) ([]domain.Item, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ItemRepository.List")
	defer span.End()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query := `
		SELECT id, name, price
		FROM items
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			span.RecordError(err)
			return nil, 0, err
		}

		items = append(items, item)
	}

	return items, total, rows.Err()
}

func (r *itemRepo) Update(ctx context.Context, id int64, input *domain.UpdateItemInput) error {
	ctx, span := r.tracer.Start(ctx, "ItemRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("item_id", id),
	)

	var updates []string
	var args []interface{}
	argID := 1

	if input.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argID))
		args = append(args, *input.Name)
		argID++
	}

	if input.Price != nil {
		updates = append(updates, fmt.Sprintf("price = $%d", argID))
		args = append(args, *input.Price)
		argID++
	}

	if len(updates) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE items SET %s WHERE id = $%d", strings.Join(updates, ", "), argID)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to update item",
			zap.Int64("item_id", id),
			zap.Error(err),
		)

		return mapPgError(err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *itemRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ItemRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("item_id", id),
	)

	commandTag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to delete item",
			zap.Int64("item_id", id),
			zap.Error(err),
		)

		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}
