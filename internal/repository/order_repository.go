package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/pkg/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ListFilter narrows a page of orders. Empty slices mean "all orders".
type ListFilter struct {
	IDs      []int64
	Statuses []domain.OrderStatus
}

type Page struct {
	Number int64
	Size   int64
}

func (p Page) offset() int64 {
	return p.Number * p.Size
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter ListFilter, page Page) ([]domain.Order, int64, error)
	ChangeOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, tx pgx.Tx, orderID int64) error
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("order_repository"),
	}
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", order.UserID),
		attribute.Int("lines_count", len(order.Items)),
	)

	queryOrder := `
		INSERT INTO orders (user_id, status, creation_date)
		VALUES ($1, $2, NOW())
		RETURNING id, creation_date
	`

	if err := tx.QueryRow(
		ctx,
		queryOrder,
		order.UserID,
		string(order.Status),
	).Scan(
		&order.ID,
		&order.CreationDate,
	); err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to insert order",
			zap.Error(err),
		)

		return mapPgError(err)
	}

	queryLine := `
		INSERT INTO order_lines (order_id, item_id, item_name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for i := range order.Items {
		line := &order.Items[i]
		line.OrderID = order.ID

		if err := tx.QueryRow(
			ctx,
			queryLine,
			line.OrderID,
			line.ItemID,
			line.ItemName,
			line.Price,
			line.Quantity,
		).Scan(&line.ID); err != nil {
			span.RecordError(err)

			logging.Error(
				ctx,
				r.logger,
				"Failed to insert order line",
				zap.Int64("item_id", line.ItemID),
				zap.Error(err),
			)

			return mapPgError(err)
		}
	}

	return nil
}

func (r *orderRepo) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetOrderByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
	)

	query := `
		SELECT id, user_id, status, creation_date
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.CreationDate,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to query order",
			zap.Int64("order_id", id),
			zap.Error(err),
		)

		return nil, err
	}

	lines, err := r.loadLines(ctx, []int64{order.ID})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	order.Items = lines[order.ID]

	return &order, nil
}

func (r *orderRepo) ListOrders(ctx context.Context, filter ListFilter, page Page) ([]domain.Order, int64, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListOrders")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("page", page.Number),
		attribute.Int64("size", page.Size),
	)

	where := ""
	args := []interface{}{}

	switch {
	case len(filter.IDs) > 0:
		where = "WHERE id = ANY($1)"
		args = append(args, filter.IDs)
	case len(filter.Statuses) > 0:
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where = "WHERE status = ANY($1)"
		args = append(args, statuses)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders %s`, where)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, status, creation_date
		FROM orders
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to query orders page",
			zap.Error(err),
		)

		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []int64
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.CreationDate,
		); err != nil {
			span.RecordError(err)
			return nil, 0, err
		}

		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	if len(orders) == 0 {
		return orders, total, nil
	}

	lines, err := r.loadLines(ctx, orderIDs)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Items = lines[orders[i].ID]
	}

	return orders, total, nil
}

// loadLines fetches the lines of all given orders in one query to keep a
// page load at two round trips total.
func (r *orderRepo) loadLines(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderLine, error) {
	query := `
		SELECT id, order_id, item_id, item_name, price, quantity
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		logging.Error(
			ctx,
			r.logger,
			"Failed to query order lines",
			zap.Error(err),
		)

		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderLine)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ItemID,
			&line.ItemName,
			&line.Price,
			&line.Quantity,
		); err != nil {
			return nil, err
		}

		result[line.OrderID] = append(result[line.OrderID], line)
	}

	return result, rows.Err()
}

func (r *orderRepo) ChangeOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ChangeOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2
	`

	commandTag, err := tx.Exec(ctx, query, string(status), orderID)
	if err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to update order status",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to update order status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		logging.Warn(
			ctx,
			r.logger,
			"Order not found",
			zap.Int64("order_id", orderID),
		)

		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepo) DeleteOrder(ctx context.Context, tx pgx.Tx, orderID int64) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.DeleteOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	// order_lines cascade on delete.
	query := `
		DELETE FROM orders
		WHERE id = $1
	`

	commandTag, err := tx.Exec(ctx, query, orderID)
	if err != nil {
		span.RecordError(err)

		logging.Error(
			ctx,
			r.logger,
			"Failed to delete order",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func mapPgError(err error) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pgError.ConstraintName)
	}

	return err
}
