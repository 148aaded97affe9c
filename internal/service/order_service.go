package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zaharysh37/order-service/internal/auth"
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/userclient"
	"github.com/Zaharysh37/order-service/pkg/kafka"
	"github.com/Zaharysh37/order-service/pkg/logging"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EnrichedOrder pairs a locally-owned order with its externally-owned user
// record for response assembly. User may be the directory fallback on
// read paths.
type EnrichedOrder struct {
	Order domain.Order `json:"order"`
	User  *domain.User `json:"user"`
}

type CreateOrderLine struct {
	ItemID   int64 `json:"item_id" validate:"required"`
	Quantity int32 `json:"quantity" validate:"required,gte=1"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, email string, lines []CreateOrderLine) (*EnrichedOrder, error)
	GetOrderByID(ctx context.Context, id int64, identity auth.Identity) (*EnrichedOrder, error)
	ListOrders(ctx context.Context, filter repository.ListFilter, page repository.Page) ([]EnrichedOrder, int64, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*EnrichedOrder, error)
	DeleteOrder(ctx context.Context, id int64, identity auth.Identity) error
	HandlePaymentEvent(ctx context.Context, event *domain.PaymentEvent) error
}

// txBeginner is satisfied by *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type orderService struct {
	pool      txBeginner
	logger    *zap.Logger
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	users     userclient.Client
	producer  kafka.Producer
	topic     string
	tracer    trace.Tracer
}

func NewOrderService(
	pool txBeginner,
	logger *zap.Logger,
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	users userclient.Client,
	producer kafka.Producer,
	topic string,
) OrderService {
	return &orderService{
		pool:      pool,
		logger:    logger,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		users:     users,
		producer:  producer,
		topic:     topic,
		tracer:    otel.Tracer("order_service"),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, email string, lines []CreateOrderLine) (*EnrichedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int("lines_count", len(lines)),
	)

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	// Owner resolution happens before any write so a degraded directory
	// aborts creation instead of producing an order with an unresolved owner.
	user := s.users.GetByEmail(ctx, email)
	if user.IsFallback() {
		logging.Warn(
			ctx,
			s.logger,
			"User directory unavailable, refusing to create order",
			zap.String("email", email),
		)

		return nil, ErrUserServiceUnavailable
	}

	order := &domain.Order{
		UserID: user.ID,
		Status: domain.OrderStatusCreated,
		Items:  make([]domain.OrderLine, 0, len(lines)),
	}

	for _, line := range lines {
		item, err := s.itemRepo.GetByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrItemNotFound) {
				logging.Warn(
					ctx,
					s.logger,
					"Order references unknown item",
					zap.Int64("item_id", line.ItemID),
				)

				return nil, fmt.Errorf("item %d: %w", line.ItemID, err)
			}

			return nil, fmt.Errorf("failed to load item %d: %w", line.ItemID, err)
		}

		order.Items = append(order.Items, domain.OrderLine{
			ItemID:   item.ID,
			ItemName: item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(cleanupCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logging.Warn(cleanupCtx, s.logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		logging.Error(
			ctx,
			s.logger,
			"Failed to create order",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The order is durable at this point. A lost event leaves the order in
	// CREATED until reconciled, so the publish failure is logged, not
	// propagated.
	event := &domain.OrderCreatedEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Amount:  order.Total(),
	}

	if err := s.producer.ProduceMessage(ctx, s.topic, fmt.Sprintf("%d", order.ID), event); err != nil {
		logging.Error(
			ctx,
			s.logger,
			"Failed to publish order created event",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}

	return &EnrichedOrder{Order: *order, User: user}, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id int64, identity auth.Identity) (*EnrichedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
	)

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.CanAccess(order.UserID) {
		logging.Warn(
			ctx,
			s.logger,
			"Access denied",
			zap.Int64("order_id", id),
			zap.Int64("caller_id", identity.UserID),
		)

		return nil, ErrAccessDenied
	}

	// Read-path enrichment tolerates directory degradation.
	user := s.users.GetByID(ctx, order.UserID)

	return &EnrichedOrder{Order: *order, User: user}, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.ListFilter, page repository.Page) ([]EnrichedOrder, int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, total, err := s.orderRepo.ListOrders(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	if len(orders) == 0 {
		return []EnrichedOrder{}, total, nil
	}

	// One batch round trip for all distinct owners on the page, never a
	// per-order lookup loop.
	seen := make(map[int64]struct{}, len(orders))
	ownerIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		if _, ok := seen[order.UserID]; ok {
			continue
		}
		seen[order.UserID] = struct{}{}
		ownerIDs = append(ownerIDs, order.UserID)
	}

	users := s.users.GetByIDs(ctx, ownerIDs)

	usersByID := make(map[int64]*domain.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	enriched := make([]EnrichedOrder, 0, len(orders))
	for _, order := range orders {
		user, ok := usersByID[order.UserID]
		if !ok {
			user = domain.FallbackUser()
		}

		enriched = append(enriched, EnrichedOrder{Order: order, User: user})
	}

	return enriched, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*EnrichedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
		attribute.String("status", string(status)),
	)

	// TODO: reject illegal transitions (e.g. SHIPPED -> CREATED) once the
	// allowed transition table is agreed with the payment team.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(cleanupCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logging.Warn(cleanupCtx, s.logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	if err := s.orderRepo.ChangeOrderStatus(ctx, tx, id, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user := s.users.GetByID(ctx, order.UserID)

	return &EnrichedOrder{Order: *order, User: user}, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64, identity auth.Identity) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
	)

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if !identity.CanAccess(order.UserID) {
		logging.Warn(
			ctx,
			s.logger,
			"Access denied",
			zap.Int64("order_id", id),
			zap.Int64("caller_id", identity.UserID),
		)

		return ErrAccessDenied
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(cleanupCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logging.Warn(cleanupCtx, s.logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	if err := s.orderRepo.DeleteOrder(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HandlePaymentEvent drives the deferred status reconciliation. A SUCCESS
// outcome moves the order to PROCESSED; the update is idempotent so
// redelivered events are harmless. A missing order is a consistency bug and
// the error surfaces so the stream redelivers.
func (s *orderService) HandlePaymentEvent(ctx context.Context, event *domain.PaymentEvent) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.HandlePaymentEvent")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", event.OrderID),
		attribute.String("payment_id", event.PaymentID),
		attribute.String("payment_status", string(event.Status)),
	)

	if event.Status != domain.PaymentStatusSuccess {
		logging.Info(
			ctx,
			s.logger,
			"Ignoring non-success payment outcome",
			zap.Int64("order_id", event.OrderID),
			zap.String("payment_status", string(event.Status)),
		)

		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		if err := tx.Rollback(cleanupCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logging.Warn(cleanupCtx, s.logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	if err := s.orderRepo.ChangeOrderStatus(ctx, tx, event.OrderID, domain.OrderStatusProcessed); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			logging.Error(
				ctx,
				s.logger,
				"Payment succeeded for unknown order",
				zap.Int64("order_id", event.OrderID),
				zap.String("payment_id", event.PaymentID),
			)

			return fmt.Errorf("order %d for payment %s: %w", event.OrderID, event.PaymentID, err)
		}

		return fmt.Errorf("failed to mark order processed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logging.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Info(
		ctx,
		s.logger,
		"Order marked processed",
		zap.Int64("order_id", event.OrderID),
		zap.String("payment_id", event.PaymentID),
	)

	return nil
}
