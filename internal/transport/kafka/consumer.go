package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/Zaharysh37/order-service/pkg/kafka"
	"github.com/Zaharysh37/order-service/pkg/logging"
	"go.uber.org/zap"
)

// Consumer subscribes to the payment outcome stream and drives order status
// reconciliation. Handler errors leave the message unacknowledged so the
// group redelivers it.
type Consumer struct {
	service service.OrderService
	logger  *zap.Logger
	groupID string
	topics  []string
}

func NewConsumer(service service.OrderService, logger *zap.Logger, groupID string, topics []string) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
		groupID: groupID,
		topics:  topics,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) error {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		c.groupID,
		c.topics,
		c.ProcessMessage,
		c.logger,
	)

	return consumerGroup.Run(ctx)
}

func (c *Consumer) ProcessMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	logging.Info(
		ctx,
		c.logger,
		"Processing payment outcome",
		zap.String("topic", msg.Topic),
		zap.Int64("offset", msg.Offset),
	)

	var event domain.PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logging.Error(ctx, c.logger, "Error unmarshalling payment event", zap.Error(err))
		return err
	}

	if err := c.service.HandlePaymentEvent(ctx, &event); err != nil {
		logging.Error(
			ctx,
			c.logger,
			"Failed to handle payment event",
			zap.Int64("order_id", event.OrderID),
			zap.Error(err),
		)

		return err
	}

	return nil
}
