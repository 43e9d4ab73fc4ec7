package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/carvia-mobility/service-rental/internal/application"
	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/pkg/kafka"
)

// CarEventConsumer listens to car inventory events and cleans up bookings
// for cars that leave the platform.
type CarEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewCarEventConsumer creates a new CarEventConsumer.
func NewCarEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *CarEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicCarEvents, logger)
	return &CarEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming car events. This blocks until the context is
// cancelled.
func (c *CarEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CarEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CarEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from car topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case CarDeleted:
		return c.handleCarDeleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled car event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *CarEventConsumer) handleCarDeleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt CarDeletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse CarDeletedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	cancelled, err := c.service.CancelPendingForCar(ctx, carDomain.CarID(evt.CarID))
	if err != nil {
		c.logger.Error("failed to cancel pending bookings for deleted car",
			zap.Int64("car_id", evt.CarID),
			zap.Error(err),
		)
		return err
	}

	if cancelled > 0 {
		c.logger.Info("cancelled pending bookings for deleted car",
			zap.Int64("car_id", evt.CarID),
			zap.Int("cancelled", cancelled),
		)
	}
	return nil
}
