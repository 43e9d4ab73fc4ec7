package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/carvia-mobility/service-rental/internal/domain/booking"
	"github.com/carvia-mobility/service-rental/pkg/kafka"
)

const eventSource = "service-rental"

// BookingEventPublisher publishes booking lifecycle events to Kafka.
// Publishing is best-effort: failures are logged and never propagate to
// the booking operation that triggered them.
type BookingEventPublisher struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewBookingEventPublisher creates a publisher over the given producer.
func NewBookingEventPublisher(producer *kafka.Producer, logger *zap.Logger) *BookingEventPublisher {
	return &BookingEventPublisher{producer: producer, logger: logger}
}

// BookingCreated announces a newly admitted booking.
func (p *BookingEventPublisher) BookingCreated(ctx context.Context, b *bookingDomain.Booking) {
	p.publish(ctx, BookingRequested, b)
}

// BookingStateChanged announces a completed state transition.
func (p *BookingEventPublisher) BookingStateChanged(ctx context.Context, b *bookingDomain.Booking, from bookingDomain.BookingState) {
	var eventType string
	switch b.State() {
	case bookingDomain.StateAccepted:
		eventType = BookingAccepted
	case bookingDomain.StateDeclined:
		eventType = BookingDeclined
	case bookingDomain.StatePickedUp:
		eventType = BookingPickedUp
	case bookingDomain.StateReturned:
		eventType = BookingReturned
	default:
		p.logger.Warn("no event type for booking state",
			zap.String("state", string(b.State())),
		)
		return
	}
	p.publish(ctx, eventType, b)
}

// BookingCancelled announces a deleted booking.
func (p *BookingEventPublisher) BookingCancelled(ctx context.Context, b *bookingDomain.Booking) {
	p.publish(ctx, BookingCancelled, b)
}

func (p *BookingEventPublisher) publish(ctx context.Context, eventType string, b *bookingDomain.Booking) {
	evt := BookingEvent{
		BookingID:  int64(b.ID()),
		CarID:      int64(b.CarID()),
		RenterID:   int64(b.RenterID()),
		State:      string(b.State()),
		StartDate:  b.StartDate(),
		EndDate:    b.EndDate(),
		OccurredAt: time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, evt)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, TopicBookingEvents, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
