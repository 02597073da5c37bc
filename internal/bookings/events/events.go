package events

import (
	"context"
	"reservo/pkg/kafka"
	"reservo/pkg/logger"
	"reservo/pkg/model"
	"time"
)

// Event types carried in the event-type header and payload.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"

	schemaVersion = "1"
	source        = "bookings"
)

// BookingEvent is the payload published on every lifecycle change.
type BookingEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   string    `json:"booking_id"`
	SpaceID     string    `json:"space_id"`
	RequesterID string    `json:"requester_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	TotalPrice  float64   `json:"total_price"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. A nil Publisher is a no-op so
// services run unchanged when eventing is disabled. Publish failures are
// logged, never surfaced: the booking write already committed.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCreated, booking)
}

func (p *Publisher) BookingConfirmed(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingConfirmed, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCancelled, booking)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil || p.producer == nil {
		return
	}

	event := BookingEvent{
		EventType:   eventType,
		BookingID:   booking.ID,
		SpaceID:     booking.SpaceID,
		RequesterID: booking.RequesterID,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Status:      booking.Status.String(),
		TotalPrice:  booking.TotalPrice,
		OccurredAt:  time.Now().UTC(),
	}

	// Key by booking ID so all events of one booking land on one partition
	// and stay ordered.
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
