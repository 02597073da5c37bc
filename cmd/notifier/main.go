package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"reservo/internal/bookings/events"
	"reservo/pkg/kafka"
	kafka_config "reservo/pkg/kafka/config"
	"reservo/pkg/logger"
)

const (
	ServiceName = "notifier"
	GroupID     = "reservo-notifier"
)

// The notifier consumes booking lifecycle events and dispatches requester
// notifications. Delivery is currently a structured log line; the consumer
// group, retry and DLQ wiring are the durable part.
func main() {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: ServiceName,
	})

	topic := os.Getenv("BOOKING_EVENTS_TOPIC")
	if topic == "" {
		topic = "reservo.booking.lifecycle"
	}
	dlqTopic := os.Getenv("BOOKING_EVENTS_DLQ_TOPIC")
	if dlqTopic == "" {
		dlqTopic = "reservo.booking.lifecycle.dlq"
	}

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(kafkaCfg, topic, GroupID, dlqTopic, handleEvent(log))
	if err != nil {
		log.Fatal("Failed to create consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	log.Info("Notifier started", "topic", topic, "group_id", GroupID)
	if err := consumer.Start(ctx); err != nil {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifier stopped")
}

func handleEvent(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			log.Error("Failed to decode booking event",
				"event_id", msg.GetEventID(),
				"error", err,
			)
			return err
		}

		log.Info("Notifying requester",
			"event_type", event.EventType,
			"event_id", msg.GetEventID(),
			"booking_id", event.BookingID,
			"space_id", event.SpaceID,
			"requester_id", event.RequesterID,
			"start_time", event.StartTime,
			"end_time", event.EndTime,
			"status", event.Status,
		)
		return nil
	}
}
