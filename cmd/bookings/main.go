package main

import (
	"reservo/internal/bookings/events"
	"reservo/internal/bookings/handler"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/service"
	"reservo/internal/bookings/validator"
	spacesrepository "reservo/internal/spaces/repository"
	"reservo/pkg/app"
	"reservo/pkg/config"
	"reservo/pkg/kafka"
	kafka_config "reservo/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	bookingService, bookingRepo, producer := initServices(cfg)
	sweeper := service.NewCompletionSweeper(bookingRepo, cfg)
	sweeper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.RegisterWorker(sweeper)
	if producer != nil {
		serverApp.RegisterWorker(producerWorker{producer: producer, cfg: cfg})
	}
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, repository.BookingRepository, *kafka.Producer) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	holdRepo := repository.NewMongoHoldRepository(cfg)
	spaceRepo := spacesrepository.NewMongoSpaceRepository(cfg)
	bookingValidator := validator.NewBookingValidator(cfg)

	var producer *kafka.Producer
	if cfg.BookingEventsEnabled {
		kafkaCfg := kafka_config.Load()
		var err error
		producer, err = kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create event producer", "error", err)
		}
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.BookingEventsTopic)
	}

	publisher := events.NewPublisher(producer, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		holdRepo,
		spaceRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, bookingRepo, producer
}

// producerWorker adapts the Kafka producer to the application's worker
// lifecycle so pending events flush on shutdown.
type producerWorker struct {
	producer *kafka.Producer
	cfg      *config.Config
}

func (w producerWorker) Stop() {
	if err := w.producer.Close(); err != nil {
		w.cfg.Log.Error("Failed to close event producer", "error", err)
	}
}
