package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "reservo"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Admission policy. Off by default; enabling it narrows accepted inputs.
	DefaultBookingPolicyEnabled = false
	DefaultBusinessHoursStart   = "08:00"
	DefaultBusinessHoursEnd     = "18:00"
	DefaultMinBookingDuration   = 1 * time.Hour
	DefaultMinLeadTime          = 2 * time.Hour

	DefaultCompletionSweepInterval = 1 * time.Minute
	DefaultHoldTTL                 = 10 * time.Second

	DefaultBookingEventsEnabled  = false
	DefaultBookingEventsTopic    = "reservo.booking.lifecycle"
	DefaultBookingEventsDLQTopic = "reservo.booking.lifecycle.dlq"

	DefaultPaginationLimit = 50
)
