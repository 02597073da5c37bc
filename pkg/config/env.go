package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBookingPolicyEnabled = "BOOKING_POLICY_ENABLED"
	EnvBusinessHoursStart   = "BUSINESS_HOURS_START"
	EnvBusinessHoursEnd     = "BUSINESS_HOURS_END"
	EnvMinBookingDuration   = "MIN_BOOKING_DURATION"
	EnvMinLeadTime          = "MIN_LEAD_TIME"

	EnvCompletionSweepInterval = "COMPLETION_SWEEP_INTERVAL"
	EnvHoldTTL                 = "HOLD_TTL"

	EnvBookingEventsEnabled  = "BOOKING_EVENTS_ENABLED"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
)
