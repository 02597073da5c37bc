package config

import (
	"fmt"
	"os"
	"regexp"
	"reservo/pkg/client"
	"reservo/pkg/logger"
	"strconv"
	"time"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BookingPolicyEnabled bool
	BusinessHoursStart   string
	BusinessHoursEnd     string
	// BusinessHoursOpen/Close hold the HH:MM strings as minutes past
	// midnight, derived once during validation.
	BusinessHoursOpen  int
	BusinessHoursClose int
	MinBookingDuration time.Duration
	MinLeadTime        time.Duration

	CompletionSweepInterval time.Duration
	HoldTTL                 time.Duration

	BookingEventsEnabled  bool
	BookingEventsTopic    string
	BookingEventsDLQTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BookingPolicyEnabled: getEnvBool(EnvBookingPolicyEnabled, DefaultBookingPolicyEnabled),
		BusinessHoursStart:   getEnvStr(EnvBusinessHoursStart, DefaultBusinessHoursStart),
		BusinessHoursEnd:     getEnvStr(EnvBusinessHoursEnd, DefaultBusinessHoursEnd),
		MinBookingDuration:   getEnvDuration(EnvMinBookingDuration, DefaultMinBookingDuration),
		MinLeadTime:          getEnvDuration(EnvMinLeadTime, DefaultMinLeadTime),

		CompletionSweepInterval: getEnvDuration(EnvCompletionSweepInterval, DefaultCompletionSweepInterval),
		HoldTTL:                 getEnvDuration(EnvHoldTTL, DefaultHoldTTL),

		BookingEventsEnabled:  getEnvBool(EnvBookingEventsEnabled, DefaultBookingEventsEnabled),
		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	open, openErr := ParseTimeOfDay(cfg.BusinessHoursStart)
	if openErr != nil {
		errs = append(errs, fmt.Sprintf("BusinessHoursStart: %s", openErr))
	}
	closing, closeErr := ParseTimeOfDay(cfg.BusinessHoursEnd)
	if closeErr != nil {
		errs = append(errs, fmt.Sprintf("BusinessHoursEnd: %s", closeErr))
	}
	if openErr == nil && closeErr == nil {
		if open >= closing {
			errs = append(errs, fmt.Sprintf("BusinessHoursStart (%s) must be before BusinessHoursEnd (%s)", cfg.BusinessHoursStart, cfg.BusinessHoursEnd))
		}
		cfg.BusinessHoursOpen = open
		cfg.BusinessHoursClose = closing
	}
	if cfg.MinBookingDuration <= 0 {
		errs = append(errs, fmt.Sprintf("MinBookingDuration must be positive, got: %s", cfg.MinBookingDuration))
	}
	if cfg.MinLeadTime < 0 {
		errs = append(errs, fmt.Sprintf("MinLeadTime cannot be negative, got: %s", cfg.MinLeadTime))
	}

	if cfg.CompletionSweepInterval <= 0 {
		errs = append(errs, fmt.Sprintf("CompletionSweepInterval must be positive, got: %s", cfg.CompletionSweepInterval))
	}
	if cfg.HoldTTL <= 0 {
		errs = append(errs, fmt.Sprintf("HoldTTL must be positive, got: %s", cfg.HoldTTL))
	}

	if cfg.BookingEventsEnabled && cfg.BookingEventsTopic == "" {
		errs = append(errs, "BookingEventsTopic cannot be empty when events are enabled")
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"booking_policy_enabled", cfg.BookingPolicyEnabled,
		"business_hours_start", cfg.BusinessHoursStart,
		"business_hours_end", cfg.BusinessHoursEnd,
		"min_booking_duration", cfg.MinBookingDuration,
		"min_lead_time", cfg.MinLeadTime,
		"completion_sweep_interval", cfg.CompletionSweepInterval,
		"hold_ttl", cfg.HoldTTL,
		"booking_events_enabled", cfg.BookingEventsEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
	)
}

// ParseTimeOfDay converts an HH:MM clock string to minutes past midnight.
func ParseTimeOfDay(s string) (int, error) {
	if !timeOfDayRegex.MatchString(s) {
		return 0, fmt.Errorf("must be in HH:MM format (00:00-23:59), got: %s", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, nil
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
