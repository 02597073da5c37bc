package validator

import (
	"errors"
	"fmt"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// BookingValidator gates booking creation. Shape checks come first, then the
// interval check, then the optional scheduling policy. Policy rules only run
// when enabled in configuration; the interval check always runs.
type BookingValidator struct {
	validate *validator.Validate
	cfg      *config.Config
}

func NewBookingValidator(cfg *config.Config) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (v *BookingValidator) ValidateRequest(req *model.BookingRequest, now time.Time) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return apperrors.Validation("Booking validation failed", map[string]any{
				"error": v.translateValidationErrors(validationErrs).Error(),
			})
		}
		return err
	}

	if err := v.validateInterval(req, now); err != nil {
		return err
	}

	if v.cfg.BookingPolicyEnabled {
		if err := v.validatePolicy(req, now); err != nil {
			return err
		}
	}

	return nil
}

func (v *BookingValidator) validateInterval(req *model.BookingRequest, now time.Time) error {
	if !req.EndTime.After(req.StartTime) {
		return apperrors.InvalidInterval("end_time must be strictly after start_time")
	}
	if req.StartTime.Before(now) {
		return apperrors.InvalidInterval("start_time must not be in the past")
	}
	return nil
}

func (v *BookingValidator) validatePolicy(req *model.BookingRequest, now time.Time) error {
	if req.StartTime.Sub(now) < v.cfg.MinLeadTime {
		return apperrors.PolicyViolation("min_lead_time", fmt.Sprintf(
			"bookings must start at least %s in the future", v.cfg.MinLeadTime,
		))
	}

	if req.EndTime.Sub(req.StartTime) < v.cfg.MinBookingDuration {
		return apperrors.PolicyViolation("min_duration", fmt.Sprintf(
			"bookings must last at least %s", v.cfg.MinBookingDuration,
		))
	}

	// The whole interval must sit inside the window on a single calendar
	// day; comparing clock times alone would wave through overnight spans.
	sy, sm, sd := req.StartTime.UTC().Date()
	ey, em, ed := req.EndTime.UTC().Date()
	sameDay := sy == ey && sm == em && sd == ed
	if !sameDay ||
		minuteOfDay(req.StartTime) < v.cfg.BusinessHoursOpen ||
		minuteOfDay(req.EndTime) > v.cfg.BusinessHoursClose {
		return apperrors.PolicyViolation("business_hours", fmt.Sprintf(
			"bookings must fall within business hours (%s-%s) on a single day",
			v.cfg.BusinessHoursStart, v.cfg.BusinessHoursEnd,
		))
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: translate(err),
		})
	}

	return validationErrors
}

func translate(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "mongodb":
		return "must be a valid ObjectID"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func minuteOfDay(t time.Time) int {
	return t.UTC().Hour()*60 + t.UTC().Minute()
}
