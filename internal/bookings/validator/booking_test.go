package validator

import (
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
	"testing"
	"time"
)

const testSpaceID = "65a000000000000000000001"

func policyConfig(enabled bool) *config.Config {
	open, err := config.ParseTimeOfDay("08:00")
	if err != nil {
		panic(err)
	}
	closing, err := config.ParseTimeOfDay("18:00")
	if err != nil {
		panic(err)
	}
	return &config.Config{
		BookingPolicyEnabled: enabled,
		BusinessHoursStart:   "08:00",
		BusinessHoursEnd:     "18:00",
		BusinessHoursOpen:    open,
		BusinessHoursClose:   closing,
		MinBookingDuration:   time.Hour,
		MinLeadTime:          2 * time.Hour,
	}
}

func TestValidateRequest_Interval(t *testing.T) {
	v := NewBookingValidator(policyConfig(false))
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantCode string
	}{
		{
			name:  "valid interval",
			start: base,
			end:   base.Add(time.Hour),
		},
		{
			name:     "end before start",
			start:    base,
			end:      base.Add(-time.Hour),
			wantCode: apperrors.CodeInvalidInterval,
		},
		{
			name:     "zero-length interval",
			start:    base,
			end:      base,
			wantCode: apperrors.CodeInvalidInterval,
		},
		{
			name:     "start in the past",
			start:    now.Add(-2 * time.Hour),
			end:      now.Add(-time.Hour),
			wantCode: apperrors.CodeInvalidInterval,
		},
		{
			name:  "start exactly now",
			start: now,
			end:   now.Add(time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequest(&model.BookingRequest{
				SpaceID:   testSpaceID,
				StartTime: tt.start,
				EndTime:   tt.end,
			}, now)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.IsKind(err, tt.wantCode) {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestValidateRequest_MissingFields(t *testing.T) {
	v := NewBookingValidator(policyConfig(false))
	now := time.Now().UTC()

	err := v.ValidateRequest(&model.BookingRequest{}, now)
	if !apperrors.IsKind(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error for empty request, got %v", err)
	}
}

func TestValidateRequest_PolicyDisabledByDefault(t *testing.T) {
	v := NewBookingValidator(policyConfig(false))
	now := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

	// 30 minutes long, outside business hours, starting immediately. All
	// three rules would reject this if the policy were active.
	err := v.ValidateRequest(&model.BookingRequest{
		SpaceID:   testSpaceID,
		StartTime: time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC),
	}, now)
	if err != nil {
		t.Fatalf("policy rules must not run when disabled, got %v", err)
	}
}

func TestValidateRequest_PolicyRules(t *testing.T) {
	v := NewBookingValidator(policyConfig(true))
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantRule string
	}{
		{
			name:  "within all rules",
			start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "insufficient lead time",
			start:    time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			wantRule: "min_lead_time",
		},
		{
			name:     "too short",
			start:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
			wantRule: "min_duration",
		},
		{
			name:     "starts before opening",
			start:    time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			wantRule: "business_hours",
		},
		{
			name:     "ends after closing",
			start:    time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC),
			wantRule: "business_hours",
		},
		{
			name:  "exactly at boundaries",
			start: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "spans midnight",
			start:    time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			wantRule: "business_hours",
		},
		{
			name:     "spans a full day with in-window endpoints",
			start:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
			wantRule: "business_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequest(&model.BookingRequest{
				SpaceID:   testSpaceID,
				StartTime: tt.start,
				EndTime:   tt.end,
			}, now)

			if tt.wantRule == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !apperrors.IsKind(err, apperrors.CodePolicyViolation) {
				t.Fatalf("expected policy violation, got %v", err)
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Details["rule"] != tt.wantRule {
				t.Errorf("expected rule %s, got %v", tt.wantRule, appErr.Details["rule"])
			}
		})
	}
}
