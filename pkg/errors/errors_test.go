package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"invalid interval", InvalidInterval("start must be before end"), CodeInvalidInterval, http.StatusBadRequest},
		{"unavailable", Unavailable("space is occupied"), CodeUnavailable, http.StatusConflict},
		{"unauthorized", Unauthorized("not the booking owner"), CodeUnauthorized, http.StatusForbidden},
		{"already terminal", AlreadyTerminal("cancelled"), CodeAlreadyTerminal, http.StatusBadRequest},
		{"policy violation", PolicyViolation("lead_time", "too late to book"), CodePolicyViolation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestAlreadyTerminalDetails(t *testing.T) {
	err := AlreadyTerminal("completed")
	if err.Details["status"] != "completed" {
		t.Errorf("expected status detail 'completed', got %v", err.Details["status"])
	}
}

func TestPolicyViolationRuleDetail(t *testing.T) {
	err := PolicyViolation("business_hours", "outside business hours")
	if err.Details["rule"] != "business_hours" {
		t.Errorf("expected rule detail 'business_hours', got %v", err.Details["rule"])
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "storage failure", http.StatusInternalServerError)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause via errors.Is")
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(Unavailable("overlap"), CodeUnavailable) {
		t.Error("expected IsKind to match UNAVAILABLE")
	}
	if IsKind(Unavailable("overlap"), CodeNotFound) {
		t.Error("expected IsKind to reject mismatched code")
	}
	if IsKind(errors.New("plain"), CodeInternal) {
		t.Error("expected IsKind to reject non-AppError")
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternal {
		t.Errorf("expected plain error to convert to %s, got %s", CodeInternal, appErr.Code)
	}
	if !errors.Is(appErr, plain) {
		t.Error("expected converted error to retain cause")
	}

	original := NotFound("Space")
	if AsAppError(original) != original {
		t.Error("expected AppError to pass through unchanged")
	}
}
