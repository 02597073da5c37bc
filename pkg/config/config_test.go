package config

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "00:00", want: 0},
		{input: "08:00", want: 480},
		{input: "18:30", want: 1110},
		{input: "23:59", want: 1439},
		{input: "24:00", wantErr: true},
		{input: "8:00", wantErr: true},
		{input: "08:60", wantErr: true},
		{input: "0800", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoad_DerivesBusinessHourMinutes(t *testing.T) {
	t.Setenv(EnvBusinessHoursStart, "09:15")
	t.Setenv(EnvBusinessHoursEnd, "17:45")

	cfg := Load("test")
	if cfg.BusinessHoursOpen != 9*60+15 || cfg.BusinessHoursClose != 17*60+45 {
		t.Errorf("expected business hours 555-1065 minutes, got %d-%d",
			cfg.BusinessHoursOpen, cfg.BusinessHoursClose)
	}
}
