package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Conference Room A", "Conference Room A"},
		{"surrounding whitespace", "  Conference Room A  ", "Conference Room A"},
		{"interior runs collapsed", "Conference   Room\t\tA", "Conference Room A"},
		{"newlines collapsed", "Conference\nRoom\nA", "Conference Room A"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"unicode preserved", "Sala  de  Reuniões", "Sala de Reuniões"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
