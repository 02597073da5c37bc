package model

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	day := time.Date(2031, 5, 12, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		conflict bool
	}{
		{"new starts inside existing", at(10, 0), at(12, 0), at(11, 0), at(13, 0), true},
		{"new ends inside existing", at(11, 0), at(13, 0), at(10, 0), at(12, 0), true},
		{"new contains existing", at(9, 0), at(14, 0), at(10, 0), at(12, 0), true},
		{"existing contains new", at(10, 0), at(12, 0), at(9, 0), at(14, 0), true},
		{"identical intervals", at(10, 0), at(12, 0), at(10, 0), at(12, 0), true},
		{"touching endpoints do not conflict", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"one minute past the boundary conflicts", at(10, 0), at(11, 1), at(11, 0), at(12, 0), true},
		{"disjoint intervals", at(8, 0), at(9, 0), at(11, 0), at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.conflict {
				t.Errorf("Overlaps = %v, want %v", got, tt.conflict)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.conflict {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.conflict)
			}
		})
	}
}
