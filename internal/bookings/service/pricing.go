package service

import (
	"reservo/pkg/model"
	"time"
)

// Quote prices the half-open interval [start, end) at the space's hourly
// rate, prorated by the second. The product is returned exactly, without
// rounding, so price stays strictly linear in duration; presentation-level
// rounding is the caller's concern. Price depends on duration only, never
// on where the interval sits in the day.
func Quote(space *model.Space, start, end time.Time) float64 {
	hours := end.Sub(start).Seconds() / 3600.0
	return space.PricePerHour * hours
}
