package model

import "time"

// Booking reserves a space for the half-open interval [StartTime, EndTime).
// Bookings are created Pending, mutated only through confirm/cancel/complete,
// and never deleted; cancellation is a status change, not removal.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpaceID     string    `json:"space_id" bson:"space_id" validate:"required,mongodb"`
	RequesterID string    `json:"requester_id" bson:"requester_id" validate:"required,min=1,max=100"`
	StartTime   time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status      Status    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	TotalPrice  float64   `json:"total_price" bson:"total_price" validate:"omitempty,gte=0"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the transient creation input. The requester identity is
// supplied separately by the credential layer and never trusted from the body.
type BookingRequest struct {
	SpaceID   string    `json:"space_id" validate:"required,mongodb"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// Overlaps reports whether two half-open intervals [start1, end1) and
// [start2, end2) share at least one instant. The single inequality pair
// subsumes all four overlap shapes; touching endpoints do not conflict.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
