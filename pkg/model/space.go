package model

import "time"

// Space is a bookable unit with an hourly rate and an availability flag.
// Everything except Available is immutable after creation; Available is
// toggled by an administrative action.
type Space struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	Capacity     int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=1000"`
	PricePerHour float64   `json:"price_per_hour" bson:"price_per_hour" validate:"required,gt=0"`
	Available    bool      `json:"available" bson:"available"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SpaceUpdate carries the only mutable field of a space.
type SpaceUpdate struct {
	Available *bool `json:"available" validate:"required"`
}
