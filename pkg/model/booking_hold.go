package model

import "time"

// BookingHold is an advisory lock serializing the availability check and
// insert for a single space. The unique _id insert either succeeds or fails
// atomically; a TTL index on expires_at reaps holds leaked by crashed workers.
type BookingHold struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
