package repository

import (
	"context"
	"fmt"
	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/config"
	"reservo/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	HoldCollectionName = "BookingHolds"
)

// HoldRepository is an advisory lock over a hold collection. Acquire inserts
// a document keyed by the lock name; the unique _id makes the insert succeed
// for exactly one contender. Release deletes it; a TTL index on expires_at
// reaps holds leaked by crashed processes.
type HoldRepository interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

type mongoHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:        cfg,
		collection: db.Collection(HoldCollectionName),
	}
}

func (r *mongoHoldRepository) Acquire(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	hold := model.BookingHold{
		ID:        key,
		ExpiresAt: now.Add(r.cfg.HoldTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrHoldHeld
		}
		return fmt.Errorf("failed to acquire hold: %w", err)
	}

	return nil
}

func (r *mongoHoldRepository) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to release hold: %w", err)
	}

	return nil
}
