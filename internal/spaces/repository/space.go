package repository

import (
	"context"
	"errors"
	"fmt"
	spaceserrors "reservo/internal/spaces/errors"
	"reservo/pkg/config"
	"reservo/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Spaces"
)

type SpaceRepository interface {
	Create(ctx context.Context, space *model.Space) error
	FindByID(ctx context.Context, id string) (*model.Space, error)
	FindAvailable(ctx context.Context, limit int, offset int64) ([]*model.Space, error)
	CountAvailable(ctx context.Context) (int64, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type mongoSpaceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpaceRepository(cfg *config.Config) SpaceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpaceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSpaceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		// Inside a transaction we must not wrap the session context.
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	space.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, space)
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		space.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", spaceserrors.ErrInvalidID, id)
	}

	var space model.Space
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&space)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, spaceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find space: %w", err)
	}

	return &space, nil
}

func (r *mongoSpaceRepository) FindAvailable(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"available": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []*model.Space
	if err = cursor.All(ctx, &spaces); err != nil {
		return nil, fmt.Errorf("failed to decode spaces: %w", err)
	}

	return spaces, nil
}

func (r *mongoSpaceRepository) CountAvailable(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"available": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count spaces: %w", err)
	}

	return count, nil
}

func (r *mongoSpaceRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", spaceserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"available": available}},
	)
	if err != nil {
		return fmt.Errorf("failed to update space availability: %w", err)
	}

	if result.MatchedCount == 0 {
		return spaceserrors.ErrNotFound
	}

	return nil
}
