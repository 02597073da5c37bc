package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/config"
	mongotx "reservo/pkg/db/mongo"
	"reservo/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error)
	CountByRequester(ctx context.Context, requesterID string) (int64, error)
	FindBySpace(ctx context.Context, spaceID string, from, until *time.Time, activeOnly bool) ([]*model.Booking, error)
	HasActiveOverlap(ctx context.Context, spaceID string, start, end time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id string, from []model.Status, to model.Status) error
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		// Inside a transaction we must not wrap the session context.
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func activeStatusFilter() bson.M {
	statuses := model.ActiveStatuses()
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}
	return bson.M{"$in": values}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"requester_id": requesterID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by requester: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByRequester(ctx context.Context, requesterID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"requester_id": requesterID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// FindBySpace lists a space's bookings sorted by start time. A from/until
// window narrows the result to bookings overlapping [from, until); activeOnly
// drops cancelled and completed bookings.
func (r *mongoBookingRepository) FindBySpace(ctx context.Context, spaceID string, from, until *time.Time, activeOnly bool) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"space_id": spaceID}
	if activeOnly {
		filter["status"] = activeStatusFilter()
	}
	if until != nil {
		filter["start_time"] = bson.M{"$lt": *until}
	}
	if from != nil {
		filter["end_time"] = bson.M{"$gt": *from}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by space: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// HasActiveOverlap checks the half-open interval [start, end) against all
// pending and confirmed bookings of the space. Touching endpoints do not
// overlap, hence strict $lt/$gt on both sides.
func (r *mongoBookingRepository) HasActiveOverlap(ctx context.Context, spaceID string, start, end time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"space_id":   spaceID,
		"status":     activeStatusFilter(),
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}

	return count > 0, nil
}

// UpdateStatus performs a compare-and-set: the document is updated only if
// its current status is in the expected set. ErrStatusConflict means the
// booking exists but moved concurrently; the caller re-reads and decides.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from []model.Status, to model.Status) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = s.String()
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":    objectID,
			"status": bson.M{"$in": expected},
		},
		bson.M{"$set": bson.M{"status": to.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to check booking existence: %w", err)
		}
		if exists == 0 {
			return bookingserrors.ErrNotFound
		}
		return bookingserrors.ErrStatusConflict
	}

	return nil
}

// CompleteElapsed moves every active booking whose end time has passed to
// completed in one bulk update. Pending bookings that elapse unconfirmed
// complete as well.
func (r *mongoBookingRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"status":   activeStatusFilter(),
			"end_time": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{"status": model.StatusCompleted.String()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
