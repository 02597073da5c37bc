package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/events"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/validator"
	spaceserrors "reservo/internal/spaces/errors"
	spacesrepository "reservo/internal/spaces/repository"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// holdAttempts bounds contention on the per-space advisory lock. A request
// that cannot acquire the hold within the retry budget is told the slot is
// unavailable rather than left waiting.
const (
	holdAttempts = 3
	holdBackoff  = 50 * time.Millisecond
)

type BookingService interface {
	Create(ctx context.Context, requesterID string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, int64, error)
	ListBySpace(ctx context.Context, spaceID string, from, until *time.Time, activeOnly bool) ([]*model.Booking, error)
	IsAvailable(ctx context.Context, spaceID string, start, end time.Time) (bool, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, requesterID string, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	holds     repository.HoldRepository
	spaces    spacesrepository.SpaceRepository
	validator *validator.BookingValidator
	publisher *events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	holds repository.HoldRepository,
	spaces spacesrepository.SpaceRepository,
	validator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		holds:     holds,
		spaces:    spaces,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create books a space for [StartTime, EndTime). The availability check and
// the insert run inside one transaction, serialized per space by an advisory
// hold, so two concurrent requests for overlapping intervals cannot both
// succeed.
func (s *bookingService) Create(ctx context.Context, requesterID string, req *model.BookingRequest) (*model.Booking, error) {
	if requesterID == "" {
		return nil, apperrors.Unauthorized("Requester identity is required")
	}

	if err := s.validator.ValidateRequest(req, time.Now().UTC()); err != nil {
		s.cfg.Log.Warn("Booking request rejected",
			"space_id", req.SpaceID,
			"requester_id", requesterID,
			"error", err,
		)
		return nil, err
	}

	space, err := s.getSpace(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if !space.Available {
		return nil, apperrors.Unavailable("Space is not accepting bookings")
	}

	booking := &model.Booking{
		SpaceID:     req.SpaceID,
		RequesterID: requesterID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Status:      model.StatusPending,
		TotalPrice:  Quote(space, req.StartTime, req.EndTime),
	}

	if err := s.acquireHold(ctx, req.SpaceID); err != nil {
		return nil, err
	}
	defer s.releaseHold(req.SpaceID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlap, err := s.repo.HasActiveOverlap(sessCtx, req.SpaceID, booking.StartTime, booking.EndTime)
		if err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}
		if overlap {
			return apperrors.Unavailable("Space is already booked for the requested interval")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking",
			"space_id", req.SpaceID,
			"requester_id", requesterID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"space_id", booking.SpaceID,
		"requester_id", booking.RequesterID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
		"total_price", booking.TotalPrice,
	)

	s.publisher.BookingCreated(ctx, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return s.findBooking(ctx, id)
}

func (s *bookingService) ListByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if requesterID == "" {
		return nil, 0, apperrors.Unauthorized("Requester identity is required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByRequester(ctx, requesterID)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "requester_id", requesterID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByRequester(ctx, requesterID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"requester_id", requesterID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListBySpace(ctx context.Context, spaceID string, from, until *time.Time, activeOnly bool) ([]*model.Booking, error) {
	if spaceID == "" {
		return nil, apperrors.InvalidInput("Space ID cannot be empty")
	}
	if from != nil && until != nil && !until.After(*from) {
		return nil, apperrors.InvalidInterval("until must be strictly after from")
	}

	if _, err := s.getSpace(ctx, spaceID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindBySpace(ctx, spaceID, from, until, activeOnly)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by space",
			"space_id", spaceID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// IsAvailable answers the read-only availability probe. The answer is
// advisory: only Create decides authoritatively, under the hold.
func (s *bookingService) IsAvailable(ctx context.Context, spaceID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, apperrors.InvalidInterval("end must be strictly after start")
	}

	space, err := s.getSpace(ctx, spaceID)
	if err != nil {
		return false, err
	}
	if !space.Available {
		return false, nil
	}

	overlap, err := s.repo.HasActiveOverlap(ctx, spaceID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability",
			"space_id", spaceID,
			"error", err,
		)
		return false, apperrors.Internal("Failed to check availability", err)
	}

	return !overlap, nil
}

// Confirm moves a pending booking to confirmed. It is an administrative
// operation with no ownership check. Confirming an already confirmed booking
// is a no-op; terminal bookings are rejected.
func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.StatusConfirmed {
		return booking, nil
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.AlreadyTerminal(booking.Status.String())
	}

	err = s.repo.UpdateStatus(ctx, id, []model.Status{model.StatusPending}, model.StatusConfirmed)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusConflict) {
			return s.resolveConfirmConflict(ctx, id)
		}
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to confirm booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to confirm booking", err)
	}

	booking.Status = model.StatusConfirmed
	s.cfg.Log.Info("Booking confirmed", "id", id)
	s.publisher.BookingConfirmed(ctx, booking)

	return booking, nil
}

// resolveConfirmConflict re-reads after a compare-and-set miss. A concurrent
// confirm keeps the operation idempotent; anything else lost the race to a
// terminal transition.
func (s *bookingService) resolveConfirmConflict(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.StatusConfirmed {
		return booking, nil
	}
	return nil, apperrors.AlreadyTerminal(booking.Status.String())
}

// Cancel releases a booking's interval by moving it to cancelled. Only the
// owner may cancel, and only before the booking starts. The document stays;
// cancellation is a status change, not removal.
func (s *bookingService) Cancel(ctx context.Context, requesterID string, id string) (*model.Booking, error) {
	booking, err := s.findOwnedBooking(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, apperrors.AlreadyTerminal(booking.Status.String())
	}
	if !booking.StartTime.After(time.Now().UTC()) {
		return nil, apperrors.PolicyViolation("already_started", "cannot cancel a booking that has already started")
	}

	err = s.repo.UpdateStatus(ctx, id, model.ActiveStatuses(), model.StatusCancelled)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusConflict) {
			current, readErr := s.repo.FindByID(ctx, id)
			if readErr != nil {
				return nil, apperrors.Internal("Failed to cancel booking", readErr)
			}
			return nil, apperrors.AlreadyTerminal(current.Status.String())
		}
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.StatusCancelled
	s.cfg.Log.Info("Booking cancelled", "id", id, "requester_id", requesterID)
	s.publisher.BookingCancelled(ctx, booking)

	return booking, nil
}

func (s *bookingService) findOwnedBooking(ctx context.Context, requesterID string, id string) (*model.Booking, error) {
	if requesterID == "" {
		return nil, apperrors.Unauthorized("Requester identity is required")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.RequesterID != requesterID {
		return nil, apperrors.Unauthorized("Booking belongs to a different requester")
	}

	return booking, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) getSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	space, err := s.spaces.FindByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, spaceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Space", spaceID)
		}
		if errors.Is(err, spaceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid space ID format")
		}
		s.cfg.Log.Error("Failed to get space", "space_id", spaceID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve space", err)
	}
	return space, nil
}

func holdKey(spaceID string) string {
	return "space_hold_" + spaceID
}

func (s *bookingService) acquireHold(ctx context.Context, spaceID string) error {
	key := holdKey(spaceID)

	var err error
	for attempt := 1; attempt <= holdAttempts; attempt++ {
		err = s.holds.Acquire(ctx, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingserrors.ErrHoldHeld) {
			s.cfg.Log.Error("Failed to acquire space hold",
				"space_id", spaceID,
				"error", err,
			)
			return apperrors.Internal("Failed to reserve space for booking", err)
		}
		if attempt < holdAttempts {
			time.Sleep(time.Duration(attempt) * holdBackoff)
		}
	}

	s.cfg.Log.Warn("Space hold contended, giving up",
		"space_id", spaceID,
		"attempts", holdAttempts,
	)
	return apperrors.Unavailable("Space is being booked by another request, try again")
}

func (s *bookingService) releaseHold(spaceID string) {
	// Release on a fresh context: the request context may already be done.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.holds.Release(ctx, holdKey(spaceID)); err != nil {
		// The TTL index reaps the hold if this fails.
		s.cfg.Log.Warn("Failed to release space hold", "space_id", spaceID, "error", err)
	}
}
