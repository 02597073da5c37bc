package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/validator"
	spaceserrors "reservo/internal/spaces/errors"
	"reservo/pkg/config"
	mongotx "reservo/pkg/db/mongo"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

const (
	testSpaceID   = "65a000000000000000000001"
	testBookingID = "65b000000000000000000001"
	testRequester = "requester-1"
)

// ────────────────────────────────────────────────
// Mock repositories
// ────────────────────────────────────────────────

// mockBookingRepository keeps bookings in memory and runs "transactions" by
// serializing the callback under a mutex, which preserves the check-then-act
// atomicity the service relies on.
type mockBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	nextID   int

	updateStatusFunc func(ctx context.Context, id string, from []model.Status, to model.Status) error
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{
		bookings: make(map[string]*model.Booking),
		nextID:   1,
	}
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = testBookingID[:len(testBookingID)-1] + string(rune('0'+m.nextID%10))
	m.nextID++
	booking.CreatedAt = time.Now().UTC()
	clone := *booking
	m.bookings[booking.ID] = &clone
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *mockBookingRepository) FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.RequesterID == requesterID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) CountByRequester(ctx context.Context, requesterID string) (int64, error) {
	bookings, _ := m.FindByRequester(ctx, requesterID, 0, 0)
	return int64(len(bookings)), nil
}

func (m *mockBookingRepository) FindBySpace(ctx context.Context, spaceID string, from, until *time.Time, activeOnly bool) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.SpaceID != spaceID {
			continue
		}
		if activeOnly && !b.Status.IsActive() {
			continue
		}
		if until != nil && !b.StartTime.Before(*until) {
			continue
		}
		if from != nil && !b.EndTime.After(*from) {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockBookingRepository) HasActiveOverlap(ctx context.Context, spaceID string, start, end time.Time) (bool, error) {
	for _, b := range m.bookings {
		if b.SpaceID != spaceID || !b.Status.IsActive() {
			continue
		}
		if model.Overlaps(b.StartTime, b.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from []model.Status, to model.Status) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			return nil
		}
	}
	return bookingserrors.ErrStatusConflict
}

func (m *mockBookingRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if b.Status.IsActive() && !b.EndTime.After(now) {
			b.Status = model.StatusCompleted
			n++
		}
	}
	return n, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(mongo.SessionContext(nil))
}

// mockHoldRepository grants each key to one holder at a time.
type mockHoldRepository struct {
	mu    sync.Mutex
	holds map[string]bool
}

func newMockHoldRepository() *mockHoldRepository {
	return &mockHoldRepository{holds: make(map[string]bool)}
}

func (m *mockHoldRepository) Acquire(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holds[key] {
		return bookingserrors.ErrHoldHeld
	}
	m.holds[key] = true
	return nil
}

func (m *mockHoldRepository) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holds, key)
	return nil
}

type mockSpaceRepository struct {
	spaces map[string]*model.Space
}

func (m *mockSpaceRepository) Create(ctx context.Context, space *model.Space) error { return nil }

func (m *mockSpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	if s, ok := m.spaces[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, spaceserrors.ErrNotFound
}

func (m *mockSpaceRepository) FindAvailable(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	return nil, nil
}

func (m *mockSpaceRepository) CountAvailable(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockSpaceRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	return nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:                log,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		HoldTTL:            30 * time.Second,
		BusinessHoursStart: "08:00",
		BusinessHoursEnd:   "18:00",
		MinBookingDuration: time.Hour,
		MinLeadTime:        2 * time.Hour,
	}
}

type fixture struct {
	repo   *mockBookingRepository
	holds  *mockHoldRepository
	spaces *mockSpaceRepository
	svc    BookingService
}

func newFixture() *fixture {
	cfg := testConfig()
	repo := newMockBookingRepository()
	holds := newMockHoldRepository()
	spaces := &mockSpaceRepository{spaces: map[string]*model.Space{
		testSpaceID: {
			ID:           testSpaceID,
			Name:         "Room A",
			Capacity:     10,
			PricePerHour: 20,
			Available:    true,
		},
	}}

	svc := NewBookingService(repo, holds, spaces, validator.NewBookingValidator(cfg), nil, cfg)
	return &fixture{repo: repo, holds: holds, spaces: spaces, svc: svc}
}

// intervalBase anchors test intervals two days out so creation-time checks
// against the real clock always see a future start.
var intervalBase = time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)

func interval(startHour, endHour int) (time.Time, time.Time) {
	return intervalBase.Add(time.Duration(startHour) * time.Hour), intervalBase.Add(time.Duration(endHour) * time.Hour)
}

func request(startHour, endHour int) *model.BookingRequest {
	start, end := interval(startHour, endHour)
	return &model.BookingRequest{SpaceID: testSpaceID, StartTime: start, EndTime: end}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.Create(context.Background(), testRequester, request(10, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPending {
		t.Errorf("new booking must be pending, got %s", booking.Status)
	}
	if booking.TotalPrice != 40 {
		t.Errorf("expected price 40 for 2h at 20/h, got %v", booking.TotalPrice)
	}
	if booking.RequesterID != testRequester {
		t.Errorf("expected requester %s, got %s", testRequester, booking.RequesterID)
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), testRequester, request(10, 12)); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	tests := []struct {
		name         string
		startHour    int
		endHour      int
		wantConflict bool
	}{
		{"identical interval", 10, 12, true},
		{"contained interval", 10, 11, true},
		{"straddles start", 9, 11, true},
		{"straddles end", 11, 13, true},
		{"touching before", 8, 10, false},
		{"touching after", 12, 14, false},
		{"disjoint", 14, 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), "other-requester", request(tt.startHour, tt.endHour))
			if tt.wantConflict {
				if !apperrors.IsKind(err, apperrors.CodeUnavailable) {
					t.Fatalf("expected unavailable, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	}
}

func TestCreate_CancelledBookingFreesInterval(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.Create(context.Background(), testRequester, request(10, 12))
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	if _, err := f.svc.Create(context.Background(), "other", request(10, 12)); !apperrors.IsKind(err, apperrors.CodeUnavailable) {
		t.Fatalf("expected conflict before cancellation, got %v", err)
	}

	if _, err := f.svc.Cancel(context.Background(), testRequester, booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := f.svc.Create(context.Background(), "other", request(10, 12)); err != nil {
		t.Fatalf("cancelled interval must be bookable again, got %v", err)
	}
}

func TestCreate_UnavailableSpace(t *testing.T) {
	f := newFixture()
	f.spaces.spaces[testSpaceID].Available = false

	_, err := f.svc.Create(context.Background(), testRequester, request(10, 12))
	if !apperrors.IsKind(err, apperrors.CodeUnavailable) {
		t.Fatalf("expected unavailable for disabled space, got %v", err)
	}
}

func TestCreate_UnknownSpace(t *testing.T) {
	f := newFixture()

	req := request(10, 12)
	req.SpaceID = "65a0000000000000000000ff"
	_, err := f.svc.Create(context.Background(), testRequester, req)
	if !apperrors.IsKind(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreate_InvalidIntervalNeverReachesStorage(t *testing.T) {
	f := newFixture()

	start, _ := interval(10, 12)
	_, err := f.svc.Create(context.Background(), testRequester, &model.BookingRequest{
		SpaceID:   testSpaceID,
		StartTime: start,
		EndTime:   start,
	})
	if !apperrors.IsKind(err, apperrors.CodeInvalidInterval) {
		t.Fatalf("expected invalid interval, got %v", err)
	}
	if len(f.repo.bookings) != 0 {
		t.Error("rejected request must not create a booking")
	}
}

func TestCreate_MissingRequester(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), "", request(10, 12))
	if !apperrors.IsKind(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreate_ConcurrentRequestsOneWinner(t *testing.T) {
	f := newFixture()

	const contenders = 8
	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), testRequester, request(10, 12))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !apperrors.IsKind(err, apperrors.CodeUnavailable) {
			t.Errorf("loser must see unavailable, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("exactly one concurrent create must succeed, got %d", succeeded)
	}
}

// ────────────────────────────────────────────────
// Lifecycle
// ────────────────────────────────────────────────

func TestConfirm(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))

	confirmed, err := f.svc.Confirm(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmed.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}

	// Confirming again is a no-op, not an error.
	again, err := f.svc.Confirm(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("repeat confirm must be idempotent, got %v", err)
	}
	if again.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", again.Status)
	}
}

func TestConfirm_TerminalRejected(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))
	if _, err := f.svc.Cancel(context.Background(), testRequester, booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := f.svc.Confirm(context.Background(), booking.ID)
	if !apperrors.IsKind(err, apperrors.CodeAlreadyTerminal) {
		t.Fatalf("expected already terminal, got %v", err)
	}
}

func TestConfirm_UnknownBooking(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Confirm(context.Background(), "65b0000000000000000000ff")
	if !apperrors.IsKind(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConfirm_LostRaceToConcurrentConfirm(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))

	// First CAS attempt misses because another request confirmed in between.
	calls := 0
	f.repo.updateStatusFunc = func(ctx context.Context, id string, from []model.Status, to model.Status) error {
		calls++
		f.repo.updateStatusFunc = nil
		stored := f.repo.bookings[id]
		stored.Status = model.StatusConfirmed
		return bookingserrors.ErrStatusConflict
	}

	confirmed, err := f.svc.Confirm(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("losing to a concurrent confirm must stay idempotent, got %v", err)
	}
	if confirmed.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}
	if calls != 1 {
		t.Errorf("expected one CAS attempt, got %d", calls)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))

	cancelled, err := f.svc.Cancel(context.Background(), testRequester, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	// The booking survives as a record.
	stored, err := f.repo.FindByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("cancelled booking must remain stored: %v", err)
	}
	if stored.Status != model.StatusCancelled {
		t.Errorf("expected stored status cancelled, got %s", stored.Status)
	}

	// Cancelling again fails: cancelled is terminal.
	_, err = f.svc.Cancel(context.Background(), testRequester, booking.ID)
	if !apperrors.IsKind(err, apperrors.CodeAlreadyTerminal) {
		t.Fatalf("expected already terminal, got %v", err)
	}
}

func TestCancel_WrongRequester(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))

	_, err := f.svc.Cancel(context.Background(), "intruder", booking.ID)
	if !apperrors.IsKind(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	stored, _ := f.repo.FindByID(context.Background(), booking.ID)
	if stored.Status != model.StatusPending {
		t.Errorf("rejected cancel must not change status, got %s", stored.Status)
	}
}

func TestCancel_AlreadyStarted(t *testing.T) {
	f := newFixture()

	started := &model.Booking{
		ID:          testBookingID,
		SpaceID:     testSpaceID,
		RequesterID: testRequester,
		StartTime:   time.Now().UTC().Add(-time.Hour),
		EndTime:     time.Now().UTC().Add(time.Hour),
		Status:      model.StatusConfirmed,
	}
	f.repo.bookings[started.ID] = started

	_, err := f.svc.Cancel(context.Background(), testRequester, started.ID)
	if !apperrors.IsKind(err, apperrors.CodePolicyViolation) {
		t.Fatalf("expected policy violation for started booking, got %v", err)
	}

	stored, _ := f.repo.FindByID(context.Background(), started.ID)
	if stored.Status != model.StatusConfirmed {
		t.Errorf("rejected cancel must not change status, got %s", stored.Status)
	}
}

func TestCancel_ConfirmedBooking(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))
	if _, err := f.svc.Confirm(context.Background(), booking.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	cancelled, err := f.svc.Cancel(context.Background(), testRequester, booking.ID)
	if err != nil {
		t.Fatalf("confirmed bookings must be cancellable, got %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
}

// ────────────────────────────────────────────────
// Queries
// ────────────────────────────────────────────────

func TestGetByID(t *testing.T) {
	f := newFixture()
	booking, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))

	got, err := f.svc.GetByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != booking.ID {
		t.Errorf("expected booking %s, got %s", booking.ID, got.ID)
	}

	if _, err := f.svc.GetByID(context.Background(), "65b0000000000000000000ff"); !apperrors.IsKind(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := f.svc.GetByID(context.Background(), ""); !apperrors.IsKind(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input for empty ID, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), testRequester, request(10, 12)); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	start, end := interval(10, 12)
	available, err := f.svc.IsAvailable(context.Background(), testSpaceID, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if available {
		t.Error("booked interval must report unavailable")
	}

	start, end = interval(12, 14)
	available, err = f.svc.IsAvailable(context.Background(), testSpaceID, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("touching interval must report available")
	}

	if _, err := f.svc.IsAvailable(context.Background(), testSpaceID, end, start); !apperrors.IsKind(err, apperrors.CodeInvalidInterval) {
		t.Fatalf("expected invalid interval, got %v", err)
	}
}

func TestListBySpace_ActiveFilter(t *testing.T) {
	f := newFixture()
	kept, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))
	dropped, _ := f.svc.Create(context.Background(), testRequester, request(14, 16))
	if _, err := f.svc.Cancel(context.Background(), testRequester, dropped.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	all, err := f.svc.ListBySpace(context.Background(), testSpaceID, nil, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 bookings without filter, got %d", len(all))
	}

	active, err := f.svc.ListBySpace(context.Background(), testSpaceID, nil, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Errorf("expected only the active booking, got %v", active)
	}
}

func TestListBySpace_InvalidWindow(t *testing.T) {
	f := newFixture()
	from, until := interval(12, 10)

	_, err := f.svc.ListBySpace(context.Background(), testSpaceID, &from, &until, false)
	if !apperrors.IsKind(err, apperrors.CodeInvalidInterval) {
		t.Fatalf("expected invalid interval, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Completion sweep
// ────────────────────────────────────────────────

func TestCompleteElapsed(t *testing.T) {
	f := newFixture()

	now := intervalBase.Add(13 * time.Hour)
	elapsed, _ := f.svc.Create(context.Background(), testRequester, request(10, 12))
	running, _ := f.svc.Create(context.Background(), testRequester, request(12, 14))
	cancelled, _ := f.svc.Create(context.Background(), testRequester, request(8, 9))
	if _, err := f.svc.Cancel(context.Background(), testRequester, cancelled.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	modified, err := f.repo.CompleteElapsed(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if modified != 1 {
		t.Errorf("expected 1 completed booking, got %d", modified)
	}

	b, _ := f.repo.FindByID(context.Background(), elapsed.ID)
	if b.Status != model.StatusCompleted {
		t.Errorf("elapsed pending booking must complete, got %s", b.Status)
	}
	b, _ = f.repo.FindByID(context.Background(), running.ID)
	if b.Status != model.StatusPending {
		t.Errorf("running booking must stay pending, got %s", b.Status)
	}
	b, _ = f.repo.FindByID(context.Background(), cancelled.ID)
	if b.Status != model.StatusCancelled {
		t.Errorf("cancelled booking must stay cancelled, got %s", b.Status)
	}
}
