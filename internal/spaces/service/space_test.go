package service

import (
	"context"
	"errors"
	spaceserrors "reservo/internal/spaces/errors"
	"reservo/internal/spaces/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/logger"
	"reservo/pkg/model"
	"testing"
	"time"
)

type mockSpaceRepository struct {
	createFunc          func(ctx context.Context, space *model.Space) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Space, error)
	findAvailableFunc   func(ctx context.Context, limit int, offset int64) ([]*model.Space, error)
	countAvailableFunc  func(ctx context.Context) (int64, error)
	setAvailabilityFunc func(ctx context.Context, id string, available bool) error
}

func (m *mockSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, space)
	}
	return nil
}

func (m *mockSpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, spaceserrors.ErrNotFound
}

func (m *mockSpaceRepository) FindAvailable(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	if m.findAvailableFunc != nil {
		return m.findAvailableFunc(ctx, limit, offset)
	}
	return []*model.Space{}, nil
}

func (m *mockSpaceRepository) CountAvailable(ctx context.Context) (int64, error) {
	if m.countAvailableFunc != nil {
		return m.countAvailableFunc(ctx)
	}
	return 0, nil
}

func (m *mockSpaceRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.setAvailabilityFunc != nil {
		return m.setAvailabilityFunc(ctx, id, available)
	}
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func TestCreate_SanitizesAndDefaults(t *testing.T) {
	var stored *model.Space
	mockRepo := &mockSpaceRepository{
		createFunc: func(ctx context.Context, space *model.Space) error {
			stored = space
			return nil
		},
	}

	svc := NewSpaceService(mockRepo, validator.NewSpaceValidator(), testConfig())

	space := &model.Space{
		Name:         "  Meeting   Room  ",
		Capacity:     4,
		PricePerHour: 10,
		Available:    false,
	}

	if err := svc.Create(context.Background(), space); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected repository Create to be called")
	}
	if stored.Name != "Meeting Room" {
		t.Errorf("expected normalized name, got %q", stored.Name)
	}
	if !stored.Available {
		t.Error("expected new space to default to available")
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	called := false
	mockRepo := &mockSpaceRepository{
		createFunc: func(ctx context.Context, space *model.Space) error {
			called = true
			return nil
		},
	}

	svc := NewSpaceService(mockRepo, validator.NewSpaceValidator(), testConfig())

	err := svc.Create(context.Background(), &model.Space{
		Name:         "x",
		Capacity:     0,
		PricePerHour: -5,
	})
	if !apperrors.IsKind(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Error("repository must not be called when validation fails")
	}
}

func TestGetByID_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{
			name:     "empty ID",
			id:       "",
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "not found",
			id:       "65a000000000000000000001",
			repoErr:  spaceserrors.ErrNotFound,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "malformed ID",
			id:       "not-an-oid",
			repoErr:  spaceserrors.ErrInvalidID,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "storage failure",
			id:       "65a000000000000000000001",
			repoErr:  errors.New("connection reset"),
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockSpaceRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Space, error) {
					return nil, tt.repoErr
				},
			}
			svc := NewSpaceService(mockRepo, validator.NewSpaceValidator(), testConfig())

			_, err := svc.GetByID(context.Background(), tt.id)
			if !apperrors.IsKind(err, tt.wantCode) {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestListAvailable_ConcurrentCountAndFind(t *testing.T) {
	mockRepo := &mockSpaceRepository{
		countAvailableFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(10 * time.Millisecond)
			return 42, nil
		},
		findAvailableFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
			time.Sleep(10 * time.Millisecond)
			return []*model.Space{
				{ID: "1", Name: "Room A"},
				{ID: "2", Name: "Room B"},
			}, nil
		},
	}

	svc := NewSpaceService(mockRepo, validator.NewSpaceValidator(), testConfig())

	spaces, count, err := svc.ListAvailable(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected count 42, got %d", count)
	}
	if len(spaces) != 2 {
		t.Errorf("expected 2 spaces, got %d", len(spaces))
	}
}

func TestListAvailable_LimitNormalization(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	mockRepo := &mockSpaceRepository{
		findAvailableFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
			gotLimit = limit
			gotOffset = offset
			return nil, nil
		},
	}

	svc := NewSpaceService(mockRepo, validator.NewSpaceValidator(), testConfig())

	if _, _, err := svc.ListAvailable(context.Background(), -3, -7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 10 {
		t.Errorf("expected default limit 10, got %d", gotLimit)
	}
	if gotOffset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", gotOffset)
	}
}

func TestSetAvailability(t *testing.T) {
	available := false
	var gotID string
	var gotFlag bool
	mockRepo := &mockSpaceRepository{
		setAvailabilityFunc: func(ctx context.Context, id string, flag bool) error {
			gotID = id
			gotFlag = flag
			return nil
		},
	}

	svc := NewSpaceService(mockRepo, validator.NewSpaceValidator(), testConfig())

	err := svc.SetAvailability(context.Background(), "65a000000000000000000001", &model.SpaceUpdate{Available: &available})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "65a000000000000000000001" || gotFlag != false {
		t.Errorf("unexpected repository call: id=%s flag=%v", gotID, gotFlag)
	}

	err = svc.SetAvailability(context.Background(), "65a000000000000000000001", &model.SpaceUpdate{})
	if !apperrors.IsKind(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input for missing flag, got %v", err)
	}
}
