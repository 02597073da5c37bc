package service

import (
	"context"
	"errors"
	spaceserrors "reservo/internal/spaces/errors"
	"reservo/internal/spaces/repository"
	"reservo/internal/spaces/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
	"reservo/pkg/sanitizer"
	"sync"
)

type SpaceService interface {
	Create(ctx context.Context, space *model.Space) error
	GetByID(ctx context.Context, id string) (*model.Space, error)
	ListAvailable(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error)
	SetAvailability(ctx context.Context, id string, updates *model.SpaceUpdate) error
}

type spaceService struct {
	repo      repository.SpaceRepository
	validator *validator.SpaceValidator
	cfg       *config.Config
}

func NewSpaceService(
	repo repository.SpaceRepository,
	validator *validator.SpaceValidator,
	cfg *config.Config,
) SpaceService {
	return &spaceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *spaceService) Create(ctx context.Context, space *model.Space) error {
	s.sanitize(space)

	// New spaces are bookable until an operator says otherwise.
	space.Available = true

	if err := s.validator.Validate(space); err != nil {
		s.cfg.Log.Warn("Space validation failed",
			"name", space.Name,
			"error", err,
		)
		return apperrors.Validation("Space validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, space); err != nil {
		s.cfg.Log.Error("Failed to create space",
			"name", space.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create space", err)
	}

	s.cfg.Log.Info("Space created successfully",
		"id", space.ID,
		"name", space.Name,
		"capacity", space.Capacity,
		"price_per_hour", space.PricePerHour,
	)

	return nil
}

func (s *spaceService) GetByID(ctx context.Context, id string) (*model.Space, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Space ID cannot be empty")
	}

	space, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, spaceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Space", id)
		}
		if errors.Is(err, spaceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid space ID format")
		}
		s.cfg.Log.Error("Failed to get space by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve space", err)
	}

	return space, nil
}

func (s *spaceService) ListAvailable(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var spaces []*model.Space
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountAvailable(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count spaces", "error", err)
			errCount = apperrors.Internal("Failed to count spaces", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		spaces, err = s.repo.FindAvailable(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list spaces",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve spaces", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return spaces, count, nil
}

func (s *spaceService) SetAvailability(ctx context.Context, id string, updates *model.SpaceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Space ID cannot be empty")
	}
	if updates == nil || updates.Available == nil {
		return apperrors.InvalidInput("Availability flag must be provided")
	}

	if err := s.repo.SetAvailability(ctx, id, *updates.Available); err != nil {
		if errors.Is(err, spaceserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Space", id)
		}
		if errors.Is(err, spaceserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid space ID format")
		}
		s.cfg.Log.Error("Failed to update space availability",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update space availability", err)
	}

	s.cfg.Log.Info("Space availability updated",
		"id", id,
		"available", *updates.Available,
	)

	return nil
}

func (s *spaceService) sanitize(space *model.Space) {
	space.Name = sanitizer.NormalizeName(space.Name)
	space.Description = sanitizer.NormalizeDescription(space.Description)
}
