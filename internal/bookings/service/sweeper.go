package service

import (
	"context"
	"reservo/internal/bookings/repository"
	"reservo/pkg/config"
	"time"
)

// CompletionSweeper periodically moves elapsed active bookings to completed.
// Completion is a stateful transition applied by this sweep, not a view
// computed at read time, so queries and events see one consistent status.
type CompletionSweeper struct {
	repo     repository.BookingRepository
	cfg      *config.Config
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewCompletionSweeper(repo repository.BookingRepository, cfg *config.Config) *CompletionSweeper {
	return &CompletionSweeper{
		repo:     repo,
		cfg:      cfg,
		interval: cfg.CompletionSweepInterval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately so a restart
// catches up on bookings that elapsed while the service was down.
func (s *CompletionSweeper) Start() {
	go func() {
		defer close(s.doneCh)

		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				return
			}
		}
	}()

	s.cfg.Log.Info("Completion sweeper started", "interval", s.interval)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *CompletionSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.cfg.Log.Info("Completion sweeper stopped")
}

func (s *CompletionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	modified, err := s.repo.CompleteElapsed(ctx, time.Now().UTC())
	if err != nil {
		s.cfg.Log.Error("Completion sweep failed", "error", err)
		return
	}

	if modified > 0 {
		s.cfg.Log.Info("Completion sweep finished", "completed", modified)
	}
}
