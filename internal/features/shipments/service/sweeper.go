package service

import (
	"context"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sweeper periodically refreshes every active carrier shipment so that
// statuses advance even when nobody is looking them up.
type Sweeper struct {
	tracker     *TrackingService
	repo        ports.ShipmentRepository
	interval    time.Duration
	concurrency int
	logger      *zap.Logger
}

// NewSweeper creates a new Sweeper. A non-positive interval disables Run.
func NewSweeper(tracker *TrackingService, repo ports.ShipmentRepository, interval time.Duration, concurrency int) *Sweeper {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Sweeper{
		tracker:     tracker,
		repo:        repo,
		interval:    interval,
		concurrency: concurrency,
		logger:      logger.Named("sweeper"),
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Background sweep disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Background sweep started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Background sweep stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("Sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep refreshes all active shipments once.
// Individual lookup failures are logged and do not abort the sweep.
func (s *Sweeper) Sweep(ctx context.Context) error {
	numbers, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, tn := range numbers {
		g.Go(func() error {
			if _, err := s.tracker.TrackShipment(gctx, tn); err != nil {
				s.logger.Warn("Sweep lookup failed", zap.String("tracking_number", tn), zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Debug("Sweep finished", zap.Int("shipments", len(numbers)))
	return nil
}
