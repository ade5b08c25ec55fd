package jobs

import (
	"context"
	"errors"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/repository"

	"go.uber.org/zap"
)

type BookingStore interface {
	ListExpiredApproved(ctx context.Context, now time.Time) ([]domain.Booking, error)
	Cancel(ctx context.Context, b *domain.Booking) error
}

type ExpiredNotifier interface {
	NotifyPaymentExpired(ctx context.Context, b *domain.Booking) error
}

// ExpirySweeper cancels approved bookings whose advance payment window has
// lapsed. It shares the cancellation CAS with the request-path lazy check,
// so a booking that expires is cancelled exactly once no matter which actor
// gets there first.
type ExpirySweeper struct {
	bookings BookingStore
	notifier ExpiredNotifier
	logger   *zap.SugaredLogger
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

func NewExpirySweeper(bookings BookingStore, notifier ExpiredNotifier, logger *zap.SugaredLogger, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep in its own goroutine.
func (s *ExpirySweeper) Start() {
	go s.run()
	s.logger.Infow("expiry sweeper started", "interval", s.interval)
}

// Stop halts the ticker. Safe to call once.
func (s *ExpirySweeper) Stop() {
	close(s.stopChan)
	s.logger.Infow("expiry sweeper stopped")
}

func (s *ExpirySweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// Sweep performs one full pass. Errors are logged and never abort the pass:
// the remaining bookings still get their chance this round, and anything
// missed is retried on the next tick.
func (s *ExpirySweeper) Sweep(ctx context.Context) (cancelled int) {
	now := s.now()
	expired, err := s.bookings.ListExpiredApproved(ctx, now)
	if err != nil {
		s.logger.Errorw("expiry scan failed", "error", err)
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	s.logger.Infow("found bookings past payment window", "count", len(expired))
	for i := range expired {
		b := expired[i]
		if err := s.bookings.Cancel(ctx, &b); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				// Someone else moved the booking (payment submitted or the
				// lazy check cancelled it). Skip; nothing to notify here.
				continue
			}
			s.logger.Errorw("failed to cancel expired booking", "booking_id", b.ID, "error", err)
			continue
		}
		cancelled++

		if err := s.notifier.NotifyPaymentExpired(ctx, &b); err != nil {
			s.logger.Warnw("expiry notification failed", "booking_id", b.ID, "error", err)
		}
	}

	if cancelled > 0 {
		s.logger.Infow("expired bookings cancelled", "count", cancelled)
	}
	return cancelled
}
