package jobs

import (
	"context"
	"testing"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) ListExpiredApproved(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) Cancel(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type MockExpiredNotifier struct {
	mock.Mock
}

func (m *MockExpiredNotifier) NotifyPaymentExpired(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func TestSweep_CancelsAndNotifies(t *testing.T) {
	store := new(MockBookingStore)
	notifier := new(MockExpiredNotifier)
	sweeper := NewExpirySweeper(store, notifier, zap.NewNop().Sugar(), time.Hour)

	expired := []domain.Booking{
		{ID: 1, Status: domain.BookingApproved},
		{ID: 2, Status: domain.BookingApproved},
	}
	store.On("ListExpiredApproved", mock.Anything, mock.Anything).Return(expired, nil)
	store.On("Cancel", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyPaymentExpired", mock.Anything, mock.Anything).Return(nil)

	cancelled := sweeper.Sweep(context.Background())

	assert.Equal(t, 2, cancelled)
	notifier.AssertNumberOfCalls(t, "NotifyPaymentExpired", 2)
}

func TestSweep_LostRaceSkipsQuietly(t *testing.T) {
	store := new(MockBookingStore)
	notifier := new(MockExpiredNotifier)
	sweeper := NewExpirySweeper(store, notifier, zap.NewNop().Sugar(), time.Hour)

	expired := []domain.Booking{
		{ID: 1, Status: domain.BookingApproved},
		{ID: 2, Status: domain.BookingApproved},
	}
	store.On("ListExpiredApproved", mock.Anything, mock.Anything).Return(expired, nil)
	// booking 1 was already moved by the request path
	store.On("Cancel", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool { return b.ID == 1 })).
		Return(repository.ErrVersionConflict)
	store.On("Cancel", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool { return b.ID == 2 })).
		Return(nil)
	notifier.On("NotifyPaymentExpired", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool { return b.ID == 2 })).
		Return(nil)

	cancelled := sweeper.Sweep(context.Background())

	assert.Equal(t, 1, cancelled)
	notifier.AssertNumberOfCalls(t, "NotifyPaymentExpired", 1)
}

func TestSweep_EmptyScan(t *testing.T) {
	store := new(MockBookingStore)
	notifier := new(MockExpiredNotifier)
	sweeper := NewExpirySweeper(store, notifier, zap.NewNop().Sugar(), time.Hour)

	store.On("ListExpiredApproved", mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
	notifier.AssertNotCalled(t, "NotifyPaymentExpired", mock.Anything, mock.Anything)
}
