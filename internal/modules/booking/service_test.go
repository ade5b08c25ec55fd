package booking

import (
	"context"
	"testing"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/modules/payment"
	"eventgenie/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Approve(ctx context.Context, b *domain.Booking, vendorNotes string, approvedAt, expiry time.Time) error {
	args := m.Called(ctx, b, vendorNotes, approvedAt, expiry)
	return args.Error(0)
}

func (m *MockBookingRepository) Reject(ctx context.Context, b *domain.Booking, vendorNotes string, decidedAt time.Time) error {
	args := m.Called(ctx, b, vendorNotes, decidedAt)
	return args.Error(0)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) RecordPaymentSubmission(ctx context.Context, b *domain.Booking, txnID string, submittedAt time.Time) error {
	args := m.Called(ctx, b, txnID, submittedAt)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkVerificationFailed(ctx context.Context, b *domain.Booking, notes string, verifiedAt time.Time) error {
	args := m.Called(ctx, b, notes, verifiedAt)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkAdvanceVerified(ctx context.Context, b *domain.Booking, notes string, verifiedAt time.Time) error {
	args := m.Called(ctx, b, notes, verifiedAt)
	return args.Error(0)
}

func (m *MockBookingRepository) Complete(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type MockServiceCatalog struct {
	mock.Mock
}

func (m *MockServiceCatalog) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceCatalog) IsDateBlocked(ctx context.Context, serviceID int64, date string) (bool, error) {
	args := m.Called(ctx, serviceID, date)
	return args.Bool(0), args.Error(1)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockAccounts) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingRequested(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockNotificationSender) NotifyBookingApproved(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockNotificationSender) NotifyBookingRejected(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockNotificationSender) NotifyPaymentSubmitted(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockNotificationSender) NotifyPaymentVerified(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockNotificationSender) NotifyPaymentFailed(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockNotificationSender) NotifyPaymentExpired(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type MockIntentGenerator struct {
	mock.Mock
}

func (m *MockIntentGenerator) Generate(upiID string, amount int64, payeeName, description string) (*payment.Intent, error) {
	args := m.Called(upiID, amount, payeeName, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

type MockCaptureProvider struct {
	mock.Mock
}

func (m *MockCaptureProvider) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockCaptureProvider) CreateOrder(ctx context.Context, amount int64, currency string) (string, error) {
	args := m.Called(ctx, amount, currency)
	return args.String(0), args.Error(1)
}

func (m *MockCaptureProvider) CaptureOrder(ctx context.Context, orderID string) (*payment.CaptureOutcome, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CaptureOutcome), args.Error(1)
}

type testDeps struct {
	bookings *MockBookingRepository
	catalog  *MockServiceCatalog
	accounts *MockAccounts
	notifs   *MockNotificationSender
	intents  *MockIntentGenerator
	captures *MockCaptureProvider
}

func newTestService(t *testing.T, at time.Time) (*Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		bookings: new(MockBookingRepository),
		catalog:  new(MockServiceCatalog),
		accounts: new(MockAccounts),
		notifs:   new(MockNotificationSender),
		intents:  new(MockIntentGenerator),
		captures: new(MockCaptureProvider),
	}
	svc := NewService(deps.bookings, deps.catalog, deps.accounts, deps.notifs, deps.intents, deps.captures, zap.NewNop().Sugar())
	svc.now = func() time.Time { return at }
	return svc, deps
}

func TestCreateBooking_Success(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	deps.catalog.On("GetByID", mock.Anything, int64(7)).Return(&domain.Service{
		ID: 7, VendorID: 2, Name: "Banquet Hall", Category: domain.CategoryVenue, Price: 10000,
	}, nil)
	deps.catalog.On("IsDateBlocked", mock.Anything, int64(7), "2026-12-20").Return(false, nil)
	deps.accounts.On("GetCustomer", mock.Anything, int64(1)).Return(&domain.Customer{ID: 1, Name: "Priya", Email: "priya@example.com"}, nil)
	deps.accounts.On("GetVendor", mock.Anything, int64(2)).Return(&domain.Vendor{ID: 2, Name: "Anita"}, nil)
	deps.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.notifs.On("NotifyBookingRequested", mock.Anything, mock.Anything).Return(nil)

	b, err := svc.CreateBooking(context.Background(), 1, CreateBookingRequest{
		ServiceID: 7,
		EventDate: "2026-12-20",
		Notes:     "Evening event",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, int64(10000), b.TotalAmount)
	assert.Equal(t, int64(500), b.AdvanceAmount)
	assert.Equal(t, "Banquet Hall", b.ServiceName)
	deps.notifs.AssertExpectations(t)
}

func TestCreateBooking_DateBlocked(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.catalog.On("GetByID", mock.Anything, int64(7)).Return(&domain.Service{ID: 7, VendorID: 2, Price: 10000}, nil)
	deps.catalog.On("IsDateBlocked", mock.Anything, int64(7), "2026-12-20").Return(true, nil)

	_, err := svc.CreateBooking(context.Background(), 1, CreateBookingRequest{ServiceID: 7, EventDate: "2026-12-20"})
	assert.ErrorIs(t, err, ErrDateUnavailable)
}

func TestCreateBooking_BadDate(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	_, err := svc.CreateBooking(context.Background(), 1, CreateBookingRequest{ServiceID: 7, EventDate: "20-12-2026"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecide_ApproveStampsTwelveHourWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	pending := &domain.Booking{ID: 5, VendorID: 2, Status: domain.BookingPending, Version: 1}
	wantExpiry := now.Add(12 * time.Hour)

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)
	deps.bookings.On("Approve", mock.Anything, pending, "see you there", now, wantExpiry).Return(nil)
	deps.notifs.On("NotifyBookingApproved", mock.Anything, mock.Anything).Return(nil)

	b, err := svc.Decide(context.Background(), 5, 2, DecideRequest{Status: "approved", VendorNotes: "see you there"})

	assert.NoError(t, err)
	assert.NotNil(t, b)
	deps.bookings.AssertExpectations(t)
}

func TestDecide_NonPendingRejected(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, VendorID: 2, Status: domain.BookingApproved,
	}, nil)

	_, err := svc.Decide(context.Background(), 5, 2, DecideRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDecide_WrongVendorForbidden(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, VendorID: 2, Status: domain.BookingPending,
	}, nil)

	_, err := svc.Decide(context.Background(), 5, 77, DecideRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitPayment_LapsedWindowCancels(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	expiry := now.Add(-1 * time.Hour)
	approved := &domain.Booking{ID: 5, CustomerID: 1, VendorID: 2, Status: domain.BookingApproved, AdvancePaymentExpiry: &expiry}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(approved, nil)
	deps.bookings.On("Cancel", mock.Anything, approved).Return(nil)
	deps.notifs.On("NotifyPaymentExpired", mock.Anything, approved).Return(nil)

	_, err := svc.SubmitPayment(context.Background(), 5, 1, SubmitPaymentRequest{TransactionID: "TXN1"})

	assert.ErrorIs(t, err, ErrPaymentWindowExpired)
	deps.notifs.AssertExpectations(t)
	deps.bookings.AssertNotCalled(t, "RecordPaymentSubmission", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitPayment_LostExpiryRaceStillReportsExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	expiry := now.Add(-1 * time.Hour)
	approved := &domain.Booking{ID: 5, CustomerID: 1, Status: domain.BookingApproved, AdvancePaymentExpiry: &expiry}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(approved, nil).Once()
	deps.bookings.On("Cancel", mock.Anything, approved).Return(repository.ErrVersionConflict)
	// The sweeper won the CAS; the re-read sees its cancellation.
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, Status: domain.BookingCancelled,
	}, nil).Once()

	_, err := svc.SubmitPayment(context.Background(), 5, 1, SubmitPaymentRequest{TransactionID: "TXN1"})

	assert.ErrorIs(t, err, ErrPaymentWindowExpired)
	// The winner already notified; the loser must not.
	deps.notifs.AssertNotCalled(t, "NotifyPaymentExpired", mock.Anything, mock.Anything)
}

func TestSubmitPayment_MovesToPendingVerification(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	expiry := now.Add(6 * time.Hour)
	approved := &domain.Booking{ID: 5, CustomerID: 1, Status: domain.BookingApproved, AdvancePaymentExpiry: &expiry}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(approved, nil).Once()
	deps.bookings.On("RecordPaymentSubmission", mock.Anything, approved, "TXN1", now).Return(nil)
	deps.notifs.On("NotifyPaymentSubmitted", mock.Anything, mock.Anything).Return(nil)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, Status: domain.BookingPendingVerification, UPITransactionID: "TXN1",
	}, nil).Once()

	b, err := svc.SubmitPayment(context.Background(), 5, 1, SubmitPaymentRequest{TransactionID: "TXN1"})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPendingVerification, b.Status)
	deps.bookings.AssertExpectations(t)
}

func TestSubmitPayment_RetryAfterFailedVerification(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	failed := &domain.Booking{ID: 5, CustomerID: 1, Status: domain.BookingPaymentFailed}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(failed, nil).Once()
	deps.bookings.On("RecordPaymentSubmission", mock.Anything, failed, "TXN2", now).Return(nil)
	deps.notifs.On("NotifyPaymentSubmitted", mock.Anything, mock.Anything).Return(nil)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, Status: domain.BookingPendingVerification,
	}, nil).Once()

	_, err := svc.SubmitPayment(context.Background(), 5, 1, SubmitPaymentRequest{TransactionID: "TXN2"})
	assert.NoError(t, err)
}

func TestVerifyPayment_NotPendingVerification(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, VendorID: 2, Status: domain.BookingApproved,
	}, nil)

	_, err := svc.VerifyPayment(context.Background(), 5, 2, VerifyPaymentRequest{VerificationStatus: "verified"})
	assert.ErrorIs(t, err, ErrNotPendingVerification)
}

func TestVerifyPayment_VerifiedAdvancesAndNotifies(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	pendingVerification := &domain.Booking{ID: 5, VendorID: 2, Status: domain.BookingPendingVerification}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(pendingVerification, nil).Once()
	deps.bookings.On("MarkAdvanceVerified", mock.Anything, pendingVerification, "Payment verified successfully", now).Return(nil)
	deps.notifs.On("NotifyPaymentVerified", mock.Anything, mock.Anything).Return(nil)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, VendorID: 2, Status: domain.BookingAdvancePaid, AdvancePaid: true,
	}, nil).Once()

	b, err := svc.VerifyPayment(context.Background(), 5, 2, VerifyPaymentRequest{VerificationStatus: "verified"})

	assert.NoError(t, err)
	assert.True(t, b.AdvancePaid)
	assert.Equal(t, domain.BookingAdvancePaid, b.Status)
	deps.bookings.AssertExpectations(t)
	deps.notifs.AssertExpectations(t)
}

func TestVerifyPayment_FailedLoopsBack(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	pendingVerification := &domain.Booking{ID: 5, VendorID: 2, Status: domain.BookingPendingVerification}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(pendingVerification, nil).Once()
	deps.bookings.On("MarkVerificationFailed", mock.Anything, pendingVerification, "Payment verification failed", now).Return(nil)
	deps.notifs.On("NotifyPaymentFailed", mock.Anything, mock.Anything).Return(nil)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, Status: domain.BookingPaymentFailed,
	}, nil).Once()

	b, err := svc.VerifyPayment(context.Background(), 5, 2, VerifyPaymentRequest{VerificationStatus: "failed"})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPaymentFailed, b.Status)
}

func TestVerifyPayment_ConcurrentLoser(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	pendingVerification := &domain.Booking{ID: 5, VendorID: 2, Status: domain.BookingPendingVerification}

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(pendingVerification, nil)
	deps.bookings.On("MarkAdvanceVerified", mock.Anything, pendingVerification, mock.Anything, now).Return(repository.ErrVersionConflict)

	_, err := svc.VerifyPayment(context.Background(), 5, 2, VerifyPaymentRequest{VerificationStatus: "verified"})
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	expiry := now.Add(6 * time.Hour)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, VendorID: 2, Status: domain.BookingApproved,
		AdvanceAmount: 500, ServiceName: "Banquet Hall", AdvancePaymentExpiry: &expiry,
	}, nil)
	deps.accounts.On("GetVendor", mock.Anything, int64(2)).Return(&domain.Vendor{
		ID: 2, Name: "Anita", BusinessName: "Grand Palace", UPIID: "grandpalace@okhdfc",
	}, nil)
	deps.intents.On("Generate", "grandpalace@okhdfc", int64(500), "Grand Palace", "Advance payment for Banquet Hall - EventGenie").
		Return(&payment.Intent{UPIID: "grandpalace@okhdfc", Amount: 500, PayeeName: "Grand Palace"}, nil)

	intent, b, err := svc.CreatePaymentIntent(context.Background(), 5, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(500), intent.Amount)
	assert.Equal(t, "Banquet Hall", b.ServiceName)
}

// Only the booking's own customer may mint a payment intent for it.
func TestCreatePaymentIntent_ForeignCustomerForbidden(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, VendorID: 2, Status: domain.BookingApproved,
	}, nil)

	_, _, err := svc.CreatePaymentIntent(context.Background(), 5, 99)
	assert.ErrorIs(t, err, ErrForbidden)
	deps.intents.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePaymentIntent_GeneratorFailureLeavesBookingAlone(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	expiry := now.Add(6 * time.Hour)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, VendorID: 2, Status: domain.BookingApproved, AdvancePaymentExpiry: &expiry,
	}, nil)
	deps.accounts.On("GetVendor", mock.Anything, int64(2)).Return(&domain.Vendor{ID: 2, UPIID: "a@bank", Name: "A"}, nil)
	deps.intents.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	_, _, err := svc.CreatePaymentIntent(context.Background(), 5, 1)

	assert.ErrorIs(t, err, ErrPaymentIntentGeneration)
	deps.bookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCreatePaymentIntent_AlreadyPaid(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, Status: domain.BookingAdvancePaid, AdvancePaid: true,
	}, nil)

	_, _, err := svc.CreatePaymentIntent(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestGetByID_ScopedToOwnParties(t *testing.T) {
	svc, deps := newTestService(t, time.Now())

	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, CustomerID: 1, VendorID: 2, Status: domain.BookingPending,
	}, nil)

	b, err := svc.GetByID(context.Background(), 5, domain.RoleCustomer, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)

	_, err = svc.GetByID(context.Background(), 5, domain.RoleCustomer, 2)
	assert.ErrorIs(t, err, ErrForbidden)

	b, err = svc.GetByID(context.Background(), 5, domain.RoleVendor, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)

	_, err = svc.GetByID(context.Background(), 5, domain.RoleVendor, 1)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetByID(context.Background(), 5, domain.RoleAdmin, 42)
	assert.NoError(t, err)
}

func TestCaptureProviderPayment_CompletedGoesStraightToPaid(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, deps := newTestService(t, now)

	expiry := now.Add(6 * time.Hour)
	approved := &domain.Booking{ID: 5, CustomerID: 1, Status: domain.BookingApproved, AdvanceAmount: 500, AdvancePaymentExpiry: &expiry}
	submitted := &domain.Booking{ID: 5, CustomerID: 1, Status: domain.BookingPendingVerification, Version: 2}

	deps.captures.On("Configured").Return(true)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(approved, nil).Once()
	deps.captures.On("CaptureOrder", mock.Anything, "ORDER9").Return(&payment.CaptureOutcome{OrderID: "ORDER9", Status: "COMPLETED"}, nil)
	deps.bookings.On("RecordPaymentSubmission", mock.Anything, approved, "ORDER9", now).Return(nil)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(submitted, nil).Once()
	deps.bookings.On("MarkAdvanceVerified", mock.Anything, submitted, "Captured by payment provider", now).Return(nil)
	deps.notifs.On("NotifyPaymentVerified", mock.Anything, mock.Anything).Return(nil)
	deps.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, Status: domain.BookingAdvancePaid, AdvancePaid: true,
	}, nil).Once()

	b, err := svc.CaptureProviderPayment(context.Background(), 5, 1, "ORDER9")

	assert.NoError(t, err)
	assert.True(t, b.AdvancePaid)
	deps.bookings.AssertExpectations(t)
}

func TestCaptureProviderPayment_Unconfigured(t *testing.T) {
	svc, deps := newTestService(t, time.Now())
	deps.captures.On("Configured").Return(false)

	_, err := svc.CaptureProviderPayment(context.Background(), 5, 1, "ORDER9")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
