package booking

import (
	"context"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/modules/payment"
)

// BookingRepository is the persistence contract for bookings. Transition
// methods are compare-and-swap on the booking's version and return
// repository.ErrVersionConflict when a concurrent writer won.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Booking, error)

	Approve(ctx context.Context, b *domain.Booking, vendorNotes string, approvedAt, expiry time.Time) error
	Reject(ctx context.Context, b *domain.Booking, vendorNotes string, decidedAt time.Time) error
	Cancel(ctx context.Context, b *domain.Booking) error
	RecordPaymentSubmission(ctx context.Context, b *domain.Booking, txnID string, submittedAt time.Time) error
	MarkVerificationFailed(ctx context.Context, b *domain.Booking, notes string, verifiedAt time.Time) error
	MarkAdvanceVerified(ctx context.Context, b *domain.Booking, notes string, verifiedAt time.Time) error
	Complete(ctx context.Context, b *domain.Booking) error
}

// ServiceCatalog exposes the service records and the availability index.
type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	IsDateBlocked(ctx context.Context, serviceID int64, date string) (bool, error)
}

// Accounts provides the customer and vendor records referenced by bookings.
type Accounts interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetVendor(ctx context.Context, id int64) (*domain.Vendor, error)
}

// NotificationSender fans booking state changes out to the affected party.
// Failures are best-effort: the engine logs and continues.
type NotificationSender interface {
	NotifyBookingRequested(ctx context.Context, b *domain.Booking) error
	NotifyBookingApproved(ctx context.Context, b *domain.Booking) error
	NotifyBookingRejected(ctx context.Context, b *domain.Booking) error
	NotifyPaymentSubmitted(ctx context.Context, b *domain.Booking) error
	NotifyPaymentVerified(ctx context.Context, b *domain.Booking) error
	NotifyPaymentFailed(ctx context.Context, b *domain.Booking) error
	NotifyPaymentExpired(ctx context.Context, b *domain.Booking) error
}

// IntentGenerator renders a payee/amount/memo descriptor into a scannable
// payment intent.
type IntentGenerator interface {
	Generate(upiID string, amount int64, payeeName, description string) (*payment.Intent, error)
}

// CaptureProvider is the hosted-checkout alternative to the UPI flow:
// create an order, then capture it once the customer approves.
type CaptureProvider interface {
	Configured() bool
	CreateOrder(ctx context.Context, amount int64, currency string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*payment.CaptureOutcome, error)
}
