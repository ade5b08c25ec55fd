package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/modules/payment"
	"eventgenie/internal/repository"

	"go.uber.org/zap"
)

// Currency for the hosted-checkout provider path. The UPI path is INR by
// definition; the provider sandbox settles in USD.
const providerCurrency = "USD"

type Service struct {
	bookings BookingRepository
	catalog  ServiceCatalog
	accounts Accounts
	notifs   NotificationSender
	intents  IntentGenerator
	captures CaptureProvider
	logger   *zap.SugaredLogger

	// Injectable clock for deterministic expiry tests.
	now func() time.Time
}

func NewService(bookings BookingRepository, catalog ServiceCatalog, accounts Accounts, notifs NotificationSender, intents IntentGenerator, captures CaptureProvider, logger *zap.SugaredLogger) *Service {
	return &Service{
		bookings: bookings,
		catalog:  catalog,
		accounts: accounts,
		notifs:   notifs,
		intents:  intents,
		captures: captures,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking persists a pending booking request and notifies the vendor.
// The date is NOT reserved here: only a verified payment blocks a date, so
// two customers may race to request the same one.
func (s *Service) CreateBooking(ctx context.Context, customerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		return nil, ErrValidation
	}

	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	blocked, err := s.catalog.IsDateBlocked(ctx, svc.ID, req.EventDate)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrDateUnavailable
	}

	customer, err := s.accounts.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	vendor, err := s.accounts.GetVendor(ctx, svc.VendorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b := &domain.Booking{
		CustomerID:    customer.ID,
		VendorID:      vendor.ID,
		ServiceID:     svc.ID,
		EventDate:     req.EventDate,
		TotalAmount:   svc.Price,
		AdvanceAmount: domain.AdvanceAmount(svc.Price),
		Status:        domain.BookingPending,
		Notes:         req.Notes,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		ServiceName:   svc.Name,
		VendorName:    vendor.Name,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.notifs.NotifyBookingRequested(ctx, b); err != nil {
		s.logger.Warnw("booking request notification failed", "booking_id", b.ID, "err", err)
	}
	return b, nil
}

// Decide applies the vendor's approve/reject decision to a pending booking.
// Approval stamps the 12-hour advance payment window.
func (s *Service) Decide(ctx context.Context, bookingID, vendorID int64, req DecideRequest) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, vendorID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	switch req.Status {
	case string(domain.BookingApproved):
		expiry := now.Add(domain.AdvancePaymentWindow)
		if err := s.bookings.Approve(ctx, b, req.VendorNotes, now, expiry); err != nil {
			return nil, s.mapConflict(err)
		}
		b.Status = domain.BookingApproved
		b.VendorNotes = req.VendorNotes
		b.VendorApprovalDate = &now
		b.AdvancePaymentExpiry = &expiry
		if err := s.notifs.NotifyBookingApproved(ctx, b); err != nil {
			s.logger.Warnw("approval notification failed", "booking_id", b.ID, "err", err)
		}
	case string(domain.BookingRejected):
		if err := s.bookings.Reject(ctx, b, req.VendorNotes, now); err != nil {
			return nil, s.mapConflict(err)
		}
		b.Status = domain.BookingRejected
		b.VendorNotes = req.VendorNotes
		b.VendorApprovalDate = &now
		if err := s.notifs.NotifyBookingRejected(ctx, b); err != nil {
			s.logger.Warnw("rejection notification failed", "booking_id", b.ID, "err", err)
		}
	default:
		return nil, ErrValidation
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// CreatePaymentIntent builds the UPI descriptor and QR for an approved,
// unpaid booking. A lapsed payment window cancels the booking on the spot;
// whichever actor observes the expiry first performs the transition and the
// other just reports it.
func (s *Service) CreatePaymentIntent(ctx context.Context, bookingID, customerID int64) (*payment.Intent, *domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.CustomerID != customerID {
		return nil, nil, ErrForbidden
	}
	if b.AdvancePaid {
		return nil, nil, ErrAlreadyPaid
	}
	if b.Status != domain.BookingApproved {
		if b.Status == domain.BookingCancelled {
			return nil, nil, ErrPaymentWindowExpired
		}
		return nil, nil, ErrNotApproved
	}

	if expired, err := s.cancelIfLapsed(ctx, b); err != nil {
		return nil, nil, err
	} else if expired {
		return nil, nil, ErrPaymentWindowExpired
	}

	vendor, err := s.accounts.GetVendor(ctx, b.VendorID)
	if err != nil {
		return nil, nil, err
	}
	if vendor.UPIID == "" {
		return nil, nil, ErrValidation
	}

	payee := vendor.BusinessName
	if payee == "" {
		payee = vendor.Name
	}
	intent, err := s.intents.Generate(
		vendor.UPIID,
		b.AdvanceAmount,
		payee,
		fmt.Sprintf("Advance payment for %s - EventGenie", b.ServiceName),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPaymentIntentGeneration, err)
	}
	return intent, b, nil
}

// SubmitPayment records the customer-asserted transaction id. Valid from
// approved (unpaid) and from payment_failed, which loops back into
// verification.
func (s *Service) SubmitPayment(ctx context.Context, bookingID, customerID int64, req SubmitPaymentRequest) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if err := s.ensurePayable(ctx, b); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.bookings.RecordPaymentSubmission(ctx, b, req.TransactionID, now); err != nil {
		return nil, s.mapConflict(err)
	}
	b.Status = domain.BookingPendingVerification
	b.UPITransactionID = req.TransactionID
	b.AdvancePaymentDate = &now

	if err := s.notifs.NotifyPaymentSubmitted(ctx, b); err != nil {
		s.logger.Warnw("payment submission notification failed", "booking_id", b.ID, "err", err)
	}
	return s.bookings.GetByID(ctx, b.ID)
}

// VerifyPayment applies the vendor's verdict. A verified outcome advances
// the booking, reserves the event date and credits the revenue/expenditure
// accumulators in one transaction; verifying twice fails on the status
// guard, so nothing is reserved or credited twice.
func (s *Service) VerifyPayment(ctx context.Context, bookingID, vendorID int64, req VerifyPaymentRequest) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, vendorID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPendingVerification {
		return nil, ErrNotPendingVerification
	}

	now := s.now()
	switch req.VerificationStatus {
	case string(domain.VerificationVerified):
		notes := req.Notes
		if notes == "" {
			notes = "Payment verified successfully"
		}
		if err := s.bookings.MarkAdvanceVerified(ctx, b, notes, now); err != nil {
			return nil, s.mapConflict(err)
		}
		b.Status = domain.BookingAdvancePaid
		b.AdvancePaid = true
		if err := s.notifs.NotifyPaymentVerified(ctx, b); err != nil {
			s.logger.Warnw("verification notification failed", "booking_id", b.ID, "err", err)
		}
	case string(domain.VerificationFailed):
		notes := req.Notes
		if notes == "" {
			notes = "Payment verification failed"
		}
		if err := s.bookings.MarkVerificationFailed(ctx, b, notes, now); err != nil {
			return nil, s.mapConflict(err)
		}
		b.Status = domain.BookingPaymentFailed
		if err := s.notifs.NotifyPaymentFailed(ctx, b); err != nil {
			s.logger.Warnw("verification notification failed", "booking_id", b.ID, "err", err)
		}
	default:
		return nil, ErrValidation
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// ensurePayable holds the shared submit/capture guard: the booking must be
// approved and unpaid (with the lazy expiry check applied) or sitting in
// payment_failed awaiting a retry.
func (s *Service) ensurePayable(ctx context.Context, b *domain.Booking) error {
	if b.AdvancePaid {
		return ErrAlreadyPaid
	}
	switch b.Status {
	case domain.BookingApproved:
		if expired, err := s.cancelIfLapsed(ctx, b); err != nil {
			return err
		} else if expired {
			return ErrPaymentWindowExpired
		}
		return nil
	case domain.BookingPaymentFailed:
		// retry after a failed verification
		return nil
	case domain.BookingCancelled:
		return ErrPaymentWindowExpired
	default:
		return ErrInvalidTransition
	}
}

// CreateProviderOrder opens a hosted-checkout order for the advance amount.
// The booking does not move; the capture call does the state work.
func (s *Service) CreateProviderOrder(ctx context.Context, bookingID, customerID int64) (string, error) {
	if s.captures == nil || !s.captures.Configured() {
		return "", ErrProviderUnavailable
	}

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if b.CustomerID != customerID {
		return "", ErrForbidden
	}
	if err := s.ensurePayable(ctx, b); err != nil {
		return "", err
	}

	orderID, err := s.captures.CreateOrder(ctx, b.AdvanceAmount, providerCurrency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentCaptureFailed, err)
	}
	return orderID, nil
}

// CaptureProviderPayment captures an approved provider order. A completed
// capture is provider-verified, so the booking goes straight to
// advance_paid through the same reserve-and-credit transaction the manual
// verification uses.
func (s *Service) CaptureProviderPayment(ctx context.Context, bookingID, customerID int64, orderID string) (*domain.Booking, error) {
	if s.captures == nil || !s.captures.Configured() {
		return nil, ErrProviderUnavailable
	}

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if err := s.ensurePayable(ctx, b); err != nil {
		return nil, err
	}

	outcome, err := s.captures.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentCaptureFailed, err)
	}
	if outcome.Status != "COMPLETED" {
		return nil, fmt.Errorf("%w: provider status %s", ErrPaymentCaptureFailed, outcome.Status)
	}

	now := s.now()
	if err := s.bookings.RecordPaymentSubmission(ctx, b, outcome.OrderID, now); err != nil {
		return nil, s.mapConflict(err)
	}
	fresh, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.MarkAdvanceVerified(ctx, fresh, "Captured by payment provider", now); err != nil {
		return nil, s.mapConflict(err)
	}
	fresh.Status = domain.BookingAdvancePaid
	fresh.AdvancePaid = true
	if err := s.notifs.NotifyPaymentVerified(ctx, fresh); err != nil {
		s.logger.Warnw("capture notification failed", "booking_id", fresh.ID, "err", err)
	}
	return s.bookings.GetByID(ctx, b.ID)
}

// Complete marks a paid booking as completed after the event.
func (s *Service) Complete(ctx context.Context, bookingID, vendorID int64) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, vendorID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingAdvancePaid {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.Complete(ctx, b); err != nil {
		return nil, s.mapConflict(err)
	}
	return s.bookings.GetByID(ctx, b.ID)
}

// GetByID returns a booking to its own customer or vendor. Admins may fetch
// any booking.
func (s *Service) GetByID(ctx context.Context, id int64, role domain.Role, callerID int64) (*domain.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch role {
	case domain.RoleAdmin:
	case domain.RoleCustomer:
		if b.CustomerID != callerID {
			return nil, ErrForbidden
		}
	case domain.RoleVendor:
		if b.VendorID != callerID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *Service) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Booking, error) {
	return s.bookings.ListByVendor(ctx, vendorID)
}

// cancelIfLapsed performs the lazy expiry check on the hot path. It must
// agree with the sweeper: whichever actor observes the lapse first wins the
// CAS; the loser re-reads and reports the expiry too.
func (s *Service) cancelIfLapsed(ctx context.Context, b *domain.Booking) (bool, error) {
	if b.AdvancePaymentExpiry == nil || !s.now().After(*b.AdvancePaymentExpiry) {
		return false, nil
	}

	err := s.bookings.Cancel(ctx, b)
	if errors.Is(err, repository.ErrVersionConflict) {
		fresh, ferr := s.bookings.GetByID(ctx, b.ID)
		if ferr != nil {
			return false, ferr
		}
		// The sweep (or another request) got there first.
		return fresh.Status == domain.BookingCancelled, nil
	}
	if err != nil {
		return false, err
	}

	b.Status = domain.BookingCancelled
	if nerr := s.notifs.NotifyPaymentExpired(ctx, b); nerr != nil {
		s.logger.Warnw("expiry notification failed", "booking_id", b.ID, "err", nerr)
	}
	return true, nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) getOwned(ctx context.Context, bookingID, vendorID int64) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.VendorID != vendorID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) mapConflict(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return ErrConcurrentModification
	}
	return err
}
