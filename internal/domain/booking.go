package domain

import "time"

type BookingStatus string

const (
	BookingPending             BookingStatus = "pending"
	BookingApproved            BookingStatus = "approved"
	BookingRejected            BookingStatus = "rejected"
	BookingPendingVerification BookingStatus = "payment_pending_verification"
	BookingAdvancePaid         BookingStatus = "advance_paid"
	BookingPaymentFailed       BookingStatus = "payment_failed"
	BookingCancelled           BookingStatus = "cancelled"
	BookingCompleted           BookingStatus = "completed"
)

type VerificationOutcome string

const (
	VerificationVerified VerificationOutcome = "verified"
	VerificationFailed   VerificationOutcome = "failed"
)

// AdvanceRatePercent is the advance share of the total amount.
const AdvanceRatePercent = 5

// AdvancePaymentWindow is how long a customer has to pay after approval.
const AdvancePaymentWindow = 12 * time.Hour

// AdvanceAmount computes the advance from the total in integer arithmetic,
// rounding half up.
func AdvanceAmount(total int64) int64 {
	return (total*AdvanceRatePercent + 50) / 100
}

type Booking struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customer_id" validate:"required"`
	VendorID   int64 `json:"vendor_id" validate:"required"`
	ServiceID  int64 `json:"service_id" validate:"required"`

	// Calendar date of the event, YYYY-MM-DD. No time component.
	EventDate string `json:"event_date" validate:"required"`

	TotalAmount   int64 `json:"total_amount"`
	AdvanceAmount int64 `json:"advance_amount"`
	AdvancePaid   bool  `json:"advance_paid"`

	// Customer-asserted transaction id, pending vendor confirmation.
	UPITransactionID string `json:"upi_transaction_id,omitempty"`

	AdvancePaymentExpiry *time.Time    `json:"advance_payment_expiry,omitempty"`
	Status               BookingStatus `json:"status"`

	Notes       string `json:"notes,omitempty"`
	VendorNotes string `json:"vendor_notes,omitempty"`

	VendorApprovalDate       *time.Time `json:"vendor_approval_date,omitempty"`
	AdvancePaymentDate       *time.Time `json:"advance_payment_date,omitempty"`
	PaymentVerificationDate  *time.Time `json:"payment_verification_date,omitempty"`
	PaymentVerificationNotes string     `json:"payment_verification_notes,omitempty"`

	// Display fields captured at creation time so the booking reads the
	// same even if the source records change later.
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	ServiceName   string `json:"service_name"`
	VendorName    string `json:"vendor_name"`

	// Optimistic concurrency token; every state transition bumps it.
	Version int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the automated flow can still move this booking.
func (b *Booking) Terminal() bool {
	switch b.Status {
	case BookingPending, BookingApproved, BookingPendingVerification, BookingPaymentFailed:
		return false
	}
	return true
}
