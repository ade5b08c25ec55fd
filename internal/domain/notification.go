package domain

import (
	"encoding/json"
	"time"
)

type RecipientKind string

const (
	RecipientCustomer RecipientKind = "customer"
	RecipientVendor   RecipientKind = "vendor"
)

type NotificationType string

const (
	NotifBookingRequest             NotificationType = "booking_request"
	NotifBookingApproved            NotificationType = "booking_approved"
	NotifBookingRejected            NotificationType = "booking_rejected"
	NotifBookingCompleted           NotificationType = "booking_completed"
	NotifPaymentSubmitted           NotificationType = "payment_submitted"
	NotifPaymentPendingVerification NotificationType = "payment_pending_verification"
	NotifPaymentVerified            NotificationType = "payment_verified"
	NotifPaymentFailed              NotificationType = "payment_failed"
	NotifPaymentExpired             NotificationType = "payment_expired"
	NotifChatMessage                NotificationType = "chat_message"
)

// Notification is immutable once created except for the read flag.
type Notification struct {
	ID            int64            `json:"id"`
	RecipientID   int64            `json:"recipient_id"`
	RecipientKind RecipientKind    `json:"recipient_kind"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`

	BookingID      *int64 `json:"booking_id,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty"`

	// Free-form payload: payment amounts, expiry times, deep links.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
