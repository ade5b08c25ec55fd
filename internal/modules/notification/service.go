package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/repository"
)

// Service creates and serves notifications. Creation is best-effort from the
// caller's point of view: every Notify* helper returns an error, but callers
// of a primary operation log and swallow it so a notification failure never
// reverts the state change it describes.
type Service struct {
	repo *repository.NotificationRepository
}

func NewService(repo *repository.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Notify(ctx context.Context, recipientID int64, kind domain.RecipientKind, t domain.NotificationType, title, message string, bookingID, conversationID *int64, metadata map[string]any) error {
	n := &domain.Notification{
		RecipientID:    recipientID,
		RecipientKind:  kind,
		Type:           t,
		Title:          title,
		Message:        message,
		BookingID:      bookingID,
		ConversationID: conversationID,
	}
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		n.Metadata = b
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) ListForRecipient(ctx context.Context, recipientID int64, kind domain.RecipientKind, f repository.NotificationFilter) ([]domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, kind, f)
}

func (s *Service) MarkRead(ctx context.Context, id, recipientID int64, kind domain.RecipientKind) error {
	return s.repo.MarkRead(ctx, id, recipientID, kind, time.Now())
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID int64, kind domain.RecipientKind) error {
	return s.repo.MarkAllRead(ctx, recipientID, kind, time.Now())
}

func (s *Service) CountUnread(ctx context.Context, recipientID int64, kind domain.RecipientKind) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID, kind)
}

func (s *Service) Delete(ctx context.Context, id, recipientID int64, kind domain.RecipientKind) error {
	return s.repo.Delete(ctx, id, recipientID, kind)
}

// ---- Booking lifecycle helpers ----

func (s *Service) NotifyBookingRequested(ctx context.Context, b *domain.Booking) error {
	return s.Notify(ctx, b.VendorID, domain.RecipientVendor,
		domain.NotifBookingRequest,
		"New Booking Request",
		fmt.Sprintf("%s has requested to book %s for %s", b.CustomerName, b.ServiceName, b.EventDate),
		&b.ID, nil, nil)
}

func (s *Service) NotifyBookingApproved(ctx context.Context, b *domain.Booking) error {
	return s.Notify(ctx, b.CustomerID, domain.RecipientCustomer,
		domain.NotifBookingApproved,
		"Booking Approved",
		fmt.Sprintf("Your booking for %s has been approved. Please pay the advance amount of ₹%d within 12 hours.", b.ServiceName, b.AdvanceAmount),
		&b.ID, nil, map[string]any{
			"advance_amount": b.AdvanceAmount,
			"expiry_date":    b.AdvancePaymentExpiry,
		})
}

func (s *Service) NotifyBookingRejected(ctx context.Context, b *domain.Booking) error {
	return s.Notify(ctx, b.CustomerID, domain.RecipientCustomer,
		domain.NotifBookingRejected,
		"Booking Rejected",
		fmt.Sprintf("Your booking for %s has been rejected.", b.ServiceName),
		&b.ID, nil, nil)
}

func (s *Service) NotifyPaymentSubmitted(ctx context.Context, b *domain.Booking) error {
	if err := s.Notify(ctx, b.VendorID, domain.RecipientVendor,
		domain.NotifPaymentPendingVerification,
		"Payment Verification Required",
		fmt.Sprintf("Customer has submitted payment for ₹%d. Please verify the transaction ID: %s", b.AdvanceAmount, b.UPITransactionID),
		&b.ID, nil, nil); err != nil {
		return err
	}
	return s.Notify(ctx, b.CustomerID, domain.RecipientCustomer,
		domain.NotifPaymentSubmitted,
		"Payment Submitted",
		fmt.Sprintf("Your payment of ₹%d has been submitted. Waiting for vendor verification.", b.AdvanceAmount),
		&b.ID, nil, nil)
}

func (s *Service) NotifyPaymentVerified(ctx context.Context, b *domain.Booking) error {
	return s.Notify(ctx, b.CustomerID, domain.RecipientCustomer,
		domain.NotifPaymentVerified,
		"Payment Verified",
		fmt.Sprintf("Your payment of ₹%d has been verified by the vendor. Booking confirmed!", b.AdvanceAmount),
		&b.ID, nil, nil)
}

func (s *Service) NotifyPaymentFailed(ctx context.Context, b *domain.Booking) error {
	return s.Notify(ctx, b.CustomerID, domain.RecipientCustomer,
		domain.NotifPaymentFailed,
		"Payment Verification Failed",
		"Your payment verification failed. Please contact the vendor or try again.",
		&b.ID, nil, nil)
}

// NotifyPaymentExpired reaches both parties.
func (s *Service) NotifyPaymentExpired(ctx context.Context, b *domain.Booking) error {
	if err := s.Notify(ctx, b.CustomerID, domain.RecipientCustomer,
		domain.NotifPaymentExpired,
		"Payment Expired",
		fmt.Sprintf("Your advance payment for %s has expired. The booking has been cancelled.", b.ServiceName),
		&b.ID, nil, nil); err != nil {
		return err
	}
	return s.Notify(ctx, b.VendorID, domain.RecipientVendor,
		domain.NotifPaymentExpired,
		"Payment Expired",
		fmt.Sprintf("Advance payment for %s has expired. The booking has been cancelled.", b.ServiceName),
		&b.ID, nil, nil)
}

// ---- Chat helper ----

func (s *Service) NotifyChatMessage(ctx context.Context, recipientID int64, kind domain.RecipientKind, conversationID int64, preview string, metadata map[string]any) error {
	title := "New message from customer"
	if kind == domain.RecipientCustomer {
		title = "New message from vendor"
	}
	return s.Notify(ctx, recipientID, kind,
		domain.NotifChatMessage, title, preview,
		nil, &conversationID, metadata)
}
