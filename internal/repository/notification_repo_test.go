package repository

import (
	"context"
	"testing"
	"time"

	"eventgenie/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Customer and vendor ids come from separate tables, so the same numeric id
// can belong to two different inboxes. Every recipient-facing query must key
// on the (id, kind) pair.
func TestNotifications_SameIDDifferentKindsAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	notifs := NewNotificationRepository(db)

	forCustomer := &domain.Notification{
		RecipientID:   1,
		RecipientKind: domain.RecipientCustomer,
		Type:          domain.NotifBookingApproved,
		Title:         "Booking Approved",
		Message:       "for customer 1",
	}
	require.NoError(t, notifs.Create(ctx, forCustomer))
	forVendor := &domain.Notification{
		RecipientID:   1,
		RecipientKind: domain.RecipientVendor,
		Type:          domain.NotifBookingRequest,
		Title:         "New Booking Request",
		Message:       "for vendor 1",
	}
	require.NoError(t, notifs.Create(ctx, forVendor))

	customerList, err := notifs.ListByRecipient(ctx, 1, domain.RecipientCustomer, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, customerList, 1)
	assert.Equal(t, "for customer 1", customerList[0].Message)

	vendorList, err := notifs.ListByRecipient(ctx, 1, domain.RecipientVendor, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, vendorList, 1)
	assert.Equal(t, "for vendor 1", vendorList[0].Message)
}

func TestNotifications_MarkAllReadScopedToKind(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	notifs := NewNotificationRepository(db)

	require.NoError(t, notifs.Create(ctx, &domain.Notification{
		RecipientID: 1, RecipientKind: domain.RecipientCustomer,
		Type: domain.NotifBookingApproved, Title: "t", Message: "m",
	}))
	require.NoError(t, notifs.Create(ctx, &domain.Notification{
		RecipientID: 1, RecipientKind: domain.RecipientVendor,
		Type: domain.NotifBookingRequest, Title: "t", Message: "m",
	}))

	require.NoError(t, notifs.MarkAllRead(ctx, 1, domain.RecipientVendor, time.Now()))

	vendorUnread, err := notifs.CountUnread(ctx, 1, domain.RecipientVendor)
	require.NoError(t, err)
	assert.Equal(t, int64(0), vendorUnread)

	customerUnread, err := notifs.CountUnread(ctx, 1, domain.RecipientCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customerUnread)
}

func TestNotifications_MarkReadAndDeleteRequireOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	notifs := NewNotificationRepository(db)

	n := &domain.Notification{
		RecipientID: 1, RecipientKind: domain.RecipientCustomer,
		Type: domain.NotifBookingApproved, Title: "t", Message: "m",
	}
	require.NoError(t, notifs.Create(ctx, n))

	// vendor 1 is a different identity than customer 1
	err := notifs.MarkRead(ctx, n.ID, 1, domain.RecipientVendor, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
	err = notifs.Delete(ctx, n.ID, 1, domain.RecipientVendor)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, notifs.MarkRead(ctx, n.ID, 1, domain.RecipientCustomer, time.Now()))
	require.NoError(t, notifs.Delete(ctx, n.ID, 1, domain.RecipientCustomer))
}
