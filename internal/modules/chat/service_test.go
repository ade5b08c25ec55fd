package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// fakeBroadcaster stands in for the hub and records broadcast events.
type fakeBroadcaster struct {
	events []interface{}
}

func (f *fakeBroadcaster) Broadcast(participants []domain.Participant, event interface{}) {
	f.events = append(f.events, event)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyChatMessage(ctx context.Context, recipientID int64, kind domain.RecipientKind, conversationID int64, preview string, metadata map[string]any) error {
	return m.Called(ctx, recipientID, kind, conversationID, preview, metadata).Error(0)
}

type chatFixture struct {
	svc      *Service
	repo     *repository.ChatRepository
	hub      *fakeBroadcaster
	notifs   *MockNotificationSender
	customer *domain.Customer
	vendor   *domain.Vendor
	admin    *domain.Admin
}

func setupChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:chat_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	accounts := repository.NewAccountRepository(db)
	customer := &domain.Customer{Name: "Priya", Email: "priya@example.com", PasswordHash: "x"}
	require.NoError(t, accounts.CreateCustomer(ctx, customer))
	vendor := &domain.Vendor{Name: "Anita", Email: "anita@example.com", PasswordHash: "x"}
	require.NoError(t, accounts.CreateVendor(ctx, vendor))
	admin := &domain.Admin{Name: "Support", Email: "admin@example.com", PasswordHash: "x"}
	require.NoError(t, accounts.CreateAdmin(ctx, admin))

	hub := &fakeBroadcaster{}
	notifs := new(MockNotificationSender)
	repo := repository.NewChatRepository(db)
	svc := NewService(repo, accounts, notifs, hub, zap.NewNop().Sugar())

	return &chatFixture{svc: svc, repo: repo, hub: hub, notifs: notifs, customer: customer, vendor: vendor, admin: admin}
}

func (f *chatFixture) start(t *testing.T) *domain.Conversation {
	t.Helper()
	conv, created, err := f.svc.StartOrGet(context.Background(), f.customer.ID, StartConversationRequest{
		VendorID:        f.vendor.ID,
		ServiceCategory: string(domain.CategoryVenue),
	})
	require.NoError(t, err)
	require.True(t, created)
	return conv
}

func TestStartOrGet_CreatesWithGreeting(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()

	conv := f.start(t)
	assert.Len(t, conv.Participants, 2)

	msgs, _, err := f.svc.Messages(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, 10, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RoleParticipantSystem, msgs[0].SenderRole)
	assert.Equal(t, "Hello there! How can we assist you today?", msgs[0].Content)

	// second start returns the existing thread
	again, created, err := f.svc.StartOrGet(ctx, f.customer.ID, StartConversationRequest{
		VendorID:        f.vendor.ID,
		ServiceCategory: string(domain.CategoryVenue),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)
}

func TestStartOrGet_InvalidCategory(t *testing.T) {
	f := setupChatFixture(t)

	_, _, err := f.svc.StartOrGet(context.Background(), f.customer.ID, StartConversationRequest{
		VendorID:        f.vendor.ID,
		ServiceCategory: "Fireworks",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestSend_PersistsNotificationForReceiver(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	f.notifs.On("NotifyChatMessage", mock.Anything, f.vendor.ID, domain.RecipientVendor, conv.ID, "Is the 20th free?", mock.Anything).Return(nil)

	msg, err := f.svc.Send(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, SendMessageRequest{Content: "  Is the 20th free?  "})
	require.NoError(t, err)
	assert.Equal(t, "Is the 20th free?", msg.Content)
	assert.Equal(t, domain.RoleParticipantVendor, msg.ReceiverRole)

	f.notifs.AssertExpectations(t)

	fresh, err := f.svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.VendorUnread)
	assert.Equal(t, 0, fresh.CustomerUnread)
}

// The notification row is the receiver's durable inbox. A live socket only
// adds a realtime push on top; it never replaces the persisted record.
func TestSend_NotifiesEvenWhenReceiverBroadcastReached(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	f.notifs.On("NotifyChatMessage", mock.Anything, f.vendor.ID, domain.RecipientVendor, conv.ID, "hello", mock.Anything).Return(nil).Once()

	_, err := f.svc.Send(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	f.notifs.AssertNumberOfCalls(t, "NotifyChatMessage", 1)
	assert.NotEmpty(t, f.hub.events)
}

func TestSend_RejectsEmptyAndImpostor(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	_, err := f.svc.Send(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.svc.Send(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID+100, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrSenderMismatch)

	// admins must join before speaking
	_, err = f.svc.Send(ctx, conv.ID, domain.RoleParticipantAdmin, f.admin.ID, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrSenderMismatch)
}

func TestMarkRead_ResetsOwnSideOnly(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	f.notifs.On("NotifyChatMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	_, err := f.svc.Send(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	err = f.svc.MarkRead(ctx, conv.ID, domain.RoleParticipantVendor, f.vendor.ID)
	require.NoError(t, err)

	fresh, err := f.svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.VendorUnread)
	require.NotNil(t, fresh.VendorLastReadAt)

	err = f.svc.MarkRead(ctx, conv.ID, domain.RoleParticipantVendor, f.vendor.ID+100)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminAutoMessage_UnknownKeyFallsBackToApology(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	f.notifs.On("NotifyChatMessage", mock.Anything, f.customer.ID, domain.RecipientCustomer, conv.ID, mock.Anything, mock.Anything).Return(nil)

	msg, err := f.svc.AdminAutoMessage(ctx, conv.ID, f.admin.ID, "no-such-template")
	require.NoError(t, err)
	assert.Equal(t, "We apologize for the inconvenience. Our team is looking into your issue.", msg.Content)
	assert.Equal(t, domain.RoleParticipantCustomer, msg.ReceiverRole)

	// the auto-message joined the admin as a side effect
	fresh, err := f.svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Participants, 3)
}

func TestAdminJoin_Idempotent(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	require.NoError(t, f.svc.AdminJoin(ctx, conv.ID, f.admin.ID))
	require.NoError(t, f.svc.AdminJoin(ctx, conv.ID, f.admin.ID))

	fresh, err := f.svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Participants, 3)
}

func TestMessages_Paging(t *testing.T) {
	f := setupChatFixture(t)
	ctx := context.Background()
	conv := f.start(t)

	f.notifs.On("NotifyChatMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Send(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, SendMessageRequest{
			Content: fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	// greeting + three messages; a page of two leaves more behind
	msgs, hasMore, err := f.svc.Messages(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, 2, nil)
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, msgs, 2)
	assert.Equal(t, "message 1", msgs[0].Content)
	assert.Equal(t, "message 2", msgs[1].Content)

	older, hasMore, err := f.svc.Messages(ctx, conv.ID, domain.RoleParticipantCustomer, f.customer.ID, 2, &msgs[0].ID)
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, older, 2)
	assert.Equal(t, "message 0", older[1].Content)
}
