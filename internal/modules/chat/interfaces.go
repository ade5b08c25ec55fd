package chat

import (
	"context"
	"time"

	"eventgenie/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation, participants []domain.Participant, greeting *domain.Message) error
	GetByNaturalKey(ctx context.Context, customerID, vendorID int64, category domain.ServiceCategory) (*domain.Conversation, error)
	GetByID(ctx context.Context, id int64) (*domain.Conversation, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Conversation, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Conversation, error)
	ListAll(ctx context.Context) ([]domain.Conversation, error)
	AppendMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID int64, limit int, beforeID *int64) ([]domain.Message, error)
	ResetUnread(ctx context.Context, conversationID int64, role domain.ParticipantRole, at time.Time) error
	AddParticipant(ctx context.Context, p *domain.Participant) error
	HasParticipant(ctx context.Context, conversationID int64, role domain.ParticipantRole, userID int64) (bool, error)
}

type Accounts interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetVendor(ctx context.Context, id int64) (*domain.Vendor, error)
	GetAdmin(ctx context.Context, id int64) (*domain.Admin, error)
}

type NotificationSender interface {
	NotifyChatMessage(ctx context.Context, recipientID int64, kind domain.RecipientKind, conversationID int64, preview string, metadata map[string]any) error
}

// Broadcaster pushes events to live connections. The hub satisfies it; tests
// substitute their own.
type Broadcaster interface {
	Broadcast(participants []domain.Participant, event interface{})
}
