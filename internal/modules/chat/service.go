package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/repository"

	"go.uber.org/zap"
)

const systemGreeting = "Hello there! How can we assist you today?"

// Canned admin messages. An unknown key falls back to the apology.
var autoMessageTemplates = map[string]string{
	"apology": "We apologize for the inconvenience. Our team is looking into your issue.",
	"welcome": "Hello! Admin has joined this chat to assist further.",
}

type Service struct {
	conversations ConversationRepository
	accounts      Accounts
	notifications NotificationSender
	hub           Broadcaster
	logger        *zap.SugaredLogger
	now           func() time.Time
}

func NewService(conversations ConversationRepository, accounts Accounts, notifications NotificationSender, hub Broadcaster, logger *zap.SugaredLogger) *Service {
	return &Service{
		conversations: conversations,
		accounts:      accounts,
		notifications: notifications,
		hub:           hub,
		logger:        logger,
		now:           time.Now,
	}
}

// StartOrGet returns the conversation for (customer, vendor, category),
// creating it on first contact. Creation seeds both participants and the
// system greeting. Two racing creators converge on a single conversation:
// the loser hits the unique index and re-reads the winner.
func (s *Service) StartOrGet(ctx context.Context, customerID int64, req StartConversationRequest) (*domain.Conversation, bool, error) {
	category := domain.ServiceCategory(req.ServiceCategory)
	if !domain.ValidCategory(category) {
		return nil, false, ErrInvalidCategory
	}

	if conv, err := s.conversations.GetByNaturalKey(ctx, customerID, req.VendorID, category); err == nil {
		return conv, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	customer, err := s.accounts.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, false, s.mapNotFound(err)
	}
	vendor, err := s.accounts.GetVendor(ctx, req.VendorID)
	if err != nil {
		return nil, false, s.mapNotFound(err)
	}

	now := s.now()
	conv := &domain.Conversation{
		CustomerID:      customerID,
		VendorID:        req.VendorID,
		ServiceCategory: category,
		LastMessageAt:   now,
	}
	participants := []domain.Participant{
		{Role: domain.RoleParticipantCustomer, UserID: customer.ID, Name: customer.Name, JoinedAt: now},
		{Role: domain.RoleParticipantVendor, UserID: vendor.ID, Name: vendor.Name, JoinedAt: now},
	}
	greeting := &domain.Message{
		SenderRole:   domain.RoleParticipantSystem,
		ReceiverRole: domain.RoleParticipantCustomer,
		ReceiverID:   customerID,
		Content:      systemGreeting,
		CreatedAt:    now,
	}

	if err := s.conversations.Create(ctx, conv, participants, greeting); err != nil {
		if repository.IsUniqueViolation(err) {
			winner, ferr := s.conversations.GetByNaturalKey(ctx, customerID, req.VendorID, category)
			if ferr != nil {
				return nil, false, ferr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return conv, true, nil
}

// Send appends a message and fans it out: live push to connected
// participants plus a persisted notification for the receiving side.
func (s *Service) Send(ctx context.Context, conversationID int64, senderRole domain.ParticipantRole, senderID int64, req SendMessageRequest) (*domain.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	conv, err := s.get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSender(ctx, conv, senderRole, senderID); err != nil {
		return nil, err
	}

	receiverRole, receiverID := receiverOf(conv, senderRole)
	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderRole:     senderRole,
		SenderID:       senderID,
		ReceiverRole:   receiverRole,
		ReceiverID:     receiverID,
		Content:        content,
		CreatedAt:      s.now(),
	}
	if err := s.conversations.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.fanOut(ctx, conv, msg)
	return msg, nil
}

// fanOut pushes the message to every connected participant and records a
// notification for the receiver. The notification is written even when the
// receiver holds an open socket, so the inbox stays a complete history.
func (s *Service) fanOut(ctx context.Context, conv *domain.Conversation, msg *domain.Message) {
	if s.hub != nil {
		s.hub.Broadcast(conv.Participants, NewMessageEvent(conv.ID, msg))
	}

	kind := domain.RecipientVendor
	if msg.ReceiverRole == domain.RoleParticipantCustomer {
		kind = domain.RecipientCustomer
	}
	err := s.notifications.NotifyChatMessage(ctx, msg.ReceiverID, kind, conv.ID, msg.Content, map[string]any{
		"sender_role": string(msg.SenderRole),
		"sender_id":   msg.SenderID,
	})
	if err != nil {
		s.logger.Warnw("chat notification failed",
			"conversation_id", conv.ID, "receiver_id", msg.ReceiverID, "error", err)
	}
}

// MarkRead clears the caller's unread counter and stamps the read time.
// Admin reads are not tracked.
func (s *Service) MarkRead(ctx context.Context, conversationID int64, role domain.ParticipantRole, userID int64) error {
	conv, err := s.get(ctx, conversationID)
	if err != nil {
		return err
	}

	switch role {
	case domain.RoleParticipantCustomer:
		if conv.CustomerID != userID {
			return ErrForbidden
		}
	case domain.RoleParticipantVendor:
		if conv.VendorID != userID {
			return ErrForbidden
		}
	case domain.RoleParticipantAdmin:
		return nil
	default:
		return ErrForbidden
	}

	if err := s.conversations.ResetUnread(ctx, conv.ID, role, s.now()); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.Broadcast(conv.Participants, NewReadEvent(conv.ID, role, userID))
	}
	return nil
}

// AdminStart opens (or joins) the conversation between a customer and a
// vendor on behalf of an admin.
func (s *Service) AdminStart(ctx context.Context, adminID int64, req AdminStartRequest) (*domain.Conversation, error) {
	conv, _, err := s.StartOrGet(ctx, req.CustomerID, StartConversationRequest{
		VendorID:        req.VendorID,
		ServiceCategory: req.ServiceCategory,
	})
	if err != nil {
		return nil, err
	}
	if err := s.AdminJoin(ctx, conv.ID, adminID); err != nil {
		return nil, err
	}
	return s.get(ctx, conv.ID)
}

// AdminJoin adds the admin to the participant list. Joining twice is a no-op.
func (s *Service) AdminJoin(ctx context.Context, conversationID, adminID int64) error {
	conv, err := s.get(ctx, conversationID)
	if err != nil {
		return err
	}
	admin, err := s.accounts.GetAdmin(ctx, adminID)
	if err != nil {
		return s.mapNotFound(err)
	}
	return s.conversations.AddParticipant(ctx, &domain.Participant{
		ConversationID: conv.ID,
		Role:           domain.RoleParticipantAdmin,
		UserID:         admin.ID,
		Name:           admin.Name,
		JoinedAt:       s.now(),
	})
}

// AdminAutoMessage joins the admin if needed and sends a canned message to
// the customer side.
func (s *Service) AdminAutoMessage(ctx context.Context, conversationID, adminID int64, templateKey string) (*domain.Message, error) {
	content, ok := autoMessageTemplates[templateKey]
	if !ok {
		content = autoMessageTemplates["apology"]
	}
	if err := s.AdminJoin(ctx, conversationID, adminID); err != nil {
		return nil, err
	}
	return s.Send(ctx, conversationID, domain.RoleParticipantAdmin, adminID, SendMessageRequest{Content: content})
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Conversation, error) {
	return s.conversations.ListByCustomer(ctx, customerID)
}

func (s *Service) ListForVendor(ctx context.Context, vendorID int64) ([]domain.Conversation, error) {
	return s.conversations.ListByVendor(ctx, vendorID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Conversation, error) {
	return s.conversations.ListAll(ctx)
}

// Messages returns the history page plus a has-more flag. Admins may read
// any conversation; customers and vendors only their own.
func (s *Service) Messages(ctx context.Context, conversationID int64, role domain.ParticipantRole, userID int64, limit int, beforeID *int64) ([]domain.Message, bool, error) {
	conv, err := s.get(ctx, conversationID)
	if err != nil {
		return nil, false, err
	}
	if role != domain.RoleParticipantAdmin {
		if err := s.authorizeSender(ctx, conv, role, userID); err != nil {
			return nil, false, err
		}
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	msgs, err := s.conversations.ListMessages(ctx, conv.ID, limit+1, beforeID)
	if err != nil {
		return nil, false, err
	}
	hasMore := false
	if len(msgs) > limit {
		hasMore = true
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, hasMore, nil
}

// IsParticipant reports whether the identity may act inside the conversation.
func (s *Service) IsParticipant(ctx context.Context, conversationID int64, role domain.ParticipantRole, userID int64) bool {
	conv, err := s.get(ctx, conversationID)
	if err != nil {
		return false
	}
	return s.authorizeSender(ctx, conv, role, userID) == nil
}

func (s *Service) Get(ctx context.Context, conversationID int64) (*domain.Conversation, error) {
	return s.get(ctx, conversationID)
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return conv, nil
}

func (s *Service) authorizeSender(ctx context.Context, conv *domain.Conversation, role domain.ParticipantRole, userID int64) error {
	switch role {
	case domain.RoleParticipantCustomer:
		if conv.CustomerID != userID {
			return ErrSenderMismatch
		}
	case domain.RoleParticipantVendor:
		if conv.VendorID != userID {
			return ErrSenderMismatch
		}
	case domain.RoleParticipantAdmin:
		ok, err := s.conversations.HasParticipant(ctx, conv.ID, domain.RoleParticipantAdmin, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSenderMismatch
		}
	default:
		return ErrSenderMismatch
	}
	return nil
}

// Messages land on the opposite side of the thread; admin and system
// messages address the customer.
func receiverOf(conv *domain.Conversation, sender domain.ParticipantRole) (domain.ParticipantRole, int64) {
	if sender == domain.RoleParticipantCustomer {
		return domain.RoleParticipantVendor, conv.VendorID
	}
	return domain.RoleParticipantCustomer, conv.CustomerID
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
