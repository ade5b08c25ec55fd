package repository

import (
	"context"
	"time"

	"eventgenie/internal/domain"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

type conversationModel struct {
	ID              int64  `gorm:"column:id;primaryKey"`
	CustomerID      int64  `gorm:"column:customer_id;uniqueIndex:idx_conv_natural_key;index:idx_conv_customer_last"`
	VendorID        int64  `gorm:"column:vendor_id;uniqueIndex:idx_conv_natural_key;index:idx_conv_vendor_last"`
	ServiceCategory string `gorm:"column:service_category;uniqueIndex:idx_conv_natural_key"`

	LastMessageAt time.Time `gorm:"column:last_message_at;index:idx_conv_customer_last;index:idx_conv_vendor_last"`

	CustomerUnread int `gorm:"column:customer_unread;default:0"`
	VendorUnread   int `gorm:"column:vendor_unread;default:0"`

	CustomerLastReadAt *time.Time `gorm:"column:customer_last_read_at"`
	VendorLastReadAt   *time.Time `gorm:"column:vendor_last_read_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (conversationModel) TableName() string { return "conversations" }

type participantModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	ConversationID int64     `gorm:"column:conversation_id;uniqueIndex:idx_participant_identity"`
	Role           string    `gorm:"column:role;uniqueIndex:idx_participant_identity"`
	UserID         int64     `gorm:"column:user_id;uniqueIndex:idx_participant_identity"`
	Name           string    `gorm:"column:name"`
	JoinedAt       time.Time `gorm:"column:joined_at"`
}

func (participantModel) TableName() string { return "conversation_participants" }

type messageModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	ConversationID int64     `gorm:"column:conversation_id;index:idx_messages_conv_created"`
	SenderRole     string    `gorm:"column:sender_role"`
	SenderID       int64     `gorm:"column:sender_id"`
	ReceiverRole   string    `gorm:"column:receiver_role"`
	ReceiverID     int64     `gorm:"column:receiver_id"`
	Content        string    `gorm:"column:content;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_messages_conv_created"`
}

func (messageModel) TableName() string { return "conversation_messages" }

func toDomainConversation(m conversationModel) *domain.Conversation {
	return &domain.Conversation{
		ID:                 m.ID,
		CustomerID:         m.CustomerID,
		VendorID:           m.VendorID,
		ServiceCategory:    domain.ServiceCategory(m.ServiceCategory),
		LastMessageAt:      m.LastMessageAt,
		CustomerUnread:     m.CustomerUnread,
		VendorUnread:       m.VendorUnread,
		CustomerLastReadAt: m.CustomerLastReadAt,
		VendorLastReadAt:   m.VendorLastReadAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toDomainParticipant(m participantModel) domain.Participant {
	return domain.Participant{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           domain.ParticipantRole(m.Role),
		UserID:         m.UserID,
		Name:           m.Name,
		JoinedAt:       m.JoinedAt,
	}
}

func toDomainMessage(m messageModel) *domain.Message {
	return &domain.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderRole:     domain.ParticipantRole(m.SenderRole),
		SenderID:       m.SenderID,
		ReceiverRole:   domain.ParticipantRole(m.ReceiverRole),
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessageModel(msg *domain.Message) messageModel {
	return messageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderRole:     string(msg.SenderRole),
		SenderID:       msg.SenderID,
		ReceiverRole:   string(msg.ReceiverRole),
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

// Create persists a new conversation with its initial participants and
// greeting message in one transaction. A uniqueness violation on the
// (customer, vendor, category) key surfaces to the caller, which falls back
// to the winner's record.
func (r *ChatRepository) Create(ctx context.Context, conv *domain.Conversation, participants []domain.Participant, greeting *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := conversationModel{
			CustomerID:      conv.CustomerID,
			VendorID:        conv.VendorID,
			ServiceCategory: string(conv.ServiceCategory),
			LastMessageAt:   conv.LastMessageAt,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for i := range participants {
			pm := participantModel{
				ConversationID: m.ID,
				Role:           string(participants[i].Role),
				UserID:         participants[i].UserID,
				Name:           participants[i].Name,
				JoinedAt:       participants[i].JoinedAt,
			}
			if err := tx.Create(&pm).Error; err != nil {
				return err
			}
		}
		if greeting != nil {
			greeting.ConversationID = m.ID
			gm := toMessageModel(greeting)
			if err := tx.Create(&gm).Error; err != nil {
				return err
			}
			greeting.ID = gm.ID
		}
		*conv = *toDomainConversation(m)
		return nil
	})
}

func (r *ChatRepository) GetByNaturalKey(ctx context.Context, customerID, vendorID int64, category domain.ServiceCategory) (*domain.Conversation, error) {
	var m conversationModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ? AND vendor_id = ? AND service_category = ?",
			customerID, vendorID, string(category)).
		First(&m)
	if tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return r.withParticipants(ctx, m)
}

func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	var m conversationModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translateNotFound(tx.Error)
	}
	return r.withParticipants(ctx, m)
}

func (r *ChatRepository) withParticipants(ctx context.Context, m conversationModel) (*domain.Conversation, error) {
	conv := toDomainConversation(m)
	var pms []participantModel
	tx := r.db.WithContext(ctx).
		Where("conversation_id = ?", m.ID).
		Order("joined_at").
		Find(&pms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	for _, pm := range pms {
		conv.Participants = append(conv.Participants, toDomainParticipant(pm))
	}
	return conv, nil
}

func (r *ChatRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Conversation, error) {
	return r.listConversations(ctx, "customer_id = ?", customerID)
}

func (r *ChatRepository) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Conversation, error) {
	return r.listConversations(ctx, "vendor_id = ?", vendorID)
}

// ListAll is the admin monitoring view.
func (r *ChatRepository) ListAll(ctx context.Context) ([]domain.Conversation, error) {
	return r.listConversations(ctx, "1 = 1")
}

func (r *ChatRepository) listConversations(ctx context.Context, query string, args ...any) ([]domain.Conversation, error) {
	var ms []conversationModel
	tx := r.db.WithContext(ctx).Where(query, args...).Order("last_message_at DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Conversation, 0, len(ms))
	for _, m := range ms {
		conv, err := r.withParticipants(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, *conv)
	}
	return out, nil
}

// AppendMessage inserts the message and, in the same transaction, bumps
// lastMessageAt and increments the receiving side's unread counter.
func (r *ChatRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mm := toMessageModel(msg)
		if err := tx.Create(&mm).Error; err != nil {
			return err
		}
		msg.ID = mm.ID

		updates := map[string]any{"last_message_at": msg.CreatedAt}
		switch msg.ReceiverRole {
		case domain.RoleParticipantCustomer:
			updates["customer_unread"] = gorm.Expr("customer_unread + 1")
		case domain.RoleParticipantVendor:
			updates["vendor_unread"] = gorm.Expr("vendor_unread + 1")
		}
		return tx.Model(&conversationModel{}).
			Where("id = ?", msg.ConversationID).
			Updates(updates).Error
	})
}

// ListMessages returns the newest messages in append order. beforeID, when
// non-nil, pages backwards through history.
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID int64, limit int, beforeID *int64) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if beforeID != nil {
		q = q.Where("id < ?", *beforeID)
	}
	var ms []messageModel
	if tx := q.Order("id DESC").Limit(limit).Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Message, len(ms))
	for i, m := range ms {
		out[len(ms)-1-i] = *toDomainMessage(m)
	}
	return out, nil
}

func (r *ChatRepository) ResetUnread(ctx context.Context, conversationID int64, role domain.ParticipantRole, at time.Time) error {
	updates := map[string]any{}
	switch role {
	case domain.RoleParticipantCustomer:
		updates["customer_unread"] = 0
		updates["customer_last_read_at"] = at
	case domain.RoleParticipantVendor:
		updates["vendor_unread"] = 0
		updates["vendor_last_read_at"] = at
	default:
		return nil
	}
	return r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ?", conversationID).
		Updates(updates).Error
}

// AddParticipant is idempotent: a duplicate (conversation, role, user) is a
// no-op.
func (r *ChatRepository) AddParticipant(ctx context.Context, p *domain.Participant) error {
	pm := participantModel{
		ConversationID: p.ConversationID,
		Role:           string(p.Role),
		UserID:         p.UserID,
		Name:           p.Name,
		JoinedAt:       p.JoinedAt,
	}
	err := r.db.WithContext(ctx).Create(&pm).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	p.ID = pm.ID
	return nil
}

func (r *ChatRepository) HasParticipant(ctx context.Context, conversationID int64, role domain.ParticipantRole, userID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&participantModel{}).
		Where("conversation_id = ? AND role = ? AND user_id = ?", conversationID, string(role), userID).
		Count(&cnt)
	return cnt > 0, tx.Error
}
