package repository

import (
	"context"
	"time"

	"eventgenie/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	RecipientID   int64  `gorm:"column:recipient_id;index:idx_notif_recipient_read;index:idx_notif_recipient_created"`
	RecipientKind string `gorm:"column:recipient_kind"`
	Type          string `gorm:"column:type"`
	Title         string `gorm:"column:title"`
	Message       string `gorm:"column:message;type:text"`

	BookingID      *int64 `gorm:"column:booking_id"`
	ConversationID *int64 `gorm:"column:conversation_id"`

	Metadata []byte `gorm:"column:metadata"`

	IsRead    bool       `gorm:"column:is_read;index:idx_notif_recipient_read"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;index:idx_notif_recipient_created"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) *domain.Notification {
	return &domain.Notification{
		ID:             m.ID,
		RecipientID:    m.RecipientID,
		RecipientKind:  domain.RecipientKind(m.RecipientKind),
		Type:           domain.NotificationType(m.Type),
		Title:          m.Title,
		Message:        m.Message,
		BookingID:      m.BookingID,
		ConversationID: m.ConversationID,
		Metadata:       m.Metadata,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		RecipientID:    n.RecipientID,
		RecipientKind:  string(n.RecipientKind),
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		BookingID:      n.BookingID,
		ConversationID: n.ConversationID,
		Metadata:       n.Metadata,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*n = *toDomainNotification(m)
	return nil
}

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

// Recipient identity is the (id, kind) pair: customer and vendor ids come
// from separate sequences, so the id alone is ambiguous. Every query below
// carries both.

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, kind domain.RecipientKind, f NotificationFilter) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("recipient_id = ? AND recipient_kind = ?", recipientID, string(kind))
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var ms []notificationModel
	if tx := q.Order("created_at DESC").Limit(limit).Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Notification, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64, kind domain.RecipientKind, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND recipient_id = ? AND recipient_kind = ?", id, recipientID, string(kind)).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64, kind domain.RecipientKind, at time.Time) error {
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_id = ? AND recipient_kind = ? AND is_read = ?", recipientID, string(kind), false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64, kind domain.RecipientKind) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("recipient_id = ? AND recipient_kind = ? AND is_read = ?", recipientID, string(kind), false).
		Count(&cnt).Error
	return cnt, err
}

func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID int64, kind domain.RecipientKind) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ? AND recipient_kind = ?", id, recipientID, string(kind)).
		Delete(&notificationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
