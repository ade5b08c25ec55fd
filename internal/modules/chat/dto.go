package chat

import (
	"time"

	"eventgenie/internal/domain"
)

type StartConversationRequest struct {
	VendorID        int64  `json:"vendor_id" binding:"required"`
	ServiceCategory string `json:"service_category" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type AdminStartRequest struct {
	CustomerID      int64  `json:"customer_id" binding:"required"`
	VendorID        int64  `json:"vendor_id" binding:"required"`
	ServiceCategory string `json:"service_category" binding:"required"`
}

type AutoMessageRequest struct {
	TemplateKey string `json:"template_key"`
}

// ConversationResponse is a conversation as seen by one viewer: unread count
// and last-read stamp are the viewer's side of the thread.
type ConversationResponse struct {
	ID              int64                  `json:"id"`
	CustomerID      int64                  `json:"customer_id"`
	VendorID        int64                  `json:"vendor_id"`
	ServiceCategory domain.ServiceCategory `json:"service_category"`
	LastMessageAt   time.Time              `json:"last_message_at"`
	UnreadCount     int                    `json:"unread_count"`
	LastReadAt      *time.Time             `json:"last_read_at,omitempty"`
	Participants    []domain.Participant   `json:"participants"`
	CreatedAt       time.Time              `json:"created_at"`
}

func ToConversationResponse(conv *domain.Conversation, viewer domain.ParticipantRole) *ConversationResponse {
	resp := &ConversationResponse{
		ID:              conv.ID,
		CustomerID:      conv.CustomerID,
		VendorID:        conv.VendorID,
		ServiceCategory: conv.ServiceCategory,
		LastMessageAt:   conv.LastMessageAt,
		Participants:    conv.Participants,
		CreatedAt:       conv.CreatedAt,
	}
	switch viewer {
	case domain.RoleParticipantCustomer:
		resp.UnreadCount = conv.CustomerUnread
		resp.LastReadAt = conv.CustomerLastReadAt
	case domain.RoleParticipantVendor:
		resp.UnreadCount = conv.VendorUnread
		resp.LastReadAt = conv.VendorLastReadAt
	}
	return resp
}

// WSClientMessage is the envelope clients write to the socket.
type WSClientMessage struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

// WSEvent is the envelope the server writes back.
type WSEvent struct {
	Type           string          `json:"type"`
	ConversationID int64           `json:"conversation_id,omitempty"`
	Message        *domain.Message `json:"message,omitempty"`
	SenderRole     string          `json:"sender_role,omitempty"`
	SenderID       int64           `json:"sender_id,omitempty"`
	IsTyping       bool            `json:"is_typing,omitempty"`
	Code           string          `json:"code,omitempty"`
	Error          string          `json:"error,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

func NewMessageEvent(conversationID int64, msg *domain.Message) WSEvent {
	return WSEvent{
		Type:           "message",
		ConversationID: conversationID,
		Message:        msg,
		Timestamp:      time.Now(),
	}
}

func NewTypingEvent(conversationID int64, role domain.ParticipantRole, senderID int64, isTyping bool) WSEvent {
	return WSEvent{
		Type:           "typing",
		ConversationID: conversationID,
		SenderRole:     string(role),
		SenderID:       senderID,
		IsTyping:       isTyping,
		Timestamp:      time.Now(),
	}
}

func NewReadEvent(conversationID int64, role domain.ParticipantRole, userID int64) WSEvent {
	return WSEvent{
		Type:           "read",
		ConversationID: conversationID,
		SenderRole:     string(role),
		SenderID:       userID,
		Timestamp:      time.Now(),
	}
}

func NewErrorEvent(code, message string) WSEvent {
	return WSEvent{
		Type:      "error",
		Code:      code,
		Error:     message,
		Timestamp: time.Now(),
	}
}

func NewPongEvent() WSEvent {
	return WSEvent{Type: "pong", Timestamp: time.Now()}
}
