package domain

import "time"

// ParticipantRole identifies which side of a conversation a message or
// participant belongs to. System is only ever a sender.
type ParticipantRole string

const (
	RoleParticipantCustomer ParticipantRole = "Customer"
	RoleParticipantVendor   ParticipantRole = "Vendor"
	RoleParticipantAdmin    ParticipantRole = "Admin"
	RoleParticipantSystem   ParticipantRole = "System"
)

// Conversation is a chat thread, unique per (customer, vendor, category).
type Conversation struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	VendorID        int64           `json:"vendor_id"`
	ServiceCategory ServiceCategory `json:"service_category"`

	LastMessageAt time.Time `json:"last_message_at"`

	CustomerUnread int `json:"customer_unread"`
	VendorUnread   int `json:"vendor_unread"`

	CustomerLastReadAt *time.Time `json:"customer_last_read_at,omitempty"`
	VendorLastReadAt   *time.Time `json:"vendor_last_read_at,omitempty"`

	Participants []Participant `json:"participants,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Participant struct {
	ID             int64           `json:"id"`
	ConversationID int64           `json:"conversation_id"`
	Role           ParticipantRole `json:"role"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	JoinedAt       time.Time       `json:"joined_at"`
}

// Message is a single entry in a conversation. Append-only; order is the
// append order.
type Message struct {
	ID             int64           `json:"id"`
	ConversationID int64           `json:"conversation_id"`
	SenderRole     ParticipantRole `json:"sender_role"`
	// Zero for System messages.
	SenderID     int64           `json:"sender_id,omitempty"`
	ReceiverRole ParticipantRole `json:"receiver_role"`
	ReceiverID   int64           `json:"receiver_id"`
	Content      string          `json:"content"`
	CreatedAt    time.Time       `json:"created_at"`
}
