package chat

import "errors"

var (
	ErrInvalidCategory = errors.New("unknown service category")
	ErrEmptyContent    = errors.New("message content is empty")
	ErrSenderMismatch  = errors.New("sender is not a participant of this conversation")
	ErrNotFound        = errors.New("conversation not found")
	ErrForbidden       = errors.New("access to this conversation is denied")
)
