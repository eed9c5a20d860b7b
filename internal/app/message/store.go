package message

import (
	"context"

	"talentx/internal/app/user"
)

// Filter selects messages addressed to ReceiverID. Empty optional fields match anything.
type Filter struct {
	ReceiverID      string
	SenderID        string
	ExcludeSenderID string
}

// Matches reports whether m is selected by f, ignoring the read flag.
func (f Filter) Matches(m Message) bool {
	if m.ReceiverID != f.ReceiverID {
		return false
	}
	if f.SenderID != "" && m.SenderID != f.SenderID {
		return false
	}
	if f.ExcludeSenderID != "" && m.SenderID == f.ExcludeSenderID {
		return false
	}
	return true
}

// Store is the persistence contract of the messaging layer.
//
// InsertMessage must be atomic: it either stores exactly one row or fails.
// Listing methods return messages with Sender populated when the sender exists.
type Store interface {
	InsertMessage(ctx context.Context, senderID, receiverID, content string) (Message, error)
	ListConversation(ctx context.Context, a, b string) ([]Message, error)
	ListForUser(ctx context.Context, userID string) ([]Message, error)
	ListThreadHeads(ctx context.Context, receiverID string) ([]Message, error)
	CountUnread(ctx context.Context, f Filter) (int, error)
	MarkRead(ctx context.Context, f Filter) (int64, error)

	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUserIDsByRole(ctx context.Context, role user.Role) ([]string, error)

	InsertNotifications(ctx context.Context, userIDs []string, n NotificationParams) error
}
