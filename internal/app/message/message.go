/*
Package message implements the messaging domain shared by the REST API and the
realtime gateway: support-identity substitution, thread queries, unread counts,
read tracking and admin notifications for new support tickets.
*/
package message

import (
	"errors"
	"time"

	"talentx/internal/app/user"
)

const (
	// MaxContentBytes is the maximum size of a message body.
	MaxContentBytes = 5000

	// NotificationTypeSupportTicket tags notifications created for new support messages.
	NotificationTypeSupportTicket = "support_ticket"

	// notificationPreviewRunes is how much of the ticket text is quoted in the notification.
	notificationPreviewRunes = 50

	fallbackSenderName = "System"
	fallbackThreadName = "Unknown User"
)

var (
	// ErrContentEmpty is returned for messages with no visible content.
	ErrContentEmpty = errors.New("message content is empty")

	// ErrContentTooLong is returned for messages larger than MaxContentBytes.
	ErrContentTooLong = errors.New("message content is too long")

	// ErrReceiverRequired is returned for direct messages without a receiver.
	ErrReceiverRequired = errors.New("receiver id is required")

	// ErrNotFound is returned by stores when a requested user does not exist.
	ErrNotFound = errors.New("not found")
)

// Message is a stored message row. Only Read ever changes after creation.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`

	// Sender is the sender's profile when the store could resolve it.
	Sender *user.User `json:"-"`
}

// FormattedMessage is a Message annotated with the sender's display identity.
type FormattedMessage struct {
	Message
	SenderName   string `json:"sender_name"`
	SenderAvatar string `json:"sender_avatar,omitempty"`
}

// ThreadSummary describes one support ticket thread for the admin inbox.
type ThreadSummary struct {
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserAvatar  *string   `json:"userAvatar"`
	LastMessage string    `json:"lastMessage"`
	Time        time.Time `json:"time"`
}

// Notification is a notification row as kept by stores.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Data      string    `json:"data"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationParams is the shared part of a notification fanned out to several users.
type NotificationParams struct {
	Type    string
	Content string
	Data    string
}

// Sender identifies the authenticated author of a request.
type Sender struct {
	ID   string
	Role user.Role
}

// IsAdmin reports whether the sender acts with admin privileges.
func (s Sender) IsAdmin() bool {
	return s.Role.IsAdmin()
}

// CreateInput is the client-supplied part of a new message.
type CreateInput struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	IsSupport  bool   `json:"isSupport"`
}

// UnreadCount is the number of unread general and support messages for a user.
type UnreadCount struct {
	General int `json:"general"`
	Support int `json:"support"`
}

// MarkReadInput selects which messages a mark-read request applies to.
type MarkReadInput struct {
	IsSupport    bool   `json:"isSupport"`
	ThreadUserID string `json:"threadUserId,omitempty"`
	SenderID     string `json:"senderId,omitempty"`
}
