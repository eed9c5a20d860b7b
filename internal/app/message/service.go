package message

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"talentx/internal/app/user"
	"talentx/internal/pkg/logx"
)

// StorageError reports a failed store call. The message layer never retries;
// callers decide how to surface it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("message store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Service holds the messaging rules shared by every transport.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService constructs a Service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: logx.Component("message"),
	}
}

// validateContent checks the size limits of a message body.
func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}
	if len(content) > MaxContentBytes {
		return ErrContentTooLong
	}
	return nil
}

// route applies support-identity substitution. Non-admin support traffic is addressed
// to the support account; admins writing support traffic speak as the support account.
func route(sender Sender, in CreateInput) (senderID, receiverID string) {
	senderID, receiverID = sender.ID, in.ReceiverID

	if in.IsSupport {
		if sender.IsAdmin() {
			senderID = user.SupportID
		} else {
			receiverID = user.SupportID
		}
	}

	return senderID, receiverID
}

// CreateMessage validates, routes and stores a new message and returns it formatted
// for display. A non-admin support message also notifies every admin; a failed
// notification batch is logged and does not fail the call, since the message row is
// already durable at that point.
func (s *Service) CreateMessage(ctx context.Context, sender Sender, in CreateInput) (FormattedMessage, error) {
	if err := validateContent(in.Content); err != nil {
		return FormattedMessage{}, err
	}

	senderID, receiverID := route(sender, in)
	if receiverID == "" {
		return FormattedMessage{}, ErrReceiverRequired
	}

	msg, err := s.store.InsertMessage(ctx, senderID, receiverID, in.Content)
	if err != nil {
		return FormattedMessage{}, storageErr("insert message", err)
	}

	s.logger.Debug().
		Str("message_id", msg.ID).
		Str("sender_id", msg.SenderID).
		Str("receiver_id", msg.ReceiverID).
		Bool("support", in.IsSupport).
		Msg("Message stored.")

	if in.IsSupport && !sender.IsAdmin() {
		if err := s.notifyAdmins(ctx, sender, msg); err != nil {
			s.logger.Error().Err(err).
				Str("message_id", msg.ID).
				Msg("Failed to create support ticket notifications.")
		}
	}

	return FormatMessage(msg), nil
}

// notifyAdmins creates one support_ticket notification per admin account.
func (s *Service) notifyAdmins(ctx context.Context, sender Sender, msg Message) error {
	adminIDs, err := s.store.ListUserIDsByRole(ctx, user.RoleAdmin)
	if err != nil {
		return storageErr("list admins", err)
	}
	if len(adminIDs) == 0 {
		return nil
	}

	data, err := json.Marshal(struct {
		SenderID  string `json:"senderId"`
		MessageID string `json:"messageId"`
	}{sender.ID, msg.ID})
	if err != nil {
		return err
	}

	params := NotificationParams{
		Type:    NotificationTypeSupportTicket,
		Content: fmt.Sprintf("New support ticket from %s: \"%s\"", senderDisplayName(msg), preview(msg.Content)),
		Data:    string(data),
	}

	if err := s.store.InsertNotifications(ctx, adminIDs, params); err != nil {
		return storageErr("insert notifications", err)
	}
	return nil
}

func senderDisplayName(msg Message) string {
	if msg.Sender != nil && msg.Sender.FullName != "" {
		return msg.Sender.FullName
	}
	return msg.SenderID
}

// preview truncates content to the notification preview length.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= notificationPreviewRunes {
		return content
	}
	return string(runes[:notificationPreviewRunes]) + "..."
}

// GetDirectMessages returns the conversation between userID and counterpartID,
// oldest first. The result does not depend on which side sent each message.
func (s *Service) GetDirectMessages(ctx context.Context, userID, counterpartID string) ([]FormattedMessage, error) {
	if counterpartID == "" {
		return nil, ErrReceiverRequired
	}

	msgs, err := s.store.ListConversation(ctx, userID, counterpartID)
	if err != nil {
		return nil, storageErr("list conversation", err)
	}
	return FormatMessages(msgs), nil
}

// GetUserMessages returns every message userID sent or received, oldest first.
// Support traffic is included.
func (s *Service) GetUserMessages(ctx context.Context, userID string) ([]FormattedMessage, error) {
	msgs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list user messages", err)
	}
	return FormatMessages(msgs), nil
}

// GetSupportMessages returns a support thread, oldest first. Admins may name the
// thread owner with threadUserID; everyone else always gets their own thread.
func (s *Service) GetSupportMessages(ctx context.Context, userID string, isAdmin bool, threadUserID string) ([]FormattedMessage, error) {
	target := userID
	if isAdmin && threadUserID != "" {
		target = threadUserID
	}

	msgs, err := s.store.ListConversation(ctx, target, user.SupportID)
	if err != nil {
		return nil, storageErr("list support thread", err)
	}
	return FormatMessages(msgs), nil
}

// GetSupportThreads lists one summary per user who has written to support,
// most recently active first.
func (s *Service) GetSupportThreads(ctx context.Context) ([]ThreadSummary, error) {
	heads, err := s.store.ListThreadHeads(ctx, user.SupportID)
	if err != nil {
		return nil, storageErr("list support threads", err)
	}
	return FormatThreads(heads), nil
}

// unreadFilters returns the general and support inbox filters for sender.
func unreadFilters(sender Sender) (general, support Filter) {
	general = Filter{ReceiverID: sender.ID, ExcludeSenderID: user.SupportID}

	if sender.IsAdmin() {
		support = Filter{ReceiverID: user.SupportID}
	} else {
		support = Filter{ReceiverID: sender.ID, SenderID: user.SupportID}
	}
	return general, support
}

// UnreadCount returns the unread general and support message counts for sender.
// For admins the support count covers the whole shared support inbox.
func (s *Service) UnreadCount(ctx context.Context, sender Sender) (UnreadCount, error) {
	generalFilter, supportFilter := unreadFilters(sender)

	general, err := s.store.CountUnread(ctx, generalFilter)
	if err != nil {
		return UnreadCount{}, storageErr("count unread", err)
	}

	support, err := s.store.CountUnread(ctx, supportFilter)
	if err != nil {
		return UnreadCount{}, storageErr("count unread support", err)
	}

	return UnreadCount{General: general, Support: support}, nil
}

// MarkRead flags the selected messages as read and returns how many changed.
// Repeating the call is harmless and returns 0.
func (s *Service) MarkRead(ctx context.Context, sender Sender, in MarkReadInput) (int64, error) {
	var f Filter

	switch {
	case in.IsSupport && sender.IsAdmin() && in.ThreadUserID != "":
		f = Filter{ReceiverID: user.SupportID, SenderID: in.ThreadUserID}
	case in.IsSupport:
		_, f = unreadFilters(sender)
	case in.SenderID != "":
		f = Filter{ReceiverID: sender.ID, SenderID: in.SenderID}
	default:
		f, _ = unreadFilters(sender)
	}

	updated, err := s.store.MarkRead(ctx, f)
	if err != nil {
		return 0, storageErr("mark read", err)
	}
	return updated, nil
}
