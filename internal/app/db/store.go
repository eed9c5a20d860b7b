package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	dbc "talentx/internal/app/db/sqlc"
	"talentx/internal/app/message"
	"talentx/internal/app/user"
)

// PGStore implements message.Store on top of the generated queries.
type PGStore struct {
	q *dbc.Queries
}

var _ message.Store = (*PGStore)(nil)

// NewPGStore wraps a pool or transaction.
func NewPGStore(conn dbc.DBTX) *PGStore {
	return &PGStore{q: dbc.New(conn)}
}

func optText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timeOf(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}

// messageRow is the column set shared by every message query joined to its sender.
type messageRow struct {
	ID           string
	SenderID     string
	ReceiverID   string
	Content      string
	Timestamp    pgtype.Timestamptz
	Read         bool
	SenderName   pgtype.Text
	SenderAvatar pgtype.Text
}

func (r messageRow) toMessage() message.Message {
	m := message.Message{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Content:    r.Content,
		Timestamp:  timeOf(r.Timestamp),
		Read:       r.Read,
	}

	if r.SenderName.Valid {
		m.Sender = &user.User{
			ID:        r.SenderID,
			FullName:  r.SenderName.String,
			AvatarURL: r.SenderAvatar.String,
		}
	}
	return m
}

func (s *PGStore) InsertMessage(ctx context.Context, senderID, receiverID, content string) (message.Message, error) {
	row, err := s.q.CreateMessage(ctx, dbc.CreateMessageParams{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		if IsForeignKeyViolation(err) {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, err
	}
	return messageRow(row).toMessage(), nil
}

func (s *PGStore) ListConversation(ctx context.Context, a, b string) ([]message.Message, error) {
	rows, err := s.q.ListConversation(ctx, dbc.ListConversationParams{UserA: a, UserB: b})
	if err != nil {
		return nil, err
	}

	out := make([]message.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, messageRow(r).toMessage())
	}
	return out, nil
}

func (s *PGStore) ListForUser(ctx context.Context, userID string) ([]message.Message, error) {
	rows, err := s.q.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]message.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, messageRow(r).toMessage())
	}
	return out, nil
}

func (s *PGStore) ListThreadHeads(ctx context.Context, receiverID string) ([]message.Message, error) {
	rows, err := s.q.ListThreadHeads(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	out := make([]message.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, messageRow(r).toMessage())
	}
	return out, nil
}

func (s *PGStore) CountUnread(ctx context.Context, f message.Filter) (int, error) {
	n, err := s.q.CountUnread(ctx, dbc.CountUnreadParams{
		ReceiverID:      f.ReceiverID,
		SenderID:        optText(f.SenderID),
		ExcludeSenderID: optText(f.ExcludeSenderID),
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *PGStore) MarkRead(ctx context.Context, f message.Filter) (int64, error) {
	return s.q.MarkRead(ctx, dbc.MarkReadParams{
		ReceiverID:      f.ReceiverID,
		SenderID:        optText(f.SenderID),
		ExcludeSenderID: optText(f.ExcludeSenderID),
	})
}

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	AvatarUrl    pgtype.Text
	Role         string
	Status       string
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		FullName:     r.FullName,
		AvatarURL:    r.AvatarUrl.String,
		Role:         user.Role(r.Role),
		Status:       user.Status(r.Status),
		PasswordHash: r.PasswordHash,
	}
}

func (s *PGStore) GetUser(ctx context.Context, id string) (user.User, error) {
	row, err := s.q.GetUserByID(ctx, id)
	if err != nil {
		return user.User{}, translate(err)
	}
	return userRow(row).toUser(), nil
}

func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row, err := s.q.GetUserByEmail(ctx, email)
	if err != nil {
		return user.User{}, translate(err)
	}
	return userRow(row).toUser(), nil
}

func (s *PGStore) ListUserIDsByRole(ctx context.Context, role user.Role) ([]string, error) {
	ids, err := s.q.ListUserIDsByRole(ctx, dbc.ListUserIDsByRoleParams{
		Role:      string(role),
		ExcludeID: user.SupportID,
	})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *PGStore) InsertNotifications(ctx context.Context, userIDs []string, n message.NotificationParams) error {
	if len(userIDs) == 0 {
		return nil
	}

	_, err := s.q.CreateNotifications(ctx, dbc.CreateNotificationsParams{
		UserIds: userIDs,
		Type:    n.Type,
		Content: n.Content,
		Data:    n.Data,
	})
	return err
}
