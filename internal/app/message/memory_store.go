package message

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"talentx/internal/app/user"
)

// MemoryStore is an in-process Store used for local development and tests.
// Messages are kept in insertion order; nothing survives a restart.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]user.User
	messages      []Message
	notifications []Notification

	// now is the clock used for timestamps.
	now func() time.Time
}

// NewMemoryStore returns an empty store that already knows the support account.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users: make(map[string]user.User),
		now:   time.Now,
	}

	s.users[user.SupportID] = user.User{
		ID:        user.SupportID,
		Email:     "support@talentx.local",
		FullName:  user.SupportName,
		AvatarURL: user.SupportAvatar,
		Role:      user.RoleAdmin,
		Status:    user.StatusActive,
	}

	return s
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Status == "" {
		u.Status = user.StatusActive
	}
	s.users[u.ID] = u
}

// SeedAdmin adds an active admin who can log in with email and password.
func (s *MemoryStore) SeedAdmin(email, password string) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}

	u := user.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FullName:     "Admin",
		Role:         user.RoleAdmin,
		Status:       user.StatusActive,
		PasswordHash: string(hash),
	}
	s.PutUser(u)
	return u, nil
}

// Notifications returns a copy of all stored notifications.
func (s *MemoryStore) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Messages returns a copy of all stored messages in insertion order.
func (s *MemoryStore) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = s.withSender(m)
	}
	return out
}

// withSender attaches the sender profile. Callers hold at least the read lock.
func (s *MemoryStore) withSender(m Message) Message {
	if u, ok := s.users[m.SenderID]; ok {
		m.Sender = &u
	}
	return m
}

func (s *MemoryStore) InsertMessage(ctx context.Context, senderID, receiverID, content string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  s.now(),
	}
	s.messages = append(s.messages, m)

	return s.withSender(m), nil
}

func (s *MemoryStore) ListConversation(ctx context.Context, a, b string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Message{}
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, s.withSender(m))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) ListForUser(ctx context.Context, userID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Message{}
	for _, m := range s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, s.withSender(m))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) ListThreadHeads(ctx context.Context, receiverID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]Message)
	for _, m := range s.messages {
		if m.ReceiverID != receiverID {
			continue
		}
		if prev, ok := latest[m.SenderID]; !ok || !m.Timestamp.Before(prev.Timestamp) {
			latest[m.SenderID] = m
		}
	}

	out := make([]Message, 0, len(latest))
	for _, m := range latest {
		out = append(out, s.withSender(m))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].SenderID < out[j].SenderID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) CountUnread(ctx context.Context, f Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.messages {
		if !m.Read && f.Matches(m) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, f Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for i := range s.messages {
		if !s.messages[i].Read && f.Matches(s.messages[i]) {
			s.messages[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, ErrNotFound
}

func (s *MemoryStore) ListUserIDsByRole(ctx context.Context, role user.Role) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for id, u := range s.users {
		if u.Role == role && id != user.SupportID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) InsertNotifications(ctx context.Context, userIDs []string, n NotificationParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, id := range userIDs {
		s.notifications = append(s.notifications, Notification{
			ID:        uuid.New().String(),
			UserID:    id,
			Type:      n.Type,
			Content:   n.Content,
			Data:      n.Data,
			CreatedAt: now,
		})
	}
	return nil
}
