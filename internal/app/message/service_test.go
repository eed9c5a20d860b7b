package message

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentx/internal/app/user"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	store.now = tickingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	store.PutUser(user.User{ID: "A1", Email: "admin1@talentx.com", FullName: "Admin One", Role: user.RoleAdmin})
	store.PutUser(user.User{ID: "A2", Email: "admin2@talentx.com", FullName: "Admin Two", Role: user.RoleAdmin})
	store.PutUser(user.User{ID: "U1", Email: "u1@talentx.com", FullName: "Uma Client", AvatarURL: "https://img/u1", Role: user.RoleClient})
	store.PutUser(user.User{ID: "U2", Email: "u2@talentx.com", FullName: "Tom Talent", Role: user.RoleTalent})
	store.PutUser(user.User{ID: "U3", Email: "u3@talentx.com", FullName: "Ada Agency", Role: user.RoleAgency})

	return NewService(store), store
}

var (
	admin  = Sender{ID: "A1", Role: user.RoleAdmin}
	client = Sender{ID: "U1", Role: user.RoleClient}
	talent = Sender{ID: "U2", Role: user.RoleTalent}
	agency = Sender{ID: "U3", Role: user.RoleAgency}
)

func TestCreateMessage_Direct(t *testing.T) {
	svc, store := newTestService(t)
	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.CreateMessage(context.Background(), client, CreateInput{ReceiverID: "U2", Content: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "U1", got.SenderID)
	assert.Equal(t, "U2", got.ReceiverID)
	assert.Equal(t, "hi", got.Content)
	assert.False(t, got.Read)
	assert.False(t, got.Timestamp.Before(before))
	assert.Equal(t, "Uma Client", got.SenderName)
	assert.Equal(t, "https://img/u1", got.SenderAvatar)

	rows := store.Messages()
	require.Len(t, rows, 1)
	assert.Equal(t, got.ID, rows[0].ID)
	assert.Empty(t, store.Notifications())
}

func TestCreateMessage_SupportFromNonAdminGoesToSupport(t *testing.T) {
	svc, store := newTestService(t)

	for _, sender := range []Sender{client, talent, agency} {
		got, err := svc.CreateMessage(context.Background(), sender, CreateInput{
			ReceiverID: "A2",
			Content:    "help",
			IsSupport:  true,
		})
		require.NoError(t, err)

		assert.Equal(t, sender.ID, got.SenderID)
		assert.Equal(t, user.SupportID, got.ReceiverID, "receiver_id supplied by the client is ignored")
	}

	assert.Len(t, store.Messages(), 3)
}

func TestCreateMessage_SupportFromAdminSpeaksAsSupport(t *testing.T) {
	svc, store := newTestService(t)

	got, err := svc.CreateMessage(context.Background(), admin, CreateInput{
		ReceiverID: "U1",
		Content:    "how can we help?",
		IsSupport:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, user.SupportID, got.SenderID)
	assert.Equal(t, "U1", got.ReceiverID)
	assert.Equal(t, user.SupportName, got.SenderName)
	assert.Equal(t, user.SupportAvatar, got.SenderAvatar)
	assert.Empty(t, store.Notifications(), "admin replies do not notify admins")
}

func TestCreateMessage_NotifiesEveryAdmin(t *testing.T) {
	svc, store := newTestService(t)
	long := strings.Repeat("x", 60)

	got, err := svc.CreateMessage(context.Background(), client, CreateInput{Content: long, IsSupport: true})
	require.NoError(t, err)

	notes := store.Notifications()
	require.Len(t, notes, 2)

	recipients := []string{notes[0].UserID, notes[1].UserID}
	assert.ElementsMatch(t, []string{"A1", "A2"}, recipients)

	for _, n := range notes {
		assert.Equal(t, NotificationTypeSupportTicket, n.Type)
		assert.Equal(t, `New support ticket from Uma Client: "`+strings.Repeat("x", 50)+`..."`, n.Content)

		var data map[string]string
		require.NoError(t, json.Unmarshal([]byte(n.Data), &data))
		assert.Equal(t, "U1", data["senderId"])
		assert.Equal(t, got.ID, data["messageId"])
	}
}

func TestCreateMessage_ShortPreviewIsNotTruncated(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CreateMessage(context.Background(), talent, CreateInput{Content: "broken invoice", IsSupport: true})
	require.NoError(t, err)

	notes := store.Notifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, `New support ticket from Tom Talent: "broken invoice"`, notes[0].Content)
}

func TestCreateMessage_Validation(t *testing.T) {
	svc, store := newTestService(t)

	tests := []struct {
		name   string
		sender Sender
		in     CreateInput
		want   error
	}{
		{"empty content", client, CreateInput{ReceiverID: "U2", Content: ""}, ErrContentEmpty},
		{"whitespace content", client, CreateInput{ReceiverID: "U2", Content: " \n\t"}, ErrContentEmpty},
		{"too long", client, CreateInput{ReceiverID: "U2", Content: strings.Repeat("a", MaxContentBytes+1)}, ErrContentTooLong},
		{"missing receiver", client, CreateInput{Content: "hi"}, ErrReceiverRequired},
		{"admin support reply without receiver", admin, CreateInput{Content: "hi", IsSupport: true}, ErrReceiverRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMessage(context.Background(), tt.sender, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, store.Messages(), "rejected messages are never stored")
}

// failingStore wraps a MemoryStore and fails selected operations.
type failingStore struct {
	*MemoryStore
	failInsert        bool
	failNotifications bool
}

var errBoom = errors.New("storage unavailable")

func (f *failingStore) InsertMessage(ctx context.Context, senderID, receiverID, content string) (Message, error) {
	if f.failInsert {
		return Message{}, errBoom
	}
	return f.MemoryStore.InsertMessage(ctx, senderID, receiverID, content)
}

func (f *failingStore) InsertNotifications(ctx context.Context, userIDs []string, n NotificationParams) error {
	if f.failNotifications {
		return errBoom
	}
	return f.MemoryStore.InsertNotifications(ctx, userIDs, n)
}

func TestCreateMessage_StorageFailure(t *testing.T) {
	_, mem := newTestService(t)
	svc := NewService(&failingStore{MemoryStore: mem, failInsert: true})

	_, err := svc.CreateMessage(context.Background(), client, CreateInput{ReceiverID: "U2", Content: "hi"})
	require.Error(t, err)

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, mem.Messages())
}

func TestCreateMessage_NotificationFailureKeepsMessage(t *testing.T) {
	_, mem := newTestService(t)
	svc := NewService(&failingStore{MemoryStore: mem, failNotifications: true})

	got, err := svc.CreateMessage(context.Background(), client, CreateInput{Content: "help", IsSupport: true})
	require.NoError(t, err)

	assert.Equal(t, user.SupportID, got.ReceiverID)
	assert.Len(t, mem.Messages(), 1)
	assert.Empty(t, mem.Notifications())
}

func TestGetDirectMessages_Symmetric(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, client, CreateInput{ReceiverID: "U2", Content: "one"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, talent, CreateInput{ReceiverID: "U1", Content: "two"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, agency, CreateInput{ReceiverID: "U1", Content: "unrelated"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, client, CreateInput{ReceiverID: "U2", Content: "three"})
	require.NoError(t, err)

	fromU1, err := svc.GetDirectMessages(ctx, "U1", "U2")
	require.NoError(t, err)
	fromU2, err := svc.GetDirectMessages(ctx, "U2", "U1")
	require.NoError(t, err)

	assert.Equal(t, fromU1, fromU2)
	require.Len(t, fromU1, 3)
	assert.Equal(t, []string{"one", "two", "three"}, contents(fromU1))
}

func TestGetDirectMessages_RequiresCounterpart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetDirectMessages(context.Background(), "U1", "")
	assert.ErrorIs(t, err, ErrReceiverRequired)
}

func TestGetUserMessages(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, client, CreateInput{ReceiverID: "U2", Content: "one"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, agency, CreateInput{ReceiverID: "U2", Content: "unrelated"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, client, CreateInput{Content: "help", IsSupport: true})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, admin, CreateInput{ReceiverID: "U1", Content: "reply", IsSupport: true})
	require.NoError(t, err)

	got, err := svc.GetUserMessages(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "help", "reply"}, contents(got))
	assert.Equal(t, "Uma Client", got[0].SenderName)
	assert.Equal(t, "https://img/u1", got[0].SenderAvatar)

	none, err := svc.GetUserMessages(ctx, "A2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetSupportMessages(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, client, CreateInput{Content: "u1 needs help", IsSupport: true})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, talent, CreateInput{Content: "u2 needs help", IsSupport: true})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, admin, CreateInput{ReceiverID: "U1", Content: "on it", IsSupport: true})
	require.NoError(t, err)

	own, err := svc.GetSupportMessages(ctx, "U1", false, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1 needs help", "on it"}, contents(own))

	// A non-admin cannot read someone else's thread by naming it.
	sneaky, err := svc.GetSupportMessages(ctx, "U1", false, "U2")
	require.NoError(t, err)
	assert.Equal(t, contents(own), contents(sneaky))

	thread, err := svc.GetSupportMessages(ctx, "A1", true, "U2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2 needs help"}, contents(thread))
}

func TestGetSupportThreads(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, client, CreateInput{Content: "first", IsSupport: true})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, talent, CreateInput{Content: "second", IsSupport: true})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, client, CreateInput{Content: "third", IsSupport: true})
	require.NoError(t, err)

	threads, err := svc.GetSupportThreads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	assert.Equal(t, "U1", threads[0].UserID)
	assert.Equal(t, "Uma Client", threads[0].UserName)
	require.NotNil(t, threads[0].UserAvatar)
	assert.Equal(t, "https://img/u1", *threads[0].UserAvatar)
	assert.Equal(t, "third", threads[0].LastMessage)

	assert.Equal(t, "U2", threads[1].UserID)
	assert.Nil(t, threads[1].UserAvatar)
	assert.Equal(t, "second", threads[1].LastMessage)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, talent, CreateInput{ReceiverID: "U1", Content: "dm 1"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, agency, CreateInput{ReceiverID: "U1", Content: "dm 2"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, admin, CreateInput{ReceiverID: "U1", Content: "support reply", IsSupport: true})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, talent, CreateInput{Content: "ticket", IsSupport: true})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, UnreadCount{General: 2, Support: 1}, count)

	adminCount, err := svc.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, UnreadCount{General: 0, Support: 1}, adminCount)

	updated, err := svc.MarkRead(ctx, client, MarkReadInput{SenderID: "U2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	count, err = svc.UnreadCount(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, UnreadCount{General: 1, Support: 1}, count)

	updated, err = svc.MarkRead(ctx, client, MarkReadInput{IsSupport: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	updated, err = svc.MarkRead(ctx, admin, MarkReadInput{IsSupport: true, ThreadUserID: "U2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	adminCount, err = svc.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, adminCount.Support)
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMessage(ctx, talent, CreateInput{ReceiverID: "U1", Content: "dm"})
	require.NoError(t, err)

	first, err := svc.MarkRead(ctx, client, MarkReadInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := svc.MarkRead(ctx, client, MarkReadInput{})
	require.NoError(t, err)
	assert.Zero(t, second)

	for _, m := range store.Messages() {
		assert.True(t, m.Read)
	}
}

func TestFormatMessage_Fallbacks(t *testing.T) {
	unknown := FormatMessage(Message{SenderID: "ghost"})
	assert.Equal(t, "System", unknown.SenderName)
	assert.Empty(t, unknown.SenderAvatar)

	support := FormatMessage(Message{SenderID: user.SupportID, Sender: &user.User{FullName: "Someone Else"}})
	assert.Equal(t, user.SupportName, support.SenderName)

	threads := FormatThreads([]Message{{SenderID: "ghost", Content: "hello"}})
	require.Len(t, threads, 1)
	assert.Equal(t, "Unknown User", threads[0].UserName)

	assert.NotNil(t, FormatMessages(nil))
	assert.Equal(t, FormatMessages([]Message{{SenderID: "x"}}), FormatMessages([]Message{{SenderID: "x"}}))
}

func contents(msgs []FormattedMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}
