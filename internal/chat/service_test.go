package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/ws"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func twoUserFixture(t *testing.T) (*models.User, *models.User, *models.Conversation) {
	t.Helper()
	a := &models.User{ID: primitive.NewObjectID(), Email: "a@example.com", Nickname: "alfa", Role: models.RoleUser}
	b := &models.User{ID: primitive.NewObjectID(), Email: "b@example.com", Nickname: "bravo", Role: models.RoleBooster}
	conv := &models.Conversation{ID: primitive.NewObjectID(), Users: []primitive.ObjectID{a.ID, b.ID}}
	return a, b, conv
}

func TestSendMessageEmptyContentDropped(t *testing.T) {
	a, b, conv := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	convs := newFakeConversationRepo(conv)
	msgs := &fakeMessageRepo{}
	reg := ws.NewRegistry()
	svc := NewService(convs, msgs, users, reg, nil, testLogger())

	cases := []MessagePayload{
		{RecipientID: "", Text: "hi"},
		{RecipientID: b.ID.Hex(), Text: "", Files: nil},
		{RecipientID: b.ID.Hex(), Text: "", Files: []string{}, Audio: ""},
		{RecipientID: b.ID.Hex(), Audio: "voice.ogg"},
	}
	for _, p := range cases {
		err := svc.SendMessage(context.Background(), nil, a.ID.Hex(), p)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, msgs.count(), "invalid payloads must never persist")
}

func TestSendMessageAudioOnlyWithFilesAccepted(t *testing.T) {
	a, b, conv := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	convs := newFakeConversationRepo(conv)
	msgs := &fakeMessageRepo{}
	reg := ws.NewRegistry()
	svc := NewService(convs, msgs, users, reg, nil, testLogger())

	// audio plus at least one file passes the content check
	err := svc.SendMessage(context.Background(), nil, a.ID.Hex(), MessagePayload{
		RecipientID: b.ID.Hex(),
		Files:       []string{"clip.png"},
		Audio:       "voice.ogg",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, msgs.count())
}

func TestSendMessageNoConversation(t *testing.T) {
	a, b, _ := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	convs := newFakeConversationRepo()
	msgs := &fakeMessageRepo{}
	reg := ws.NewRegistry()
	svc := NewService(convs, msgs, users, reg, nil, testLogger())

	err := svc.SendMessage(context.Background(), nil, a.ID.Hex(), MessagePayload{
		RecipientID: b.ID.Hex(),
		Text:        "hi",
	})
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
	assert.Equal(t, 0, msgs.count())
}

func TestSendMessagePersistsAndFansOut(t *testing.T) {
	a, b, conv := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	convs := newFakeConversationRepo(conv)
	msgs := &fakeMessageRepo{}
	reg := ws.NewRegistry()

	origin := &recorder{}
	recipient1 := &recorder{}
	recipient2 := &recorder{}
	reg.Register("c1", a.ID.Hex(), ws.RoleRegular, origin)
	reg.Register("c2", b.ID.Hex(), ws.RoleRegular, recipient1)
	reg.Register("c3", b.ID.Hex(), ws.RoleRegular, recipient2)

	svc := NewService(convs, msgs, users, reg, nil, testLogger())
	err := svc.SendMessage(context.Background(), origin, a.ID.Hex(), MessagePayload{
		RecipientID: b.ID.Hex(),
		Text:        "hi",
	})
	require.NoError(t, err)

	require.Equal(t, 1, msgs.count())
	stored := msgs.messages[0]
	assert.Equal(t, a.ID, stored.SenderID)
	assert.Equal(t, b.ID, stored.RecipientID)
	assert.Equal(t, "hi", stored.Text)
	assert.False(t, stored.IsRead)
	assert.Equal(t, conv.ID, stored.ChatID)
	assert.Equal(t, "hi", conv.LastMessage)

	// echo to the originating connection plus one push per recipient conn
	require.Len(t, origin.all(), 1)
	assert.Len(t, recipient1.all(), 1)
	assert.Len(t, recipient2.all(), 1)
}

func TestSendMessageFilesSummary(t *testing.T) {
	a, b, conv := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	convs := newFakeConversationRepo(conv)
	msgs := &fakeMessageRepo{}
	svc := NewService(convs, msgs, users, ws.NewRegistry(), nil, testLogger())

	err := svc.SendMessage(context.Background(), nil, a.ID.Hex(), MessagePayload{
		RecipientID: b.ID.Hex(),
		Files:       []string{"one.png", "two.png", "three.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Files: 3", conv.LastMessage)
}

func TestReadMessagesMarksUnread(t *testing.T) {
	a, b, conv := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	convs := newFakeConversationRepo(conv)
	msgs := &fakeMessageRepo{}
	svc := NewService(convs, msgs, users, ws.NewRegistry(), nil, testLogger())

	for i := 0; i < 3; i++ {
		_, err := msgs.Insert(context.Background(), &models.Message{
			ChatID:      conv.ID,
			SenderID:    a.ID,
			RecipientID: b.ID,
			Text:        "msg",
		})
		require.NoError(t, err)
	}
	// one message in the other direction stays untouched
	_, err := msgs.Insert(context.Background(), &models.Message{
		ChatID:      conv.ID,
		SenderID:    b.ID,
		RecipientID: a.ID,
		Text:        "reply",
	})
	require.NoError(t, err)

	err = svc.ReadMessages(context.Background(), ReadPayload{ChatID: conv.ID.Hex(), UserID: b.ID.Hex()})
	require.NoError(t, err)

	// per-message flips run in the background with no completion signal
	require.Eventually(t, func() bool {
		return msgs.unreadCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestReadMessagesUnknownConversation(t *testing.T) {
	a, b, _ := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	svc := NewService(newFakeConversationRepo(), &fakeMessageRepo{}, users, ws.NewRegistry(), nil, testLogger())

	err := svc.ReadMessages(context.Background(), ReadPayload{
		ChatID: primitive.NewObjectID().Hex(),
		UserID: b.ID.Hex(),
	})
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestReadMessagesUnknownUser(t *testing.T) {
	a, b, conv := twoUserFixture(t)
	users := newFakeUserRepo(a, b)
	svc := NewService(newFakeConversationRepo(conv), &fakeMessageRepo{}, users, ws.NewRegistry(), nil, testLogger())

	err := svc.ReadMessages(context.Background(), ReadPayload{
		ChatID: conv.ID.Hex(),
		UserID: primitive.NewObjectID().Hex(),
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
