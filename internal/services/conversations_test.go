package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/models"
)

func TestGetOrCreateConversationIsIdempotent(t *testing.T) {
	h := newHarness(t)
	svc := NewConversationService(h.deps)
	ctx := context.Background()
	before := len(svc.GetConversations(ctx))

	first, created, err := svc.GetOrCreateConversation(ctx, "midwife-3", "Katarzyna Wiśniewska", "")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.GetOrCreateConversation(ctx, "midwife-3", "Katarzyna Wiśniewska", "")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, svc.GetConversations(ctx), before+1)
}

func TestGetOrCreateFindsSeededConversation(t *testing.T) {
	svc := NewConversationService(newHarness(t).deps)
	conv, created, err := svc.GetOrCreateConversation(context.Background(), "midwife-1", "Anna Kowalska", "")

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "conversation-seed-1", conv.ID)
}

func TestAddMessageUnreadCounting(t *testing.T) {
	h := newHarness(t)
	svc := NewConversationService(h.deps)
	ctx := context.Background()
	conv, _, err := svc.GetOrCreateConversation(ctx, "midwife-3", "Katarzyna Wiśniewska", "")
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, models.Message{
		ConversationID: conv.ID, SenderID: models.DemoPatientID, SenderName: "Joanna", Content: "Hello",
	})
	require.NoError(t, err)
	c, _ := svc.GetConversation(ctx, conv.ID)
	assert.Equal(t, 0, c.UnreadCount)

	reply, err := svc.AddMessage(ctx, models.Message{
		ConversationID: conv.ID, SenderID: "midwife-3", SenderName: "Katarzyna", Content: "Hi Joanna",
	})
	require.NoError(t, err)
	assert.False(t, reply.IsRead)
	assert.Equal(t, models.MessageTypeText, reply.Type)

	c, _ = svc.GetConversation(ctx, conv.ID)
	assert.Equal(t, 1, c.UnreadCount)
	require.NotNil(t, c.LastMessage)
	assert.Equal(t, reply.ID, c.LastMessage.ID)
	assert.True(t, c.UpdatedAt.Equal(testNow))

	msgs := svc.GetMessages(ctx, conv.ID)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, "Hi Joanna", msgs[1].Content)
}

func TestMarkMessagesAsReadOnlyTouchesOneConversation(t *testing.T) {
	h := newHarness(t)
	svc := NewConversationService(h.deps)
	ctx := context.Background()
	require.Equal(t, 2, svc.GetUnreadTotal(ctx))

	found, err := svc.MarkMessagesAsRead(ctx, "conversation-seed-1")
	require.NoError(t, err)
	assert.True(t, found)

	c1, _ := svc.GetConversation(ctx, "conversation-seed-1")
	c2, _ := svc.GetConversation(ctx, "conversation-seed-2")
	assert.Equal(t, 0, c1.UnreadCount)
	assert.Equal(t, 1, c2.UnreadCount)
	assert.Equal(t, 1, svc.GetUnreadTotal(ctx))

	// message level flags are left alone
	msgs := svc.GetMessages(ctx, "conversation-seed-1")
	assert.False(t, msgs[1].IsRead)
}

func TestMarkUnknownConversationIsNoop(t *testing.T) {
	svc := NewConversationService(newHarness(t).deps)
	found, err := svc.MarkMessagesAsRead(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddMessageRejectsBadInput(t *testing.T) {
	svc := NewConversationService(newHarness(t).deps)
	ctx := context.Background()

	_, err := svc.AddMessage(ctx, models.Message{ConversationID: "conversation-seed-1", SenderID: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))

	_, err = svc.AddMessage(ctx, models.Message{ConversationID: "conversation-seed-1", Content: "x", Type: "video"})
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))

	_, err = svc.AddMessage(ctx, models.Message{ConversationID: "missing", Content: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))
}

func TestAddMessageNotifiesBothCollections(t *testing.T) {
	h := newHarness(t)
	svc := NewConversationService(h.deps)
	ctx := context.Background()
	svc.GetConversations(ctx)
	svc.GetMessages(ctx, "conversation-seed-1")
	got := h.count(models.CollectionMessages, models.CollectionConversations)

	_, err := svc.AddMessage(ctx, models.Message{ConversationID: "conversation-seed-2", SenderID: models.DemoPatientID, Content: "Thanks!"})

	require.NoError(t, err)
	assert.Equal(t, 1, got[models.CollectionMessages])
	assert.Equal(t, 1, got[models.CollectionConversations])
}

func TestAddMessageRollsBackWhenConversationNotSaved(t *testing.T) {
	h := newHarness(t)
	svc := NewConversationService(h.deps)
	ctx := context.Background()
	before := svc.GetMessages(ctx, "conversation-seed-1")
	conv, ok := svc.GetConversation(ctx, "conversation-seed-1")
	require.True(t, ok)

	h.backend.failKeys = map[string]bool{models.CollectionConversations: true}
	_, err := svc.AddMessage(ctx, models.Message{
		ConversationID: "conversation-seed-1", SenderID: "midwife-1", SenderName: "Anna Kowalska", Content: "See you Thursday",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeStorage))
	assert.Len(t, svc.GetMessages(ctx, "conversation-seed-1"), len(before))
	after, ok := svc.GetConversation(ctx, "conversation-seed-1")
	require.True(t, ok)
	assert.Equal(t, conv.UnreadCount, after.UnreadCount)
	assert.Equal(t, conv.LastMessage.ID, after.LastMessage.ID)
}
