package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/storage"
)

// ConversationService manages conversations and the messages they own.
// Both collections share one lock because adding a message rewrites its
// conversation as well.
type ConversationService struct {
	d  Deps
	mu sync.Mutex
}

func NewConversationService(d Deps) *ConversationService {
	return &ConversationService{d: d.normalize("conversations")}
}

func (s *ConversationService) loadConversations(ctx context.Context) []models.Conversation {
	if list, ok := storage.Read[[]models.Conversation](ctx, s.d.Store, models.CollectionConversations); ok {
		return list
	}
	list, _ := seedConversations(s.d.Now())
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionConversations, list); err != nil {
		s.d.Logger.Warn("seed conversations not persisted", "error", err)
	}
	return list
}

func (s *ConversationService) loadMessages(ctx context.Context) []models.Message {
	if list, ok := storage.Read[[]models.Message](ctx, s.d.Store, models.CollectionMessages); ok {
		return list
	}
	_, list := seedConversations(s.d.Now())
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionMessages, list); err != nil {
		s.d.Logger.Warn("seed messages not persisted", "error", err)
	}
	return list
}

// GetConversations returns all conversations in creation order.
func (s *ConversationService) GetConversations(ctx context.Context) []models.Conversation {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	return s.loadConversations(ctx)
}

// GetConversation looks a conversation up by id.
func (s *ConversationService) GetConversation(ctx context.Context, id string) (models.Conversation, bool) {
	for _, c := range s.GetConversations(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return models.Conversation{}, false
}

// GetOrCreateConversation returns the conversation with midwifeID, creating
// it only when none exists. created reports whether a new one was stored.
func (s *ConversationService) GetOrCreateConversation(ctx context.Context, midwifeID, name, avatar string) (conv models.Conversation, created bool, err error) {
	if strings.TrimSpace(midwifeID) == "" {
		return conv, false, apperrors.Validation("missing_midwife", "midwife is required")
	}

	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	list := s.loadConversations(ctx)
	for _, c := range list {
		if c.MidwifeID == midwifeID {
			return c, false, nil
		}
	}

	conv = models.Conversation{
		ID:            s.d.IDs.NewID(),
		MidwifeID:     midwifeID,
		MidwifeName:   name,
		MidwifeAvatar: avatar,
		UpdatedAt:     s.d.Now(),
	}
	list = append(list, conv)
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionConversations, list); err != nil {
		return conv, true, fmt.Errorf("services: create conversation: %w", err)
	}
	return conv, true, nil
}

// GetMessages returns the messages of one conversation in insertion order.
func (s *ConversationService) GetMessages(ctx context.Context, conversationID string) []models.Message {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	out := make([]models.Message, 0)
	for _, m := range s.loadMessages(ctx) {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

// AddMessage appends msg and updates its conversation's last message. The
// unread counter grows by one unless the demo patient sent it.
func (s *ConversationService) AddMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	if strings.TrimSpace(msg.Content) == "" && len(msg.Attachments) == 0 {
		return msg, apperrors.Validation("empty_message", "message needs content or an attachment")
	}
	switch msg.Type {
	case "":
		msg.Type = models.MessageTypeText
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeFile:
	default:
		return msg, apperrors.Validation("invalid_type", fmt.Sprintf("unknown message type %q", msg.Type))
	}

	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	conversations := s.loadConversations(ctx)
	idx := -1
	for i := range conversations {
		if conversations[i].ID == msg.ConversationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return msg, apperrors.NotFound("conversation_not_found", fmt.Sprintf("conversation %s not found", msg.ConversationID))
	}

	if msg.ID == "" {
		msg.ID = s.d.IDs.NewID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.d.Now()
	}
	fromPatient := msg.SenderID == models.DemoPatientID
	msg.IsRead = fromPatient
	for i := range msg.Attachments {
		if msg.Attachments[i].ID == "" {
			msg.Attachments[i].ID = s.d.IDs.NewID()
		}
	}

	previous := s.loadMessages(ctx)
	messages := make([]models.Message, 0, len(previous)+1)
	messages = append(append(messages, previous...), msg)
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionMessages, messages); err != nil {
		return msg, fmt.Errorf("services: add message: %w", err)
	}

	last := msg
	conversations[idx].LastMessage = &last
	conversations[idx].UpdatedAt = msg.Timestamp
	if !fromPatient {
		conversations[idx].UnreadCount++
	}
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionConversations, conversations); err != nil {
		// a message without its conversation update must not stay stored
		if rbErr := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionMessages, previous); rbErr != nil {
			s.d.Logger.Error("message rollback failed", "message_id", msg.ID, "error", rbErr)
		} else {
			s.d.Logger.Warn("message rolled back", "message_id", msg.ID, "conversation_id", msg.ConversationID)
		}
		return msg, fmt.Errorf("services: update conversation %s: %w", msg.ConversationID, err)
	}
	return msg, nil
}

// MarkMessagesAsRead zeroes the unread counter of one conversation. The
// per-message read flags are left as they are. Unknown ids report false.
func (s *ConversationService) MarkMessagesAsRead(ctx context.Context, conversationID string) (bool, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	list := s.loadConversations(ctx)
	for i := range list {
		if list[i].ID != conversationID {
			continue
		}
		list[i].UnreadCount = 0
		if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionConversations, list); err != nil {
			return true, fmt.Errorf("services: mark conversation %s read: %w", conversationID, err)
		}
		return true, nil
	}
	return false, nil
}

// GetUnreadTotal sums the unread counters of all conversations.
func (s *ConversationService) GetUnreadTotal(ctx context.Context) int {
	total := 0
	for _, c := range s.GetConversations(ctx) {
		total += c.UnreadCount
	}
	return total
}
