package handlers

import (
	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/middleware"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/utils"
)

// MessageHandler handles conversation and messaging requests.
type MessageHandler struct {
	Conversations *services.ConversationService
	Logger        *logging.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(conversations *services.ConversationService, logger *logging.Logger) *MessageHandler {
	return &MessageHandler{Conversations: conversations, Logger: logger}
}

// StartConversationRequest represents the request body for opening a conversation.
type StartConversationRequest struct {
	MidwifeID     string `json:"midwifeId" binding:"required"`
	MidwifeName   string `json:"midwifeName"`
	MidwifeAvatar string `json:"midwifeAvatar"`
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	SenderID     string              `json:"senderId"`
	SenderName   string              `json:"senderName"`
	SenderAvatar string              `json:"senderAvatar"`
	Content      string              `json:"content"`
	Type         models.MessageType  `json:"type" binding:"omitempty,oneof=text image file"`
	Attachments  []models.Attachment `json:"attachments"`
}

// GetConversations lists all conversations.
func (h *MessageHandler) GetConversations(c *gin.Context) {
	utils.Success(c, "Conversations retrieved successfully", h.Conversations.GetConversations(c.Request.Context()))
}

// StartConversation returns the conversation with a midwife, creating it when missing.
// Names of the demo midwives are filled in when the request leaves them out.
func (h *MessageHandler) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.MidwifeName == "" {
		if m, ok := services.FindDemoMidwife(req.MidwifeID); ok {
			req.MidwifeName = m.Name
			if req.MidwifeAvatar == "" {
				req.MidwifeAvatar = m.Avatar
			}
		}
	}

	conversation, created, err := h.Conversations.GetOrCreateConversation(c.Request.Context(), req.MidwifeID, req.MidwifeName, req.MidwifeAvatar)
	if err != nil {
		respondError(c, h.Logger, "start conversation", err)
		return
	}
	if created {
		utils.Created(c, "Conversation created successfully", conversation)
		return
	}
	utils.Success(c, "Conversation retrieved successfully", conversation)
}

// GetUnreadCount returns the unread total across all conversations.
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	utils.Success(c, "Unread count retrieved successfully", gin.H{"unread": h.Conversations.GetUnreadTotal(c.Request.Context())})
}

// GetMessages lists the messages of one conversation.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Conversations.GetConversation(c.Request.Context(), id); !ok {
		utils.NotFound(c, "Conversation not found")
		return
	}
	utils.Success(c, "Messages retrieved successfully", h.Conversations.GetMessages(c.Request.Context(), id))
}

// SendMessage appends a message to a conversation. The sender defaults to
// the authenticated user.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.SenderID == "" {
		if userID, ok := middleware.GetUserIDFromContext(c); ok {
			req.SenderID = userID
		}
	}

	message, err := h.Conversations.AddMessage(c.Request.Context(), models.Message{
		ConversationID: c.Param("id"),
		SenderID:       req.SenderID,
		SenderName:     req.SenderName,
		SenderAvatar:   req.SenderAvatar,
		Content:        req.Content,
		Type:           req.Type,
		Attachments:    req.Attachments,
	})
	if err != nil {
		respondError(c, h.Logger, "send message", err)
		return
	}
	utils.Created(c, "Message sent successfully", message)
}

// MarkConversationAsRead zeroes the unread counter of a conversation.
func (h *MessageHandler) MarkConversationAsRead(c *gin.Context) {
	found, err := h.Conversations.MarkMessagesAsRead(c.Request.Context(), c.Param("id"))
	if !found {
		utils.NotFound(c, "Conversation not found")
		return
	}
	if err != nil {
		respondError(c, h.Logger, "mark conversation read", err)
		return
	}
	utils.Success(c, "Conversation marked as read", nil)
}
