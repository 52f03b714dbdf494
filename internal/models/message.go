package models

import (
	"time"
)

// MessageType represents the kind of content a message carries
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Conversation is the thread between the demo patient and one midwife.
type Conversation struct {
	ID            string    `json:"id"`
	MidwifeID     string    `json:"midwifeId"`
	MidwifeName   string    `json:"midwifeName"`
	MidwifeAvatar string    `json:"midwifeAvatar,omitempty"`
	LastMessage   *Message  `json:"lastMessage,omitempty"`
	UnreadCount   int       `json:"unreadCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Message belongs to exactly one conversation.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversationId"`
	SenderID       string       `json:"senderId"`
	SenderName     string       `json:"senderName"`
	SenderAvatar   string       `json:"senderAvatar,omitempty"`
	Content        string       `json:"content"`
	Timestamp      time.Time    `json:"timestamp"`
	Type           MessageType  `json:"type"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	IsRead         bool         `json:"isRead"`
}

// Attachment describes a file sent along with a message.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}
