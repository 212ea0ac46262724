package model

import (
	"time"
)

// MessageRole is the author of a chat turn.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatSession groups the turns of one conversation thread for a user.
type ChatSession struct {
	UUIDBase
	UserID   uint          `gorm:"index;not null" json:"userId"`
	Title    string        `gorm:"size:100" json:"title"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage is one immutable turn. Intent is recorded on the user turn
// that produced it so the classification is auditable alongside the text.
type ChatMessage struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string      `gorm:"index:idx_session_created;type:varchar(36);not null" json:"sessionId"`
	Role      MessageRole `gorm:"type:enum('user','assistant');not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Intent    Intent      `gorm:"size:40" json:"intent,omitempty"`
	CreatedAt time.Time   `gorm:"index:idx_session_created" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
