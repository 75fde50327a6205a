package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ToolInvocation records one tool call the model made while
// producing an assistant turn.
type ToolInvocation struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is immutable once created; ordering is by CreatedAt.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	ToolCalls      []ToolInvocation
	CreatedAt      time.Time
}
