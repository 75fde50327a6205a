package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Name string `json:"name"`
}

type CreateConversationResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ConversationListItem struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type MessageDTO struct {
	Id        uuid.UUID        `json:"id"`
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ToolInvocation `json:"tool_calls,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type ToolInvocation struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ShowConversationResponse struct {
	Id        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Messages  []MessageDTO `json:"messages"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at"`
}

type RenameConversationRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type CreateMessageRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Role           string    `json:"role" validate:"required,oneof=user assistant"`
	Content        string    `json:"content" validate:"required"`
}

type CreateMessageResponse struct {
	Id uuid.UUID `json:"id"`
}
