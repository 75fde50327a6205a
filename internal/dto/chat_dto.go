package dto

import "github.com/google/uuid"

// ChatMessage is one prior turn supplied by the client.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Messages       []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	ConversationId *uuid.UUID    `json:"conversation_id"`
	Agent          string        `json:"agent"`
	Language       string        `json:"language"`
	Persona        string        `json:"persona"`
}
