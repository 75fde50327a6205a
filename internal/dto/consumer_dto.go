package dto

import "github.com/google/uuid"

// PublishGenerateTitleMessage asks the consumer to title a conversation
// after its first completed exchange.
type PublishGenerateTitleMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
}
