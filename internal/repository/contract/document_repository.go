package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Upsert replaces the conversation's document if one exists
	// (one document per conversation).
	Upsert(ctx context.Context, document *entity.Document) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
}
