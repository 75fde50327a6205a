package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByUserId scopes rows to their owner. Every conversation-level query
// must carry this spec so users never see each other's data.
type ByUserId struct {
	UserId uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByConversationId filters messages/documents by parent conversation
type ByConversationId struct {
	ConversationId uuid.UUID
}

func (s ByConversationId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationId)
}
