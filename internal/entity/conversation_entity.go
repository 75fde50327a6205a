package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultConversationName = "New Conversation"

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
