package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document holds the extracted text of the single file attached to a
// conversation. At most one document exists per conversation; a
// re-upload replaces the content.
type Document struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Filename       string
	Content        string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
