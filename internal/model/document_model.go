package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"` // one document per conversation
	Filename       string    `gorm:"type:varchar(255);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
