package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Code      string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}
