package dto

import "github.com/google/uuid"

type UploadDocumentResponse struct {
	Id             uuid.UUID `json:"id"`
	ConversationId uuid.UUID `json:"conversation_id"`
	Filename       string    `json:"filename"`
	ContentLength  int       `json:"content_length"`
}
