package unitofwork

import (
	"context"

	"ai-chat-be/internal/repository"
	"ai-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	DocumentRepository() contract.DocumentRepository
	NotificationRepository() repository.NotificationRepository
}
