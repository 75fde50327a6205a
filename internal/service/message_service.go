package service

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IMessageService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error)
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
	}
}

func (s *messageService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: req.ConversationId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrNotFound
	}

	message := entity.Message{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		Role:           entity.MessageRole(req.Role),
		Content:        req.Content,
		CreatedAt:      time.Now(),
	}

	if err := uow.MessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}

	if err := uow.ConversationRepository().Touch(ctx, req.ConversationId); err != nil {
		return nil, err
	}

	return &dto.CreateMessageResponse{Id: message.Id}, nil
}
