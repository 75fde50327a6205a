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

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationListItem, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowConversationResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameConversationRequest) error
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
	}
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	name := req.Name
	if name == "" {
		name = entity.DefaultConversationName
	}

	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	return &dto.CreateConversationResponse{
		Id:   conversation.Id,
		Name: conversation.Name,
	}, nil
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ConversationListItem, len(conversations))
	for i, c := range conversations {
		items[i] = &dto.ConversationListItem{
			Id:        c.Id,
			Name:      c.Name,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return items, nil
}

func (s *conversationService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrNotFound
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationId{ConversationId: id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageDTOs := make([]dto.MessageDTO, len(messages))
	for i, m := range messages {
		messageDTOs[i] = messageToDTO(m)
	}

	return &dto.ShowConversationResponse{
		Id:        conversation.Id,
		Name:      conversation.Name,
		Messages:  messageDTOs,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}, nil
}

func (s *conversationService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameConversationRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrNotFound
	}

	conversation.Name = req.Name
	now := time.Now()
	conversation.UpdatedAt = &now

	return uow.ConversationRepository().Update(ctx, conversation)
}

func (s *conversationService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().DeleteByConversationId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func messageToDTO(m *entity.Message) dto.MessageDTO {
	out := dto.MessageDTO{
		Id:        m.Id,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, dto.ToolInvocation{
			Id:        tc.Id,
			Name:      tc.Name,
			Arguments: tc.Arguments,
		})
	}
	return out
}
