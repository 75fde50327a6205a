package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/extract"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, userId, conversationId uuid.UUID, filename, contentType string, body []byte) (*dto.UploadDocumentResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
	}
}

func (s *documentService) Upload(ctx context.Context, userId, conversationId uuid.UUID, filename, contentType string, body []byte) (*dto.UploadDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrNotFound
	}

	content, err := extract.FromUpload(contentType, body)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedContentType) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, contentType)
		}
		return nil, err
	}

	document := entity.Document{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Filename:       filename,
		Content:        content,
		CreatedAt:      time.Now(),
	}

	if err := uow.DocumentRepository().Upsert(ctx, &document); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		Id:             document.Id,
		ConversationId: conversationId,
		Filename:       filename,
		ContentLength:  len(content),
	}, nil
}
