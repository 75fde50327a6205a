package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentFixture(conversation *entity.Conversation) (IDocumentService, *fakeUow) {
	uow := &fakeUow{
		users:         &fakeUserRepo{},
		conversations: &fakeConversationRepo{conversation: conversation},
		messages:      &fakeMessageRepo{},
		documents:     &fakeDocumentRepo{},
	}
	return NewDocumentService(&fakeUowFactory{uow: uow}), uow
}

func TestDocumentUpload(t *testing.T) {
	userId := uuid.New()
	conversationId := uuid.New()
	conversation := &entity.Conversation{Id: conversationId, UserId: userId}

	t.Run("text upload is extracted and stored", func(t *testing.T) {
		svc, uow := newDocumentFixture(conversation)

		res, err := svc.Upload(context.Background(), userId, conversationId, "notes.txt", "text/plain", []byte("line one\r\nline two"))
		require.NoError(t, err)

		assert.Equal(t, "notes.txt", res.Filename)
		require.NotNil(t, uow.documents.upserted)
		assert.Equal(t, "line one\nline two", uow.documents.upserted.Content)
		assert.Equal(t, conversationId, uow.documents.upserted.ConversationId)
	})

	t.Run("unknown conversation is not found", func(t *testing.T) {
		svc, _ := newDocumentFixture(nil)

		_, err := svc.Upload(context.Background(), userId, conversationId, "notes.txt", "text/plain", []byte("hi"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unsupported content type is rejected", func(t *testing.T) {
		svc, uow := newDocumentFixture(conversation)

		_, err := svc.Upload(context.Background(), userId, conversationId, "img.png", "image/png", []byte{0x89, 0x50})
		assert.ErrorIs(t, err, ErrUnsupportedDocument)
		assert.Nil(t, uow.documents.upserted)
	})
}
