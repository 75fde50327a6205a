package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/pkg/ai/prompt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(user *entity.User, subscribed bool) (IChatService, *fakeUow, *fakeBillingService) {
	uow := &fakeUow{
		users:         &fakeUserRepo{user: user},
		conversations: &fakeConversationRepo{},
		messages:      &fakeMessageRepo{},
		documents:     &fakeDocumentRepo{},
	}
	billing := &fakeBillingService{subscribed: subscribed}
	svc := NewChatService(
		&fakeUowFactory{uow: uow},
		billing,
		&fakePublisher{},
		nil,
		config.BillingConfig{FreeTierLimit: 20},
		nopLogger{},
	)
	return svc, uow, billing
}

func chatRequest() *dto.ChatRequest {
	return &dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "hello"}},
	}
}

func TestChatPrepareQuota(t *testing.T) {
	userId := uuid.New()

	t.Run("free user under the limit is charged one message", func(t *testing.T) {
		svc, uow, _ := newChatFixture(&entity.User{Id: userId, MessageCount: 5}, false)

		turn, err := svc.Prepare(context.Background(), userId, chatRequest())
		require.NoError(t, err)
		assert.NotNil(t, turn)
		assert.Equal(t, 1, uow.users.increments)
	})

	t.Run("free user at the limit is rejected before any charge", func(t *testing.T) {
		svc, uow, _ := newChatFixture(&entity.User{Id: userId, MessageCount: 20}, false)

		_, err := svc.Prepare(context.Background(), userId, chatRequest())
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, 0, uow.users.increments)
	})

	t.Run("subscriber is never charged against the counter", func(t *testing.T) {
		svc, uow, _ := newChatFixture(&entity.User{Id: userId, MessageCount: 500}, true)

		_, err := svc.Prepare(context.Background(), userId, chatRequest())
		require.NoError(t, err)
		assert.Equal(t, 0, uow.users.increments)
	})

	t.Run("persona agent requires an active subscription", func(t *testing.T) {
		svc, uow, _ := newChatFixture(&entity.User{Id: userId, MessageCount: 0}, false)

		req := chatRequest()
		req.Agent = string(prompt.AgentPersona)

		_, err := svc.Prepare(context.Background(), userId, req)
		assert.ErrorIs(t, err, ErrSubscriptionRequired)
		// The entitlement check runs before the quota charge.
		assert.Equal(t, 0, uow.users.increments)
	})

	t.Run("persona agent works for a subscriber", func(t *testing.T) {
		svc, _, _ := newChatFixture(&entity.User{Id: userId}, true)

		req := chatRequest()
		req.Agent = string(prompt.AgentPersona)
		req.Persona = "You are a pirate."

		turn, err := svc.Prepare(context.Background(), userId, req)
		require.NoError(t, err)
		assert.Equal(t, "You are a pirate.", turn.systemPrompt)
	})
}

func TestChatPrepareConversation(t *testing.T) {
	userId := uuid.New()
	conversationId := uuid.New()

	t.Run("unknown conversation is not found", func(t *testing.T) {
		svc, _, _ := newChatFixture(&entity.User{Id: userId}, true)

		req := chatRequest()
		req.ConversationId = &conversationId

		_, err := svc.Prepare(context.Background(), userId, req)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("document agent folds the uploaded document into the prompt", func(t *testing.T) {
		svc, uow, _ := newChatFixture(&entity.User{Id: userId}, true)
		uow.conversations.conversation = &entity.Conversation{Id: conversationId, UserId: userId, Name: "Quarterly report"}
		uow.documents.document = &entity.Document{ConversationId: conversationId, Content: "Revenue grew 12% in Q3."}

		req := chatRequest()
		req.ConversationId = &conversationId
		req.Agent = string(prompt.AgentDocument)

		turn, err := svc.Prepare(context.Background(), userId, req)
		require.NoError(t, err)
		assert.Contains(t, turn.systemPrompt, "Revenue grew 12% in Q3.")
	})

	t.Run("history carries the client messages in order", func(t *testing.T) {
		svc, _, _ := newChatFixture(&entity.User{Id: userId}, true)

		req := &dto.ChatRequest{
			Messages: []dto.ChatMessage{
				{Role: "user", Content: "first"},
				{Role: "assistant", Content: "second"},
				{Role: "user", Content: "third"},
			},
		}

		turn, err := svc.Prepare(context.Background(), userId, req)
		require.NoError(t, err)
		require.Len(t, turn.history, 3)
		assert.Equal(t, "first", turn.history[0].Content)
		assert.Equal(t, "assistant", turn.history[1].Role)
		assert.Equal(t, "third", turn.history[2].Content)
	})
}
