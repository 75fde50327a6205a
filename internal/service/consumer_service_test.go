package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleMessage(t *testing.T, conversationId uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishGenerateTitleMessage{ConversationId: conversationId})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func newConsumerFixture(conversation *entity.Conversation, llmReply string) (*consumerService, *fakeUow, *fakeLLM) {
	uow := &fakeUow{
		users:         &fakeUserRepo{},
		conversations: &fakeConversationRepo{conversation: conversation},
		messages:      &fakeMessageRepo{},
		documents:     &fakeDocumentRepo{},
	}
	provider := &fakeLLM{reply: llmReply}
	cs := &consumerService{
		topicName:   "GENERATE_CONVERSATION_TITLE",
		uowFactory:  &fakeUowFactory{uow: uow},
		llmProvider: provider,
	}
	return cs, uow, provider
}

func TestConsumerGeneratesTitle(t *testing.T) {
	conversationId := uuid.New()
	conversation := &entity.Conversation{Id: conversationId, Name: entity.DefaultConversationName}

	cs, uow, provider := newConsumerFixture(conversation, "Planning A Summer Trip")
	uow.messages.messages = []*entity.Message{
		{Role: entity.MessageRoleUser, Content: "help me plan a trip"},
		{Role: entity.MessageRoleAssistant, Content: "Sure, where to?"},
	}

	msg := titleMessage(t, conversationId)
	cs.processMessage(context.Background(), msg)

	assert.Equal(t, 1, provider.calls)
	require.NotNil(t, uow.conversations.updated)
	assert.Equal(t, "Planning A Summer Trip", uow.conversations.updated.Name)
}

func TestConsumerSkipsRenamedConversation(t *testing.T) {
	conversationId := uuid.New()
	conversation := &entity.Conversation{Id: conversationId, Name: "My own title"}

	cs, uow, provider := newConsumerFixture(conversation, "Should Not Be Used")
	msg := titleMessage(t, conversationId)
	cs.processMessage(context.Background(), msg)

	// A manual rename wins; the model is never consulted.
	assert.Equal(t, 0, provider.calls)
	assert.Nil(t, uow.conversations.updated)
}

func TestConsumerSkipsDeletedConversation(t *testing.T) {
	cs, uow, provider := newConsumerFixture(nil, "Should Not Be Used")

	msg := titleMessage(t, uuid.New())
	cs.processMessage(context.Background(), msg)

	assert.Equal(t, 0, provider.calls)
	assert.Nil(t, uow.conversations.updated)
}

func TestConsumerAcksInvalidPayload(t *testing.T) {
	cs, _, provider := newConsumerFixture(nil, "")

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	cs.processMessage(context.Background(), msg)

	assert.Equal(t, 0, provider.calls)
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Trip Planning", "Trip Planning"},
		{"quoted", `"Trip Planning"`, "Trip Planning"},
		{"trailing period", "Trip Planning.", "Trip Planning"},
		{"too many words", "one two three four five six seven eight", "one two three four five six"},
		{"whitespace", "  Trip Planning  ", "Trip Planning"},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeTitle(tc.in))
		})
	}
}
