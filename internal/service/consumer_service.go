package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService generates conversation titles asynchronously after the
// first completed exchange.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishGenerateTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal title message: %v", err)
		msg.Ack() // invalid payloads are not retriable
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: payload.ConversationId})
	if err != nil {
		log.Printf("[ERROR] Failed to get conversation %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}
	if conversation == nil {
		msg.Ack() // conversation deleted meanwhile
		return
	}

	// The owner's rename always wins over the generated title.
	if conversation.Name != entity.DefaultConversationName {
		msg.Ack()
		return
	}

	msgs, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationId{ConversationId: conversation.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: 4, Offset: 0},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to load messages for %s: %v", conversation.Id, err)
		msg.Nack()
		return
	}
	if len(msgs) == 0 {
		msg.Ack()
		return
	}

	var transcript strings.Builder
	for _, m := range msgs {
		transcript.WriteString(string(m.Role))
		transcript.WriteString(": ")
		transcript.WriteString(m.Content)
		transcript.WriteString("\n")
	}

	title, err := cs.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You generate conversation titles. Reply with a title of at most 6 words for the conversation below. Reply with the title only, no quotes, no punctuation at the end."},
		{Role: "user", Content: transcript.String()},
	}, llm.WithTemperature(0.3), llm.WithMaxTokens(24))
	if err != nil {
		log.Printf("[ERROR] Title generation failed for %s: %v", conversation.Id, err)
		msg.Nack()
		return
	}

	title = sanitizeTitle(title)
	if title == "" {
		msg.Ack()
		return
	}

	// Re-check: the owner may have renamed while the model was busy.
	current, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversation.Id})
	if err != nil || current == nil || current.Name != entity.DefaultConversationName {
		msg.Ack()
		return
	}

	current.Name = title
	now := time.Now()
	current.UpdatedAt = &now
	if err := uow.ConversationRepository().Update(ctx, current); err != nil {
		log.Printf("[ERROR] Failed to save title for %s: %v", conversation.Id, err)
		msg.Nack()
		return
	}

	msg.Ack()
}

func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSuffix(title, ".")

	words := strings.Fields(title)
	if len(words) > 6 {
		words = words[:6]
	}
	title = strings.Join(words, " ")

	if len(title) > 120 {
		title = title[:120]
	}
	return title
}
