package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/ai/orchestrator"
	"ai-chat-be/pkg/ai/prompt"
	"ai-chat-be/pkg/ai/stream"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// ChatTurn is a gated, prompt-resolved request ready to stream. It is
// produced by Prepare so the HTTP layer can reject (401/403/404) before
// the response switches to chunked streaming.
type ChatTurn struct {
	userId       uuid.UUID
	conversation *entity.Conversation
	systemPrompt string
	history      []llm.Message
}

type IChatService interface {
	// Prepare runs the access gate and resolves the system prompt.
	Prepare(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*ChatTurn, error)

	// Stream executes the prepared turn against the model, forwarding
	// deltas to the sink, then persists the assistant reply.
	Stream(ctx context.Context, turn *ChatTurn, sink stream.Sink) error
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	billingService   IBillingService
	publisherService IPublisherService
	orchestrator     *orchestrator.Orchestrator
	billingCfg       config.BillingConfig
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	billingService IBillingService,
	publisherService IPublisherService,
	orch *orchestrator.Orchestrator,
	billingCfg config.BillingConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		billingService:   billingService,
		publisherService: publisherService,
		orchestrator:     orch,
		billingCfg:       billingCfg,
		logger:           log,
	}
}

func (s *chatService) Prepare(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*ChatTurn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	subscribed, err := s.billingService.IsSubscribed(ctx, userId)
	if err != nil {
		return nil, err
	}

	agent := prompt.Agent(req.Agent)

	// Gate order matters: entitlement first, then quota, then the
	// counter bump. The counter is charged before the model call so a
	// dropped stream still consumes a message.
	if agent == prompt.AgentPersona && !subscribed {
		return nil, ErrSubscriptionRequired
	}
	if !subscribed {
		if user.MessageCount >= s.billingCfg.FreeTierLimit {
			return nil, ErrQuotaExceeded
		}
		if err := uow.UserRepository().IncrementMessageCount(ctx, userId); err != nil {
			return nil, err
		}
	}

	var conversation *entity.Conversation
	documentContent := ""
	if req.ConversationId != nil {
		conversation, err = uow.ConversationRepository().FindOne(ctx,
			specification.ByID{ID: *req.ConversationId},
			specification.ByUserId{UserId: userId},
		)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, ErrNotFound
		}

		if agent == prompt.AgentDocument {
			document, err := uow.DocumentRepository().FindOne(ctx,
				specification.ByConversationId{ConversationId: conversation.Id},
			)
			if err != nil {
				return nil, err
			}
			if document != nil {
				documentContent = document.Content
			}
		}
	}

	systemPrompt := prompt.SelectSystemPrompt(prompt.Input{
		Agent:           agent,
		DocumentContent: documentContent,
		Language:        req.Language,
		Persona:         req.Persona,
	})

	history := make([]llm.Message, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	return &ChatTurn{
		userId:       userId,
		conversation: conversation,
		systemPrompt: systemPrompt,
		history:      history,
	}, nil
}

func (s *chatService) Stream(ctx context.Context, turn *ChatTurn, sink stream.Sink) error {
	result, err := s.orchestrator.Run(ctx, turn.systemPrompt, turn.history, sink)
	if err != nil {
		s.logger.Error("chat", "streaming turn failed", map[string]interface{}{
			"user_id": turn.userId,
			"error":   err.Error(),
		})
		return err
	}

	if turn.conversation != nil {
		s.persistAssistantTurn(ctx, turn.conversation, result)
	}

	return nil
}

// persistAssistantTurn stores the streamed reply and, on the first
// completed exchange, queues asynchronous title generation. Failures are
// logged but never surfaced: the user already has the full response.
func (s *chatService) persistAssistantTurn(ctx context.Context, conversation *entity.Conversation, result *orchestrator.Result) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	toolCalls := make([]entity.ToolInvocation, 0, len(result.ToolCalls))
	for _, tc := range result.ToolCalls {
		toolCalls = append(toolCalls, entity.ToolInvocation{
			Id:        tc.Id,
			Name:      tc.Name,
			Arguments: tc.Arguments,
		})
	}

	message := entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        result.Content,
		ToolCalls:      toolCalls,
		CreatedAt:      time.Now(),
	}

	if err := uow.MessageRepository().Create(ctx, &message); err != nil {
		s.logger.Error("chat", "failed to persist assistant message", map[string]interface{}{
			"conversation_id": conversation.Id,
			"error":           err.Error(),
		})
		return
	}

	if err := uow.ConversationRepository().Touch(ctx, conversation.Id); err != nil {
		s.logger.Warn("chat", "failed to bump conversation", map[string]interface{}{
			"conversation_id": conversation.Id,
			"error":           err.Error(),
		})
	}

	if conversation.Name == entity.DefaultConversationName {
		payload, err := json.Marshal(dto.PublishGenerateTitleMessage{ConversationId: conversation.Id})
		if err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				fmt.Printf("[WARN] Failed to queue title generation: %v\n", err)
			}
		}
	}
}
