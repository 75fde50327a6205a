package controller

import (
	"bufio"
	"context"
	"fmt"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/ai/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// The gate runs before the response commits to streaming so quota
	// and entitlement failures still come back as JSON statuses.
	turn, err := c.chatService.Prepare(ctx.Context(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	// The writer callback runs after this handler returns, so it must
	// not touch the fiber context.
	chatService := c.chatService
	log := c.logger
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sink := stream.NewWriterSink(w, func() { _ = w.Flush() }, func(err error) {
			// A truncated body plus this marker is how the client
			// distinguishes failure from completion mid-stream.
			fmt.Fprintf(w, "\n[stream error: %v]", err)
			_ = w.Flush()
		})

		if err := chatService.Stream(context.Background(), turn, sink); err != nil {
			log.Error("chat", "chat stream ended with error", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		}
	}))

	return nil
}
