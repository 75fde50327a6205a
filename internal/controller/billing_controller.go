package controller

import (
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	CreateCheckoutSession(ctx *fiber.Ctx) error
	CreatePortalSession(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type billingController struct {
	billingService service.IBillingService
}

func NewBillingController(billingService service.IBillingService) IBillingController {
	return &billingController{
		billingService: billingService,
	}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing/v1")
	// Stripe signs the webhook itself, so it stays outside the JWT gate.
	h.Post("webhook", c.Webhook)

	p := h.Group("")
	p.Use(serverutils.JwtMiddleware)
	p.Post("checkout-session", c.CreateCheckoutSession)
	p.Post("portal-session", c.CreatePortalSession)
}

func (c *billingController) CreateCheckoutSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.billingService.CreateCheckoutSession(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Checkout session created", res))
}

func (c *billingController) CreatePortalSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.billingService.CreatePortalSession(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Portal session created", res))
}

func (c *billingController) Webhook(ctx *fiber.Ctx) error {
	payload := ctx.Body()
	signature := ctx.Get("Stripe-Signature")

	if err := c.billingService.HandleWebhook(ctx.Context(), payload, signature); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Webhook processed", nil))
}
