package handler

import (
	"go-storefront-ws/internal/service"
	"go-storefront-ws/pkg/ai"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	service service.AssistantService
}

func NewChatHandler(s service.AssistantService) *ChatHandler {
	return &ChatHandler{service: s}
}

// Chat forwards the conversation to the assistant. The reply may carry a
// pending payment action (checkout data complete, awaiting confirmation) or
// the result of a cancellation the assistant executed.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var body struct {
		Messages []ai.Message `json:"messages"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if len(body.Messages) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "messages is required"})
	}

	return c.JSON(h.service.Chat(c.Context(), body.Messages))
}

// ConfirmPayment completes the simulated payment step and places the order.
func (h *ChatHandler) ConfirmPayment(c *fiber.Ctx) error {
	var body struct {
		Action *service.PaymentAction `json:"action"`
		Method string                 `json:"method"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if body.Action == nil || body.Method == "" {
		return c.Status(400).JSON(fiber.Map{"error": "action and method are required"})
	}

	order, err := h.service.ConfirmPayment(c.Context(), body.Action, body.Method)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Payment confirmed", "data": order})
}
