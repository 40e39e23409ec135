package handler

import (
	"errors"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
	"go-storefront-ws/internal/store"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	return c.JSON(h.service.GetOrders())
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(&req)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

// AdvanceStatus moves the order to the requested next status. Illegal jumps
// are rejected with 409.
func (h *OrderHandler) AdvanceStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var body struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.AdvanceStatus(id, body.Status, getSellerID(c))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		case errors.Is(err, service.ErrForbidden):
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
		case errors.Is(err, service.ErrInvalidTransition):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Order status updated", "data": order})
}

// CancelOrder returns the soft result as-is; its message is rendered
// verbatim by the caller.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result := h.service.CancelOrder(id, getSellerID(c), body.Reason)
	return c.JSON(result)
}
