package handler

import (
	"errors"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
	"go-storefront-ws/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.InventoryService
}

func NewProductHandler(s service.InventoryService) *ProductHandler {
	return &ProductHandler{service: s}
}

// Helper untuk ambil seller id dari context (set by auth middleware)
func getSellerID(c *fiber.Ctx) string {
	sellerID := c.Locals("seller_id")
	if sellerID == nil {
		return ""
	}
	return sellerID.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	return c.JSON(h.service.GetProducts())
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product, getSellerID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(id, &product, getSellerID(c))
	if err != nil {
		return productErrorStatus(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id, getSellerID(c)); err != nil {
		return productErrorStatus(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func productErrorStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
