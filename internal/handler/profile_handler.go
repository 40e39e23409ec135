package handler

import (
	"time"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/store"
	"go-storefront-ws/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	store *store.Store
}

func NewProfileHandler(st *store.Store) *ProfileHandler {
	return &ProfileHandler{store: st}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	profile := h.store.Profile()
	if profile == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Profile not created yet"})
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req model.Profile
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		first := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: Field '" + first.FailedField + "' failed on tag '" + first.Tag + "'",
		})
	}

	if existing := h.store.Profile(); existing != nil {
		req.ID = existing.ID
		req.CreatedAt = existing.CreatedAt
	} else {
		req.ID = uuid.New()
		req.CreatedAt = time.Now()
	}
	req.UpdatedAt = time.Now()

	if err := h.store.SetProfile(&req); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "data": req})
}
