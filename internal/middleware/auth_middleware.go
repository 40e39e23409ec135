package middleware

import (
	"strings"

	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and puts the seller identity in the
// request context for the ownership checks downstream.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is inactive"})
		}

		c.Locals("seller_id", claims.UserID.String())
		c.Locals("seller_email", claims.Email)
		c.Locals("store_name", claims.StoreName)

		return c.Next()
	}
}

// LocalMode replaces RequireAuth when the engine runs against the local
// snapshot backend: single tenant, no accounts, empty seller id so every
// ownership check passes.
func LocalMode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("seller_id", "")
		return c.Next()
	}
}
