package handler

import (
	"strconv"
	"time"

	"go-storefront-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.AnalyticsService
}

func NewDashboardHandler(s service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns status counts, net revenue (canceled orders excluded)
// and the separately reported refunded total.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.service.DashboardStats(time.Now()))
}

// GetRevenueSeries returns the day+hour bucketed revenue/sales chart data.
func (h *DashboardHandler) GetRevenueSeries(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.RevenueSeries()})
}

// GetTopSellers returns products ranked by ordered quantity.
// Query params: limit (default 5)
func (h *DashboardHandler) GetTopSellers(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}
	return c.JSON(fiber.Map{"data": h.service.TopSellers(limit)})
}

// GetCustomers returns unique buyers keyed by phone number.
func (h *DashboardHandler) GetCustomers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.UniqueCustomers()})
}
