package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetForecast returns the demand forecast per product, most at risk first
// Query params: lookback_days, forecast_days, analysis_method, category_id
func (h *InventoryHandler) GetForecast(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return respondError(c, err)
	}

	rows, err := h.service.GetForecast(c.UserContext(), &service.ForecastQuery{
		LookbackDays: c.QueryInt("lookback_days", 0),
		ForecastDays: c.QueryInt("forecast_days", 0),
		Method:       c.Query("analysis_method"),
		CategoryID:   categoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": rows, "count": len(rows)})
}

// GetMovements returns the stock ledger
// Query params: product_id, reason, limit
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	productID, err := queryID(c, "product_id")
	if err != nil {
		return respondError(c, err)
	}

	movements, err := h.service.GetMovements(repository.MovementFilter{
		ProductID: productID,
		Reason:    model.MovementReason(c.Query("reason")),
		Limit:     c.QueryInt("limit", 100),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.StockAdjustmentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	movement, err := h.service.AdjustStock(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": movement})
}
