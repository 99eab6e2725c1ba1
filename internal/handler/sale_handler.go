package handler

import (
	"time"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	sale, err := h.service.CreateSale(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// GetSales lists sales, newest first
// Query params: from, to (YYYY-MM-DD), user_id, customer_id, limit, offset
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	var err error
	if filter.UserID, err = queryID(c, "user_id"); err != nil {
		return respondError(c, err)
	}
	if filter.CustomerID, err = queryID(c, "customer_id"); err != nil {
		return respondError(c, err)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return respondError(c, apperr.Validation("invalid from date, use YYYY-MM-DD"))
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return respondError(c, apperr.Validation("invalid to date, use YYYY-MM-DD"))
		}
		// inclusive of the whole day
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	sales, total, err := h.service.GetAllSales(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":   sales,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	sale, err := h.service.GetSale(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

func (h *SaleHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	receipt, err := h.service.GetReceipt(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipt)
}
