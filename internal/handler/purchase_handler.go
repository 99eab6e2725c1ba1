package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var req service.CreatePurchaseRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	purchase, err := h.service.CreatePurchase(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase created", "data": purchase})
}

// GetPurchases lists purchases
// Query params: status, supplier_id
func (h *PurchaseHandler) GetPurchases(c *fiber.Ctx) error {
	supplierID, err := queryID(c, "supplier_id")
	if err != nil {
		return respondError(c, err)
	}

	purchases, err := h.service.GetAllPurchases(repository.PurchaseFilter{
		Status:     model.PurchaseStatus(c.Query("status")),
		SupplierID: supplierID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchases)
}

func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	purchase, err := h.service.GetPurchase(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchase)
}

// UpdateStatus receives or cancels a pending purchase
// PUT /api/purchases/:id/status
func (h *PurchaseHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.UpdatePurchaseStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	purchase, err := h.service.UpdatePurchaseStatus(id, &req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase " + string(purchase.Status), "data": purchase})
}
