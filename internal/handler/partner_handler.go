package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PartnerHandler struct {
	service service.PartnerService
}

func NewPartnerHandler(s service.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: s}
}

func (h *PartnerHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers(c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *PartnerHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	supplier, err := h.service.GetSupplier(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

func (h *PartnerHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	supplier, err := h.service.CreateSupplier(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *PartnerHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	supplier, err := h.service.UpdateSupplier(id, &req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

func (h *PartnerHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteSupplier(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}

func (h *PartnerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.GetAllCustomers(c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

func (h *PartnerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	customer, err := h.service.GetCustomer(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

func (h *PartnerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	customer, err := h.service.CreateCustomer(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *PartnerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	customer, err := h.service.UpdateCustomer(id, &req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *PartnerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteCustomer(id, middleware.Identity(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
