package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetProducts lists products
// Query params: search, category_id, active, low_stock
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return respondError(c, err)
	}

	products, err := h.service.GetAllProducts(repository.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		ActiveOnly: c.QueryBool("active"),
		LowStock:   c.QueryBool("low_stock"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// GetProductLabel returns the data a client needs to print a shelf label
func (h *CatalogHandler) GetProductLabel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	label, err := h.service.GetProductLabel(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(label)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.service.CreateProduct(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.service.UpdateProduct(id, &req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteProduct(id, middleware.Identity(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	category, err := h.service.GetCategory(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	category, err := h.service.CreateCategory(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	category, err := h.service.UpdateCategory(id, &req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteCategory(id, middleware.Identity(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
