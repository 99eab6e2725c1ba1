package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req service.SettingsRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	settings, err := h.service.UpdateSettings(&req, middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings updated", "data": settings})
}
