package handler

import (
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}

// ChangePassword updates the caller's own password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.authService.ChangePassword(middleware.Identity(c).UserID, &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully, please log in again"})
}

func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	if err := h.authService.Heartbeat(middleware.Identity(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Heartbeat received", "status": "online"})
}

// Me returns the profile of the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(middleware.Identity(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken handles JWT token validation
// POST /api/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if req.Token == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Token is required"})
	}

	response, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(response)
}
