package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/classtrack/attendance-service/internal/api/dto"
	"github.com/classtrack/attendance-service/internal/service"
)

// AuthHandler exposes login endpoints for professors and scanner accounts.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginProfessor handles POST /auth/professors/login.
func (h *AuthHandler) LoginProfessor(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	professor, token, exp, err := h.auth.LoginProfessor(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"professor": fiber.Map{
				"id":        professor.ID,
				"nome":      professor.Nome,
				"matricula": professor.Matricula,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginScanner handles POST /auth/scanners/login.
func (h *AuthHandler) LoginScanner(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	scanner, token, exp, err := h.auth.LoginScanner(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"scanner": fiber.Map{
				"id":    scanner.ID,
				"label": scanner.Label,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
