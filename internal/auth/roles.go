package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/classtrack/attendance-service/internal/domain"
)

// RequireProfessor ensures a professor is authenticated. Only professors may
// request attendance tokens for themselves.
func RequireProfessor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeProfessor || principal.Professor == nil {
			return fiber.NewError(http.StatusForbidden, "professor required")
		}
		return c.Next()
	}
}

// RequireScanner ensures a scanner account is authenticated. The scanner
// credential authorizes who may call verify, nothing more.
func RequireScanner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeScanner || principal.Scanner == nil {
			return fiber.NewError(http.StatusForbidden, "scanner required")
		}
		return c.Next()
	}
}
