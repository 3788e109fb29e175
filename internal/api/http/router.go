package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/classtrack/attendance-service/internal/api/http/handlers"
	"github.com/classtrack/attendance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Attendance     *handlers.AttendanceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/professors/login", cfg.Auth.LoginProfessor)
	authGroup.Post("/scanners/login", cfg.Auth.LoginScanner)

	attendance := app.Group("/attendance", cfg.AuthMiddleware.Handle)
	attendance.Post("/qr", auth.RequireProfessor(), cfg.Attendance.IssueToken)
	attendance.Get("/events", auth.RequireProfessor(), cfg.Attendance.History)
	attendance.Post("/qr/verify", auth.RequireScanner(), cfg.Attendance.VerifyToken)
	attendance.Post("/scans", auth.RequireScanner(), cfg.Attendance.RegisterScan)
}
