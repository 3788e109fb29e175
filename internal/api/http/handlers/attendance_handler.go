package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/classtrack/attendance-service/internal/api/dto"
	"github.com/classtrack/attendance-service/internal/auth"
	"github.com/classtrack/attendance-service/internal/config"
	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/ratelimit"
	"github.com/classtrack/attendance-service/internal/service"
	apperrors "github.com/classtrack/attendance-service/pkg/util"
)

// verifyErrorCodes are the error kinds rendered through the verifier's
// {valid:false, error} wire shape instead of the generic error envelope.
var verifyErrorCodes = map[string]struct{}{
	"INVALID_SIGNATURE": {},
	"NONCE_NOT_FOUND":   {},
	"REPLAY_DETECTED":   {},
	"TOKEN_EXPIRED":     {},
	"SUBJECT_NOT_FOUND": {},
}

// AttendanceHandler exposes the QR token protocol endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	registrar  *service.RegistrarService
	limiter    *ratelimit.Limiter
	limits     config.LimitsConfig
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService, registrar *service.RegistrarService, limiter *ratelimit.Limiter, limits config.LimitsConfig) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, registrar: registrar, limiter: limiter, limits: limits}
}

// IssueToken handles POST /attendance/qr. The professor identity comes from
// the bearer credential; the request has no body.
func (h *AttendanceHandler) IssueToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Professor == nil {
		return apperrors.NewUnauthorized("professor identity required")
	}

	if !h.limiter.Allow(c.UserContext(), "issue", principal.Professor.ID, h.limits.IssuePerMinute) {
		return apperrors.NewRateLimited()
	}

	issued, err := h.attendance.IssueToken(c.UserContext(), principal.Professor.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.IssueTokenResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		ExpiresIn: issued.ExpiresIn,
	})
}

// VerifyToken handles POST /attendance/qr/verify. Verification consumes the
// nonce but never records attendance; that is the registrar's job.
func (h *AttendanceHandler) VerifyToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Scanner == nil {
		return apperrors.NewUnauthorized("scanner identity required")
	}

	var req dto.VerifyTokenRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	if !h.limiter.Allow(c.UserContext(), "verify", principal.Scanner.ID, h.limits.VerifyPerMinute) {
		return apperrors.NewRateLimited()
	}

	result, err := h.attendance.VerifyToken(c.UserContext(), req.Token)
	if err != nil {
		if resp, status, ok := verifyFailureResponse(err); ok {
			return c.Status(status).JSON(resp)
		}
		return err
	}

	return c.JSON(dto.VerifyTokenResponse{
		Valid:     true,
		Professor: professorPayload(result.Subject),
	})
}

// RegisterScan handles POST /attendance/scans: verify plus record.
func (h *AttendanceHandler) RegisterScan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Scanner == nil {
		return apperrors.NewUnauthorized("scanner identity required")
	}

	var req dto.VerifyTokenRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	if !h.limiter.Allow(c.UserContext(), "verify", principal.Scanner.ID, h.limits.VerifyPerMinute) {
		return apperrors.NewRateLimited()
	}

	event, subject, err := h.registrar.RegisterScan(c.UserContext(), principal.Scanner.ID, req.Token)
	if err != nil {
		if resp, status, ok := verifyFailureResponse(err); ok {
			return c.Status(status).JSON(resp)
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.ScanResponse{
		Valid:     true,
		Professor: professorPayload(subject),
		Event: &dto.ScanEventPayload{
			ID:         event.ID,
			RecordedAt: event.RecordedAt,
		},
	})
}

// History handles GET /attendance/events for the authenticated professor.
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Professor == nil {
		return apperrors.NewUnauthorized("professor identity required")
	}

	limit := c.QueryInt("limit", 50)
	since := time.Now().AddDate(0, -1, 0)
	list, err := h.registrar.History(c.UserContext(), principal.Professor.ID, since, limit)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(list))
	for _, event := range list {
		items = append(items, fiber.Map{
			"id":          event.ID,
			"unidade_id":  event.UnidadeID,
			"scanner_id":  event.ScannerID,
			"recorded_at": event.RecordedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func professorPayload(subject *domain.VerifiedSubject) *dto.ProfessorPayload {
	return &dto.ProfessorPayload{
		ID:        subject.ID,
		Nome:      subject.Nome,
		Matricula: subject.Matricula,
		UnidadeID: subject.UnidadeID,
	}
}

func verifyFailureResponse(err error) (dto.VerifyTokenResponse, int, bool) {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return dto.VerifyTokenResponse{}, 0, false
	}
	if _, ok := verifyErrorCodes[domainErr.Code]; !ok {
		return dto.VerifyTokenResponse{}, 0, false
	}
	return dto.VerifyTokenResponse{Valid: false, Error: domainErr.Code}, domainErr.HTTPStatus, true
}
