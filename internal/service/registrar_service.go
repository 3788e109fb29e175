package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/events"
	"github.com/classtrack/attendance-service/internal/repository"
	apperrors "github.com/classtrack/attendance-service/pkg/util"
)

// RegistrarService is the verify-then-record caller of the protocol: it runs
// verification and, on success, writes the attendance event row.
// Verification itself never writes attendance data.
type RegistrarService struct {
	attendance *AttendanceService
	units      repository.UnitRepository
	eventsRepo repository.AttendanceEventRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRegistrarService builds the service.
func NewRegistrarService(attendance *AttendanceService, units repository.UnitRepository, eventsRepo repository.AttendanceEventRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RegistrarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrarService{
		attendance: attendance,
		units:      units,
		eventsRepo: eventsRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterScan verifies the raw token on behalf of the scanner and records
// the attendance event. A timed-out verify is never retried here; callers
// must re-query nonce state before deciding.
func (s *RegistrarService) RegisterScan(ctx context.Context, scannerID, rawToken string) (*domain.AttendanceEvent, *domain.VerifiedSubject, error) {
	result, err := s.attendance.VerifyToken(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}
	subject := result.Subject

	if _, err := s.units.GetByID(ctx, subject.UnidadeID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("unit", map[string]any{"unidade_id": subject.UnidadeID})
		}
		return nil, nil, apperrors.MapError(err)
	}

	event := &domain.AttendanceEvent{
		ProfessorID: subject.ID,
		UnidadeID:   subject.UnidadeID,
		ScannerID:   scannerID,
		Nonce:       result.Nonce,
	}
	if err := s.eventsRepo.Create(ctx, event); err != nil {
		// The nonce is already consumed; surface the failure so operators
		// know the scan was verified but not recorded.
		s.logger.Error("attendance event write failed after consume",
			zap.String("professor_id", subject.ID),
			zap.String("nonce", result.Nonce),
			zap.Error(err))
		return nil, subject, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventAttendanceRecorded,
			ProfessorID: subject.ID,
			Timestamp:   event.RecordedAt,
			Payload: events.AttendanceRecordedPayload{
				EventID:   event.ID,
				ScannerID: scannerID,
				UnidadeID: subject.UnidadeID,
			},
		})
	}

	return event, subject, nil
}

// History lists recent attendance events for a professor.
func (s *RegistrarService) History(ctx context.Context, professorID string, since time.Time, limit int) ([]domain.AttendanceEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := s.eventsRepo.ListForProfessor(ctx, professorID, since, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}
