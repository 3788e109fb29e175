package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classtrack/attendance-service/internal/events"
)

// SecurityService watches protocol events for operational signals. Replay
// attempts get dedicated warn-level logging since they may indicate abuse
// rather than a slow scan.
type SecurityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSecurityService creates the service.
func NewSecurityService(dispatcher events.Dispatcher, logger *zap.Logger) *SecurityService {
	return &SecurityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (s *SecurityService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventReplayDetected, s.handleReplayDetected)
	s.dispatcher.Subscribe(events.EventVerifyRejected, s.handleVerifyRejected)
	s.dispatcher.Subscribe(events.EventAttendanceRecorded, s.handleAttendanceRecorded)
}

func (s *SecurityService) handleReplayDetected(ctx context.Context, event events.Event) error {
	s.logger.Warn("ReplayDetected",
		zap.String("professor_id", event.ProfessorID),
		zap.Any("payload", event.Payload))
	return nil
}

func (s *SecurityService) handleVerifyRejected(ctx context.Context, event events.Event) error {
	s.logger.Info("VerifyRejected",
		zap.String("professor_id", event.ProfessorID),
		zap.Any("payload", event.Payload))
	return nil
}

func (s *SecurityService) handleAttendanceRecorded(ctx context.Context, event events.Event) error {
	s.logger.Info("AttendanceRecorded",
		zap.String("professor_id", event.ProfessorID),
		zap.Any("payload", event.Payload))
	return nil
}
