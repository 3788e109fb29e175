package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/events"
	"github.com/classtrack/attendance-service/internal/observability"
	"github.com/classtrack/attendance-service/internal/qr"
	"github.com/classtrack/attendance-service/internal/repository"
	apperrors "github.com/classtrack/attendance-service/pkg/util"
)

// IssuedToken is the issuer's result: the compact signed token plus its
// expiry so the holder's UI can show a countdown.
type IssuedToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ExpiresIn int
}

// AttendanceService implements the QR token protocol: issuance on behalf of
// an authenticated professor, verification with atomic single-use
// enforcement through the nonce ledger.
type AttendanceService struct {
	nonces     repository.NonceRepository
	professors repository.ProfessorRepository
	codec      *qr.Codec
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// AttendanceDependencies encapsulates requirements for the service.
type AttendanceDependencies struct {
	NonceRepo     repository.NonceRepository
	ProfessorRepo repository.ProfessorRepository
	Codec         *qr.Codec
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewAttendanceService builds the service.
func NewAttendanceService(deps AttendanceDependencies) *AttendanceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		nonces:     deps.NonceRepo,
		professors: deps.ProfessorRepo,
		codec:      deps.Codec,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// IssueToken mints one fresh 60-second token for the professor. Each call
// fully replaces any prior token; abandoned nonces expire on their own.
func (s *AttendanceService) IssueToken(ctx context.Context, professorID string) (*IssuedToken, error) {
	professor, err := s.professors.GetByID(ctx, professorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewProfileNotFound()
		}
		return nil, apperrors.MapError(err)
	}

	// Best-effort cleanup of the caller's own dead rows. Correctness comes
	// from the used_at/expires_at checks, not from deletion, so a failure
	// here never fails issuance.
	if deleted, err := s.nonces.DeleteExpiredForProfessor(ctx, professorID, s.now()); err != nil {
		s.logger.Warn("expired nonce cleanup failed", zap.String("professor_id", professorID), zap.Error(err))
	} else if deleted > 0 {
		s.logger.Debug("expired nonces removed", zap.String("professor_id", professorID), zap.Int64("count", deleted))
	}

	tokenStr, nonce, issuedAt, expiresAt, err := s.codec.Sign(professor)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	record := &domain.NonceRecord{
		Nonce:       nonce,
		ProfessorID: professor.ID,
		ExpiresAt:   expiresAt,
	}
	if err := s.nonces.Create(ctx, record); err != nil {
		return nil, apperrors.NewLedgerWriteError(err)
	}

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventTokenIssued,
		ProfessorID: professor.ID,
		Timestamp:   issuedAt,
		Payload:     events.TokenIssuedPayload{Nonce: nonce, ExpiresAt: expiresAt},
	})

	return &IssuedToken{
		Token:     tokenStr,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		ExpiresIn: int(s.codec.TTL().Seconds()),
	}, nil
}

// VerificationResult carries the authoritative subject plus the consumed
// nonce for audit purposes.
type VerificationResult struct {
	Subject *domain.VerifiedSubject
	Nonce   string
}

// VerifyToken decides validity exactly once. Check order is fixed: signature
// (stateless) then ledger lookup, replay, expiry, atomic consume, and an
// authoritative profile re-fetch. The consume is a conditional update, so of
// any concurrent calls for the same nonce exactly one succeeds.
func (s *AttendanceService) VerifyToken(ctx context.Context, rawToken string) (*VerificationResult, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return nil, s.reject(ctx, "", "", apperrors.NewInvalidSignature())
	}

	record, err := s.nonces.Get(ctx, claims.Nonce, claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.reject(ctx, claims.Subject, claims.Nonce, apperrors.NewNonceNotFound())
		}
		return nil, apperrors.MapError(err)
	}

	if !record.Available() {
		s.publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventReplayDetected,
			ProfessorID: claims.Subject,
			Timestamp:   s.now(),
			Payload:     events.ReplayDetectedPayload{Nonce: claims.Nonce, FirstUseAt: record.UsedAt},
		})
		return nil, s.reject(ctx, claims.Subject, claims.Nonce, apperrors.NewReplayDetected())
	}

	if record.ExpiredAt(s.now()) {
		return nil, s.reject(ctx, claims.Subject, claims.Nonce, apperrors.NewTokenExpired())
	}

	if err := s.nonces.Consume(ctx, claims.Nonce, claims.Subject, s.now()); err != nil {
		if err == pgx.ErrNoRows {
			// Lost the race: another verifier consumed between our read and
			// this conditional update.
			s.publish(ctx, events.Event{
				ID:          uuid.NewString(),
				Type:        events.EventReplayDetected,
				ProfessorID: claims.Subject,
				Timestamp:   s.now(),
				Payload:     events.ReplayDetectedPayload{Nonce: claims.Nonce},
			})
			return nil, s.reject(ctx, claims.Subject, claims.Nonce, apperrors.NewReplayDetected())
		}
		return nil, apperrors.MapError(err)
	}

	professor, err := s.professors.GetByID(ctx, claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.reject(ctx, claims.Subject, claims.Nonce, apperrors.NewSubjectNotFound())
		}
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordVerifyOutcome("ok")
	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventTokenVerified,
		ProfessorID: professor.ID,
		Timestamp:   s.now(),
		Payload:     events.TokenVerifiedPayload{Nonce: claims.Nonce},
	})

	return &VerificationResult{
		Subject: &domain.VerifiedSubject{
			ID:        professor.ID,
			Nome:      professor.Nome,
			Matricula: professor.Matricula,
			UnidadeID: professor.UnidadeID,
		},
		Nonce: claims.Nonce,
	}, nil
}

func (s *AttendanceService) reject(ctx context.Context, professorID, nonce string, err error) error {
	code := apperrors.CodeOf(err)
	s.metrics.RecordVerifyOutcome(code)
	if code != "REPLAY_DETECTED" {
		s.publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventVerifyRejected,
			ProfessorID: professorID,
			Timestamp:   s.now(),
			Payload:     events.VerifyRejectedPayload{Reason: code, Nonce: nonce},
		})
	}
	return err
}

func (s *AttendanceService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
