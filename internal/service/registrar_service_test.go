package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-service/internal/domain"
	apperrors "github.com/classtrack/attendance-service/pkg/util"
)

func newRegistrarFixture(t *testing.T) (*RegistrarService, *attendanceFixture, *fakeAttendanceEventRepo) {
	t.Helper()

	fx := newAttendanceFixture(t)
	units := newFakeUnitRepo(&domain.Unit{ID: "unit-7", Nome: "Unidade Centro"})
	eventsRepo := &fakeAttendanceEventRepo{}
	registrar := NewRegistrarService(fx.svc, units, eventsRepo, nil, nil)
	return registrar, fx, eventsRepo
}

func TestRegisterScan_RecordsAttendanceEvent(t *testing.T) {
	t.Parallel()

	registrar, fx, eventsRepo := newRegistrarFixture(t)
	issued, err := fx.svc.IssueToken(context.Background(), "prof-1")
	require.NoError(t, err)

	event, subject, err := registrar.RegisterScan(context.Background(), "scanner-1", issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "prof-1", subject.ID)
	assert.Equal(t, "prof-1", event.ProfessorID)
	assert.Equal(t, "unit-7", event.UnidadeID)
	assert.Equal(t, "scanner-1", event.ScannerID)
	assert.NotEmpty(t, event.Nonce)
	assert.Len(t, eventsRepo.events, 1)
}

func TestRegisterScan_ReplayDoesNotRecord(t *testing.T) {
	t.Parallel()

	registrar, fx, eventsRepo := newRegistrarFixture(t)
	issued, err := fx.svc.IssueToken(context.Background(), "prof-1")
	require.NoError(t, err)

	_, _, err = registrar.RegisterScan(context.Background(), "scanner-1", issued.Token)
	require.NoError(t, err)

	_, _, err = registrar.RegisterScan(context.Background(), "scanner-2", issued.Token)
	assert.Equal(t, "REPLAY_DETECTED", apperrors.CodeOf(err))
	assert.Len(t, eventsRepo.events, 1)
}

func TestRegisterScan_InvalidTokenDoesNotRecord(t *testing.T) {
	t.Parallel()

	registrar, _, eventsRepo := newRegistrarFixture(t)
	_, _, err := registrar.RegisterScan(context.Background(), "scanner-1", "garbage")
	assert.Equal(t, "INVALID_SIGNATURE", apperrors.CodeOf(err))
	assert.Empty(t, eventsRepo.events)
}

func TestRegisterScan_UnknownUnit(t *testing.T) {
	t.Parallel()

	fx := newAttendanceFixture(t)
	units := newFakeUnitRepo() // no units registered
	eventsRepo := &fakeAttendanceEventRepo{}
	registrar := NewRegistrarService(fx.svc, units, eventsRepo, nil, nil)

	issued, err := fx.svc.IssueToken(context.Background(), "prof-1")
	require.NoError(t, err)

	_, _, err = registrar.RegisterScan(context.Background(), "scanner-1", issued.Token)
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
	assert.Empty(t, eventsRepo.events)
}

func TestRegisterScan_EventWriteFailureSurfaced(t *testing.T) {
	t.Parallel()

	registrar, fx, eventsRepo := newRegistrarFixture(t)
	eventsRepo.fail = true

	issued, err := fx.svc.IssueToken(context.Background(), "prof-1")
	require.NoError(t, err)

	_, subject, err := registrar.RegisterScan(context.Background(), "scanner-1", issued.Token)
	require.Error(t, err)
	// The nonce is consumed even though recording failed; the subject is
	// returned so the operator can decide what to do.
	require.NotNil(t, subject)
	assert.Equal(t, "prof-1", subject.ID)
}

func TestHistory_ReturnsProfessorEvents(t *testing.T) {
	t.Parallel()

	registrar, fx, _ := newRegistrarFixture(t)
	issued, err := fx.svc.IssueToken(context.Background(), "prof-1")
	require.NoError(t, err)
	_, _, err = registrar.RegisterScan(context.Background(), "scanner-1", issued.Token)
	require.NoError(t, err)

	list, err := registrar.History(context.Background(), "prof-1", time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
