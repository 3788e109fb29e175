package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/attendance-service/internal/domain"
)

// In-memory repository fakes. The nonce fake mirrors the conditional-update
// semantics of the Postgres implementation: Consume succeeds for exactly one
// caller per nonce, under a mutex standing in for row-level atomicity.

type fakeNonceRepo struct {
	mu         sync.Mutex
	records    map[string]*domain.NonceRecord
	failCreate bool
	failDelete bool
}

func newFakeNonceRepo() *fakeNonceRepo {
	return &fakeNonceRepo{records: make(map[string]*domain.NonceRecord)}
}

func nonceKey(nonce, professorID string) string {
	return nonce + "|" + professorID
}

func (f *fakeNonceRepo) Create(_ context.Context, record *domain.NonceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("insert failed")
	}
	key := nonceKey(record.Nonce, record.ProfessorID)
	if _, exists := f.records[key]; exists {
		return errors.New("duplicate nonce")
	}
	record.CreatedAt = time.Now()
	stored := *record
	f.records[key] = &stored
	return nil
}

func (f *fakeNonceRepo) Get(_ context.Context, nonce, professorID string) (*domain.NonceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[nonceKey(nonce, professorID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (f *fakeNonceRepo) Consume(_ context.Context, nonce, professorID string, usedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[nonceKey(nonce, professorID)]
	if !ok || record.UsedAt != nil {
		return pgx.ErrNoRows
	}
	record.UsedAt = &usedAt
	return nil
}

func (f *fakeNonceRepo) DeleteExpiredForProfessor(_ context.Context, professorID string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return 0, errors.New("delete failed")
	}
	var deleted int64
	for key, record := range f.records {
		if record.ProfessorID == professorID && now.After(record.ExpiresAt) {
			delete(f.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeNonceRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, record := range f.records {
		if record.ExpiresAt.Before(cutoff) {
			delete(f.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeNonceRepo) setExpiry(nonce, professorID string, expiresAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.records[nonceKey(nonce, professorID)]; ok {
		record.ExpiresAt = expiresAt
	}
}

func (f *fakeNonceRepo) remove(nonce, professorID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, nonceKey(nonce, professorID))
}

func (f *fakeNonceRepo) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeProfessorRepo struct {
	mu         sync.Mutex
	professors map[string]*domain.Professor
}

func newFakeProfessorRepo(professors ...*domain.Professor) *fakeProfessorRepo {
	repo := &fakeProfessorRepo{professors: make(map[string]*domain.Professor)}
	for _, professor := range professors {
		repo.professors[professor.ID] = professor
	}
	return repo
}

func (f *fakeProfessorRepo) GetByID(_ context.Context, id string) (*domain.Professor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	professor, ok := f.professors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *professor
	return &copied, nil
}

func (f *fakeProfessorRepo) GetByEmail(_ context.Context, email string) (*domain.Professor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, professor := range f.professors {
		if professor.Email == email {
			copied := *professor
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProfessorRepo) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.professors, id)
}

type fakeUnitRepo struct {
	units map[string]*domain.Unit
}

func newFakeUnitRepo(units ...*domain.Unit) *fakeUnitRepo {
	repo := &fakeUnitRepo{units: make(map[string]*domain.Unit)}
	for _, unit := range units {
		repo.units[unit.ID] = unit
	}
	return repo
}

func (f *fakeUnitRepo) GetByID(_ context.Context, id string) (*domain.Unit, error) {
	unit, ok := f.units[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return unit, nil
}

type fakeAttendanceEventRepo struct {
	mu     sync.Mutex
	events []domain.AttendanceEvent
	fail   bool
}

func (f *fakeAttendanceEventRepo) Create(_ context.Context, event *domain.AttendanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("write failed")
	}
	event.ID = "event-" + event.Nonce
	event.RecordedAt = time.Now()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeAttendanceEventRepo) ListForProfessor(_ context.Context, professorID string, since time.Time, limit int) ([]domain.AttendanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AttendanceEvent
	for _, event := range f.events {
		if event.ProfessorID == professorID && !event.RecordedAt.Before(since) {
			out = append(out, event)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
