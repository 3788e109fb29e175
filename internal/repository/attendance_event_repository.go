package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/attendance-service/internal/domain"
)

// AttendanceEventRepository stores the append-only scan audit trail.
type AttendanceEventRepository interface {
	Create(ctx context.Context, event *domain.AttendanceEvent) error
	ListForProfessor(ctx context.Context, professorID string, since time.Time, limit int) ([]domain.AttendanceEvent, error)
}

type attendanceEventRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceEventRepository returns a Postgres-backed implementation.
func NewAttendanceEventRepository(pool *pgxpool.Pool) AttendanceEventRepository {
	return &attendanceEventRepository{pool: pool}
}

func (r *attendanceEventRepository) Create(ctx context.Context, event *domain.AttendanceEvent) error {
	const query = `
        INSERT INTO attendance_events (professor_id, unidade_id, scanner_id, nonce)
        VALUES ($1,$2,$3,$4)
        RETURNING id, recorded_at`
	return r.pool.QueryRow(ctx, query,
		event.ProfessorID,
		event.UnidadeID,
		event.ScannerID,
		event.Nonce,
	).Scan(&event.ID, &event.RecordedAt)
}

func (r *attendanceEventRepository) ListForProfessor(ctx context.Context, professorID string, since time.Time, limit int) ([]domain.AttendanceEvent, error) {
	const query = `
        SELECT id, professor_id, unidade_id, scanner_id, nonce, recorded_at
        FROM attendance_events
        WHERE professor_id=$1 AND recorded_at >= $2
        ORDER BY recorded_at DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, professorID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AttendanceEvent
	for rows.Next() {
		var event domain.AttendanceEvent
		if err := rows.Scan(
			&event.ID,
			&event.ProfessorID,
			&event.UnidadeID,
			&event.ScannerID,
			&event.Nonce,
			&event.RecordedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
