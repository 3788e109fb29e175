package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/attendance-service/internal/domain"
)

// NonceRepository is the persistence authority for single-use token state.
// Issuers only insert; verifiers read then consume. Consume must be the only
// way a record transitions to used.
type NonceRepository interface {
	Create(ctx context.Context, record *domain.NonceRecord) error
	Get(ctx context.Context, nonce, professorID string) (*domain.NonceRecord, error)
	// Consume marks the nonce used. It returns pgx.ErrNoRows when the record
	// was already consumed (or vanished), so concurrent callers for the same
	// nonce see exactly one success.
	Consume(ctx context.Context, nonce, professorID string, usedAt time.Time) error
	DeleteExpiredForProfessor(ctx context.Context, professorID string, now time.Time) (int64, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type nonceRepository struct {
	pool *pgxpool.Pool
}

// NewNonceRepository returns a Postgres-backed implementation.
func NewNonceRepository(pool *pgxpool.Pool) NonceRepository {
	return &nonceRepository{pool: pool}
}

func (r *nonceRepository) Create(ctx context.Context, record *domain.NonceRecord) error {
	const query = `
        INSERT INTO attendance_nonces (nonce, professor_id, expires_at)
        VALUES ($1,$2,$3)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		record.Nonce,
		record.ProfessorID,
		record.ExpiresAt,
	).Scan(&record.CreatedAt)
}

func (r *nonceRepository) Get(ctx context.Context, nonce, professorID string) (*domain.NonceRecord, error) {
	const query = `
        SELECT nonce, professor_id, expires_at, used_at, created_at
        FROM attendance_nonces WHERE nonce=$1 AND professor_id=$2`
	var record domain.NonceRecord
	if err := r.pool.QueryRow(ctx, query, nonce, professorID).Scan(
		&record.Nonce,
		&record.ProfessorID,
		&record.ExpiresAt,
		&record.UsedAt,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

// Consume is a single conditional update. The `used_at IS NULL` guard plus
// the affected-row check make the read-check-write race safe: of any number
// of concurrent calls for one nonce, exactly one affects a row.
func (r *nonceRepository) Consume(ctx context.Context, nonce, professorID string, usedAt time.Time) error {
	const query = `
        UPDATE attendance_nonces SET used_at=$3
        WHERE nonce=$1 AND professor_id=$2 AND used_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, nonce, professorID, usedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *nonceRepository) DeleteExpiredForProfessor(ctx context.Context, professorID string, now time.Time) (int64, error) {
	const query = `
        DELETE FROM attendance_nonces
        WHERE professor_id=$1 AND expires_at < $2`
	cmd, err := r.pool.Exec(ctx, query, professorID, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *nonceRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
        DELETE FROM attendance_nonces WHERE expires_at < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
