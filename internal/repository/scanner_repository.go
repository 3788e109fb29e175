package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/attendance-service/internal/domain"
)

// ScannerRepository defines persistence access for scanner accounts.
type ScannerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Scanner, error)
	GetByEmail(ctx context.Context, email string) (*domain.Scanner, error)
}

type scannerRepository struct {
	pool *pgxpool.Pool
}

// NewScannerRepository returns a Postgres-backed implementation.
func NewScannerRepository(pool *pgxpool.Pool) ScannerRepository {
	return &scannerRepository{pool: pool}
}

func (r *scannerRepository) GetByID(ctx context.Context, id string) (*domain.Scanner, error) {
	const query = `
        SELECT id, label, email, unidade_id, password_hash, active, created_at, updated_at
        FROM scanners WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *scannerRepository) GetByEmail(ctx context.Context, email string) (*domain.Scanner, error) {
	const query = `
        SELECT id, label, email, unidade_id, password_hash, active, created_at, updated_at
        FROM scanners WHERE email=$1`
	return r.scanOne(ctx, query, email)
}

func (r *scannerRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Scanner, error) {
	var scanner domain.Scanner
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&scanner.ID,
		&scanner.Label,
		&scanner.Email,
		&scanner.UnidadeID,
		&scanner.PasswordHash,
		&scanner.Active,
		&scanner.CreatedAt,
		&scanner.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &scanner, nil
}
