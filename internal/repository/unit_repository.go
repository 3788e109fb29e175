package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/attendance-service/internal/domain"
)

// UnitRepository defines persistence access for organizational units.
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
}

type unitRepository struct {
	pool *pgxpool.Pool
}

// NewUnitRepository returns a Postgres-backed implementation.
func NewUnitRepository(pool *pgxpool.Pool) UnitRepository {
	return &unitRepository{pool: pool}
}

func (r *unitRepository) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	const query = `SELECT id, nome, created_at FROM units WHERE id=$1`
	var unit domain.Unit
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&unit.ID,
		&unit.Nome,
		&unit.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &unit, nil
}
