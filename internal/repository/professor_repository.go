package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classtrack/attendance-service/internal/domain"
)

// ProfessorRepository defines persistence access for professor profiles.
type ProfessorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Professor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Professor, error)
}

type professorRepository struct {
	pool *pgxpool.Pool
}

// NewProfessorRepository returns a Postgres-backed implementation.
func NewProfessorRepository(pool *pgxpool.Pool) ProfessorRepository {
	return &professorRepository{pool: pool}
}

func (r *professorRepository) GetByID(ctx context.Context, id string) (*domain.Professor, error) {
	const query = `
        SELECT id, nome, email, matricula, unidade_id, password_hash, active, created_at, updated_at
        FROM professors WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *professorRepository) GetByEmail(ctx context.Context, email string) (*domain.Professor, error) {
	const query = `
        SELECT id, nome, email, matricula, unidade_id, password_hash, active, created_at, updated_at
        FROM professors WHERE email=$1`
	return r.scanOne(ctx, query, email)
}

func (r *professorRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Professor, error) {
	var professor domain.Professor
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&professor.ID,
		&professor.Nome,
		&professor.Email,
		&professor.Matricula,
		&professor.UnidadeID,
		&professor.PasswordHash,
		&professor.Active,
		&professor.CreatedAt,
		&professor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &professor, nil
}
