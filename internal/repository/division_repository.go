package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// DivisionRepository manages division persistence.
type DivisionRepository interface {
	Create(ctx context.Context, division *domain.Division) error
	Update(ctx context.Context, division *domain.Division) error
	GetByID(ctx context.Context, id string) (*domain.Division, error)
	ListActive(ctx context.Context) ([]domain.Division, error)
}

type divisionRepository struct {
	pool *pgxpool.Pool
}

// NewDivisionRepository builds the repository.
func NewDivisionRepository(pool *pgxpool.Pool) DivisionRepository {
	return &divisionRepository{pool: pool}
}

func (r *divisionRepository) Create(ctx context.Context, division *domain.Division) error {
	const query = `
        INSERT INTO divisions (name, code, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		division.Name,
		division.Code,
		division.IsActive,
	).Scan(&division.ID, &division.CreatedAt, &division.UpdatedAt)
}

func (r *divisionRepository) Update(ctx context.Context, division *domain.Division) error {
	const query = `
        UPDATE divisions SET name=$1, code=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		division.Name,
		division.Code,
		division.IsActive,
		division.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *divisionRepository) GetByID(ctx context.Context, id string) (*domain.Division, error) {
	const query = `
        SELECT id, name, code, is_active, created_at, updated_at
        FROM divisions WHERE id=$1`
	var division domain.Division
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&division.ID,
		&division.Name,
		&division.Code,
		&division.IsActive,
		&division.CreatedAt,
		&division.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *divisionRepository) ListActive(ctx context.Context) ([]domain.Division, error) {
	const query = `
        SELECT id, name, code, is_active, created_at, updated_at
        FROM divisions WHERE is_active = TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Division
	for rows.Next() {
		var division domain.Division
		if err := rows.Scan(&division.ID, &division.Name, &division.Code, &division.IsActive, &division.CreatedAt, &division.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, division)
	}
	return result, rows.Err()
}
