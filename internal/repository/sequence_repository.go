package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository hands out monotonically increasing per-division counter
// values for ticket numbering.
type SequenceRepository interface {
	Next(ctx context.Context, divisionID string) (int64, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository builds the repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

// Next increments and returns the division counter in a single statement.
// The upsert takes a row lock, so concurrent callers for the same division
// are serialized by the database and always observe distinct values.
func (r *sequenceRepository) Next(ctx context.Context, divisionID string) (int64, error) {
	const query = `
        INSERT INTO division_sequences (division_id, next_value)
        VALUES ($1, 1)
        ON CONFLICT (division_id)
        DO UPDATE SET next_value = division_sequences.next_value + 1
        RETURNING next_value`
	var value int64
	if err := r.pool.QueryRow(ctx, query, divisionID).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
