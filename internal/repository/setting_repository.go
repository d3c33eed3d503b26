package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// SettingRepository is the persisted key-value configuration store. Get never
// fails the caller: any miss or read error resolves to the supplied default.
type SettingRepository interface {
	Get(ctx context.Context, key, fallback string) string
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]domain.Setting, error)
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository builds the repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) Get(ctx context.Context, key, fallback string) string {
	if r.pool == nil {
		return fallback
	}
	const query = `SELECT value FROM settings WHERE key=$1`
	var value string
	// Misses and read errors both degrade to the default rather than failing
	// the caller.
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		return fallback
	}
	return value
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO settings (key, value)
        VALUES ($1,$2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}

func (r *settingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	const query = `SELECT key, value, updated_at FROM settings ORDER BY key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Setting
	for rows.Next() {
		var setting domain.Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}
