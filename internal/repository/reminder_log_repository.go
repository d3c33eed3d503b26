package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// ReminderLogRepository records dispatched expiration reminders for audit.
type ReminderLogRepository interface {
	Create(ctx context.Context, log *domain.ReminderLog) error
	ListByContract(ctx context.Context, contractID string, limit, offset int) ([]domain.ReminderLog, error)
}

type reminderLogRepository struct {
	pool *pgxpool.Pool
}

// NewReminderLogRepository builds the repository.
func NewReminderLogRepository(pool *pgxpool.Pool) ReminderLogRepository {
	return &reminderLogRepository{pool: pool}
}

func (r *reminderLogRepository) Create(ctx context.Context, log *domain.ReminderLog) error {
	const query = `
        INSERT INTO reminder_logs (contract_id, threshold_days, recipient, subject, status, error_message, sent_on)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.ContractID,
		log.ThresholdDays,
		log.Recipient,
		log.Subject,
		log.Status,
		log.ErrorMessage,
		log.SentOn,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *reminderLogRepository) ListByContract(ctx context.Context, contractID string, limit, offset int) ([]domain.ReminderLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, contract_id, threshold_days, recipient, subject, status, error_message, sent_on, created_at
        FROM reminder_logs WHERE contract_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, contractID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReminderLog
	for rows.Next() {
		var log domain.ReminderLog
		if err := rows.Scan(
			&log.ID,
			&log.ContractID,
			&log.ThresholdDays,
			&log.Recipient,
			&log.Subject,
			&log.Status,
			&log.ErrorMessage,
			&log.SentOn,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
