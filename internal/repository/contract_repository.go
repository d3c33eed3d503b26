package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// ContractFilter captures contract search parameters.
type ContractFilter struct {
	DivisionID  *string
	Statuses    []domain.ContractStatus
	SearchTerm  *string
	EndFrom     *time.Time
	EndTo       *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ContractRepository encapsulates contract persistence.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	GetByTicketNumber(ctx context.Context, ticketNumber string) (*domain.Contract, error)
	ListWithFilter(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
	ListExpiring(ctx context.Context) ([]domain.Contract, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

const contractColumns = `id, ticket_number, agreement_name, contract_number, counterpart_name,
               description, division_id, status, start_date, end_date, registered_on,
               created_at, updated_at`

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	const query = `
        INSERT INTO contracts (ticket_number, agreement_name, contract_number, counterpart_name, description, division_id, status, start_date, end_date, registered_on)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		contract.TicketNumber,
		contract.AgreementName,
		contract.ContractNumber,
		contract.CounterpartName,
		contract.Description,
		contract.DivisionID,
		contract.Status,
		contract.StartDate,
		contract.EndDate,
		contract.RegisteredOn,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt)
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	const query = `
        UPDATE contracts SET agreement_name=$1, contract_number=$2, counterpart_name=$3, description=$4,
            status=$5, start_date=$6, end_date=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		contract.AgreementName,
		contract.ContractNumber,
		contract.CounterpartName,
		contract.Description,
		contract.Status,
		contract.StartDate,
		contract.EndDate,
		contract.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query := fmt.Sprintf(`SELECT %s FROM contracts WHERE id=$1`, contractColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *contractRepository) GetByTicketNumber(ctx context.Context, ticketNumber string) (*domain.Contract, error) {
	query := fmt.Sprintf(`SELECT %s FROM contracts WHERE ticket_number=$1`, contractColumns)
	return r.fetchSingle(ctx, query, ticketNumber)
}

func (r *contractRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&contract.ID,
		&contract.TicketNumber,
		&contract.AgreementName,
		&contract.ContractNumber,
		&contract.CounterpartName,
		&contract.Description,
		&contract.DivisionID,
		&contract.Status,
		&contract.StartDate,
		&contract.EndDate,
		&contract.RegisteredOn,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListExpiring returns contracts with a fixed end date, the input set for the
// expiration reminder batch. Auto-renewing contracts (NULL end_date) are
// excluded at the query level.
func (r *contractRepository) ListExpiring(ctx context.Context) ([]domain.Contract, error) {
	query := fmt.Sprintf(`SELECT %s FROM contracts WHERE end_date IS NOT NULL AND status <> 'TERMINATED' ORDER BY end_date ASC`, contractColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContracts(rows)
}

func (r *contractRepository) ListWithFilter(ctx context.Context, filter ContractFilter) ([]domain.Contract, error) {
	base := fmt.Sprintf(`SELECT %s FROM contracts`, contractColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DivisionID != nil {
		args = append(args, *filter.DivisionID)
		clauses = append(clauses, fmt.Sprintf("division_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.EndFrom != nil {
		args = append(args, *filter.EndFrom)
		clauses = append(clauses, fmt.Sprintf("end_date >= $%d", len(args)))
	}
	if filter.EndTo != nil {
		args = append(args, *filter.EndTo)
		clauses = append(clauses, fmt.Sprintf("end_date <= $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(agreement_name) LIKE %s OR LOWER(counterpart_name) LIKE %s OR LOWER(contract_number) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContracts(rows)
}

func scanContracts(rows pgx.Rows) ([]domain.Contract, error) {
	var result []domain.Contract
	for rows.Next() {
		var contract domain.Contract
		if err := rows.Scan(
			&contract.ID,
			&contract.TicketNumber,
			&contract.AgreementName,
			&contract.ContractNumber,
			&contract.CounterpartName,
			&contract.Description,
			&contract.DivisionID,
			&contract.Status,
			&contract.StartDate,
			&contract.EndDate,
			&contract.RegisteredOn,
			&contract.CreatedAt,
			&contract.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, contract)
	}
	return result, rows.Err()
}
