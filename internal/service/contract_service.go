package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/events"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	apperrors "github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/errorutil"
)

// ContractService coordinates contract registration and lifecycle.
type ContractService struct {
	contracts    repository.ContractRepository
	divisions    repository.DivisionRepository
	reminderLogs repository.ReminderLogRepository
	assigner     *TicketNumberAssigner
	dispatcher   events.Dispatcher

	now func() time.Time
}

// ContractDependencies bundles repositories for the contract service.
type ContractDependencies struct {
	ContractRepo    repository.ContractRepository
	DivisionRepo    repository.DivisionRepository
	ReminderLogRepo repository.ReminderLogRepository
	Assigner        *TicketNumberAssigner
	Dispatcher      events.Dispatcher
}

// ContractCreateInput describes contract registration payload.
type ContractCreateInput struct {
	AgreementName   string
	ContractNumber  string
	CounterpartName string
	Description     string
	DivisionID      string
	Status          domain.ContractStatus
	StartDate       *time.Time
	EndDate         *time.Time
}

// ContractUpdateInput describes mutable contract fields.
type ContractUpdateInput struct {
	AgreementName   *string
	ContractNumber  *string
	CounterpartName *string
	Description     *string
	Status          *domain.ContractStatus
	StartDate       *time.Time
	EndDate         *time.Time
	ClearEndDate    bool
}

// ContractListFilter describes listing filters.
type ContractListFilter struct {
	DivisionID     *string
	Statuses       []domain.ContractStatus
	SearchTerm     *string
	ExpiringWithin *int
	Limit          int
	Offset         int
}

// NewContractService constructs the service.
func NewContractService(deps ContractDependencies) *ContractService {
	return &ContractService{
		contracts:    deps.ContractRepo,
		divisions:    deps.DivisionRepo,
		reminderLogs: deps.ReminderLogRepo,
		assigner:     deps.Assigner,
		dispatcher:   deps.Dispatcher,
		now:          time.Now,
	}
}

// CreateContract registers a contract, assigning its ticket number and
// effective registration date.
func (s *ContractService) CreateContract(ctx context.Context, actorID string, input ContractCreateInput) (*domain.Contract, error) {
	if strings.TrimSpace(input.AgreementName) == "" {
		return nil, apperrors.NewValidationError("agreement_name required", nil)
	}
	if input.DivisionID == "" {
		return nil, apperrors.NewValidationError("division_id required", nil)
	}
	division, err := s.divisions.GetByID(ctx, input.DivisionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown division", map[string]any{"division_id": input.DivisionID})
		}
		return nil, apperrors.MapError(err)
	}
	if !division.IsActive {
		return nil, apperrors.NewConflict("division inactive", map[string]any{"division_id": division.ID})
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperrors.NewValidationError("end_date before start_date", nil)
	}

	now := s.now()
	contract := &domain.Contract{
		AgreementName:   strings.TrimSpace(input.AgreementName),
		ContractNumber:  strings.TrimSpace(input.ContractNumber),
		CounterpartName: strings.TrimSpace(input.CounterpartName),
		Description:     strings.TrimSpace(input.Description),
		DivisionID:      input.DivisionID,
		Status:          input.Status,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		RegisteredOn:    now,
	}
	if contract.Status == "" {
		contract.Status = domain.ContractStatusActive
	}

	if _, err := s.assigner.Assign(ctx, contract, now); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventContractCreated,
		ContractID: contract.ID,
		ActorID:    &actorID,
		Payload: events.ContractCreatedPayload{
			DivisionID:    contract.DivisionID,
			TicketNumber:  contract.TicketNumber,
			AgreementName: contract.AgreementName,
		},
	})
	return contract, nil
}

// GetContract fetches a contract with its reminder history.
func (s *ContractService) GetContract(ctx context.Context, id string) (*domain.Contract, []domain.ReminderLog, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	logs, err := s.reminderLogs.ListByContract(ctx, contract.ID, 50, 0)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return contract, logs, nil
}

// ListContracts returns contracts matching the filter.
func (s *ContractService) ListContracts(ctx context.Context, filter ContractListFilter) ([]domain.Contract, error) {
	repoFilter := repository.ContractFilter{
		DivisionID: filter.DivisionID,
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.ExpiringWithin != nil {
		from := s.now()
		to := from.AddDate(0, 0, *filter.ExpiringWithin)
		repoFilter.EndFrom = &from
		repoFilter.EndTo = &to
	}
	return s.contracts.ListWithFilter(ctx, repoFilter)
}

// UpdateContract applies partial updates to a contract.
func (s *ContractService) UpdateContract(ctx context.Context, actorID, id string, input ContractUpdateInput) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := contract.Status
	if input.AgreementName != nil {
		contract.AgreementName = strings.TrimSpace(*input.AgreementName)
	}
	if input.ContractNumber != nil {
		contract.ContractNumber = strings.TrimSpace(*input.ContractNumber)
	}
	if input.CounterpartName != nil {
		contract.CounterpartName = strings.TrimSpace(*input.CounterpartName)
	}
	if input.Description != nil {
		contract.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		contract.Status = *input.Status
	}
	if input.StartDate != nil {
		contract.StartDate = input.StartDate
	}
	if input.ClearEndDate {
		contract.EndDate = nil
	} else if input.EndDate != nil {
		contract.EndDate = input.EndDate
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	if contract.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventContractStatusChanged,
			ContractID: contract.ID,
			ActorID:    &actorID,
			Payload: events.ContractStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: contract.Status,
			},
		})
	}
	return contract, nil
}

// TerminateContract marks a contract as terminated; terminated contracts are
// excluded from reminder scans.
func (s *ContractService) TerminateContract(ctx context.Context, actorID, id string) (*domain.Contract, error) {
	status := domain.ContractStatusTerminated
	return s.UpdateContract(ctx, actorID, id, ContractUpdateInput{Status: &status})
}

func (s *ContractService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
