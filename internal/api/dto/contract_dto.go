package dto

import (
	"time"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// CreateContractRequest payload. Dates use YYYY-MM-DD.
type CreateContractRequest struct {
	AgreementName   string                `json:"agreement_name"`
	ContractNumber  string                `json:"contract_number"`
	CounterpartName string                `json:"counterpart_name"`
	Description     string                `json:"description"`
	DivisionID      string                `json:"division_id"`
	Status          domain.ContractStatus `json:"status"`
	StartDate       *string               `json:"start_date"`
	EndDate         *string               `json:"end_date"`
}

// UpdateContractRequest payload; nil fields are left unchanged. Setting
// clear_end_date marks the contract auto-renewing.
type UpdateContractRequest struct {
	AgreementName   *string                `json:"agreement_name"`
	ContractNumber  *string                `json:"contract_number"`
	CounterpartName *string                `json:"counterpart_name"`
	Description     *string                `json:"description"`
	Status          *domain.ContractStatus `json:"status"`
	StartDate       *string                `json:"start_date"`
	EndDate         *string                `json:"end_date"`
	ClearEndDate    bool                   `json:"clear_end_date"`
}

// ContractSummary response.
type ContractSummary struct {
	ID              string                `json:"id"`
	TicketNumber    *string               `json:"ticket_number"`
	AgreementName   string                `json:"agreement_name"`
	ContractNumber  string                `json:"contract_number"`
	CounterpartName string                `json:"counterpart_name"`
	DivisionID      string                `json:"division_id"`
	Status          domain.ContractStatus `json:"status"`
	EndDate         *string               `json:"end_date"`
	RegisteredOn    string                `json:"registered_on"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ContractDetailResponse provides full contract info.
type ContractDetailResponse struct {
	ContractSummary
	Description string                `json:"description"`
	StartDate   *string               `json:"start_date"`
	Reminders   []ReminderLogResponse `json:"reminders"`
}

// ReminderLogResponse is one dispatched reminder.
type ReminderLogResponse struct {
	ID            string                `json:"id"`
	ThresholdDays int                   `json:"threshold_days"`
	Recipient     string                `json:"recipient"`
	Subject       string                `json:"subject"`
	Status        domain.ReminderStatus `json:"status"`
	ErrorMessage  string                `json:"error_message,omitempty"`
	SentOn        string                `json:"sent_on"`
	CreatedAt     time.Time             `json:"created_at"`
}
