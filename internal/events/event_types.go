package events

import (
	"time"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContractCreated       EventType = "contract_created"
	EventContractStatusChanged EventType = "contract_status_changed"
	EventContractExpiring      EventType = "contract_expiring"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ContractID string      `json:"contract_id"`
	ActorID    *string     `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ContractCreatedPayload payload.
type ContractCreatedPayload struct {
	DivisionID    string  `json:"division_id"`
	TicketNumber  *string `json:"ticket_number,omitempty"`
	AgreementName string  `json:"agreement_name"`
}

// ContractStatusChangedPayload payload.
type ContractStatusChangedPayload struct {
	OldStatus domain.ContractStatus `json:"old_status"`
	NewStatus domain.ContractStatus `json:"new_status"`
}

// ContractExpiringPayload payload.
type ContractExpiringPayload struct {
	DivisionID    string `json:"division_id"`
	AgreementName string `json:"agreement_name"`
	DaysRemaining int    `json:"days_remaining"`
}
