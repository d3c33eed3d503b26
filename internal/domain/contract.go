package domain

import "time"

// ContractStatus enumerates lifecycle states for registered agreements.
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "DRAFT"
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusExpired    ContractStatus = "EXPIRED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
)

// Contract is the aggregate for a registered agreement (PKS). A nil EndDate
// marks the contract as auto-renewing; such contracts never receive
// expiration reminders.
type Contract struct {
	ID              string
	TicketNumber    *string
	AgreementName   string
	ContractNumber  string
	CounterpartName string
	Description     string
	DivisionID      string
	Status          ContractStatus
	StartDate       *time.Time
	EndDate         *time.Time
	RegisteredOn    time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DaysRemaining returns the whole-day distance between the contract end date
// and the given reference day. Negative when the contract already expired.
// The second return is false for auto-renewing contracts.
func (c *Contract) DaysRemaining(today time.Time) (int, bool) {
	if c.EndDate == nil {
		return 0, false
	}
	end := truncateToDay(*c.EndDate)
	ref := truncateToDay(today)
	return int(end.Sub(ref).Hours() / 24), true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
