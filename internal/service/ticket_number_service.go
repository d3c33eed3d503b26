package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
)

const defaultCutoffTime = "17:00"

// TicketNumberAssigner computes division-scoped ticket numbers and the
// effective registration date for new contracts.
type TicketNumberAssigner struct {
	divisions repository.DivisionRepository
	sequences repository.SequenceRepository
	settings  repository.SettingRepository
	logger    *zap.Logger
}

// AssignerDependencies bundles collaborators for the assigner.
type AssignerDependencies struct {
	DivisionRepo repository.DivisionRepository
	SequenceRepo repository.SequenceRepository
	SettingRepo  repository.SettingRepository
	Logger       *zap.Logger
}

// NewTicketNumberAssigner constructs the assigner.
func NewTicketNumberAssigner(deps AssignerDependencies) *TicketNumberAssigner {
	return &TicketNumberAssigner{
		divisions: deps.DivisionRepo,
		sequences: deps.SequenceRepo,
		settings:  deps.SettingRepo,
		logger:    deps.Logger,
	}
}

// Assign mutates the contract with the next ticket number for its division
// and sets the effective registration date. Registrations at or past the
// configured daily cutoff are dated to the next calendar day.
//
// A contract without a division, or with a division that cannot be found,
// is left untouched and reported as not assigned; rejecting such records is
// the caller's concern. Persistence of the mutated contract is also the
// caller's concern.
func (a *TicketNumberAssigner) Assign(ctx context.Context, contract *domain.Contract, now time.Time) (bool, error) {
	if contract.TicketNumber != nil && *contract.TicketNumber != "" {
		return false, nil
	}
	if contract.DivisionID == "" {
		return false, nil
	}

	division, err := a.divisions.GetByID(ctx, contract.DivisionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.logger.Warn("division not found; skipping ticket number assignment",
				zap.String("division_id", contract.DivisionID))
			return false, nil
		}
		return false, err
	}

	seq, err := a.sequences.Next(ctx, division.ID)
	if err != nil {
		return false, err
	}

	number := fmt.Sprintf("%s-%04d", strings.ToUpper(division.Code), seq)
	contract.TicketNumber = &number
	contract.RegisteredOn = a.effectiveDate(ctx, now)
	return true, nil
}

// effectiveDate returns midnight of the registration day: today, or tomorrow
// when the wall clock is at or past the cutoff.
func (a *TicketNumberAssigner) effectiveDate(ctx context.Context, now time.Time) time.Time {
	cutoff := a.settings.Get(ctx, domain.SettingTicketCutoffTime, defaultCutoffTime)
	hour, minute, ok := ParseClock(cutoff)
	if !ok {
		hour, minute, _ = ParseClock(defaultCutoffTime)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if now.Hour()*60+now.Minute() >= hour*60+minute {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(value string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
