package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/config"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/events"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/mail"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/observability"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	"github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/templateutil"
)

const (
	defaultReminderThresholds = "30,14,7,1"

	defaultReminderSubject = "Contract {agreement_name} expires in {days_remaining} day(s)"

	defaultReminderBody = "The agreement {agreement_name} ({contract_number}) with " +
		"{counterpart_name} ends on {end_date}.\n\n" +
		"Ticket: {ticket_number}\nDivision: {division_name}\nDays remaining: {days_remaining}\n\n" +
		"Please review the contract and arrange renewal or termination."
)

// SentLedger records (contract, threshold, day) markers so a re-run of the
// daily batch cannot enqueue the same reminder twice.
type SentLedger interface {
	MarkSent(ctx context.Context, contractID string, thresholdDays int, day time.Time) (bool, error)
}

// ReminderService is the body of the daily contract expiration job. It scans
// every contract with a fixed end date, fires on exact threshold matches and
// enqueues one reminder email per contract, threshold and day.
type ReminderService struct {
	contracts    repository.ContractRepository
	divisions    repository.DivisionRepository
	settings     repository.SettingRepository
	reminderLogs repository.ReminderLogRepository
	ledger       SentLedger
	mailer       mail.Mailer
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	cfg          config.ReminderConfig

	now func() time.Time
}

// ReminderDependencies bundles collaborators for the reminder job.
type ReminderDependencies struct {
	ContractRepo    repository.ContractRepository
	DivisionRepo    repository.DivisionRepository
	SettingRepo     repository.SettingRepository
	ReminderLogRepo repository.ReminderLogRepository
	Ledger          SentLedger
	Mailer          mail.Mailer
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

// NewReminderService constructs the job body.
func NewReminderService(cfg config.ReminderConfig, deps ReminderDependencies) *ReminderService {
	return &ReminderService{
		contracts:    deps.ContractRepo,
		divisions:    deps.DivisionRepo,
		settings:     deps.SettingRepo,
		reminderLogs: deps.ReminderLogRepo,
		ledger:       deps.Ledger,
		mailer:       deps.Mailer,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Run executes one reminder batch. Failing to list contracts is fatal;
// everything that goes wrong for an individual contract is logged and the
// batch moves on.
func (s *ReminderService) Run(ctx context.Context) error {
	contracts, err := s.contracts.ListExpiring(ctx)
	if err != nil {
		return err
	}

	today := s.now()
	thresholds := s.thresholds(ctx)
	subjectTpl := s.settings.Get(ctx, domain.SettingReminderEmailSubject, defaultReminderSubject)
	bodyTpl := s.settings.Get(ctx, domain.SettingReminderEmailBody, defaultReminderBody)
	recipients := splitList(s.settings.Get(ctx, domain.SettingReminderRecipients, s.cfg.DefaultRecipients))
	replyTo := s.settings.Get(ctx, domain.SettingReminderReplyTo, "")

	sent := 0
	for i := range contracts {
		contract := &contracts[i]
		days, hasEnd := contract.DaysRemaining(today)
		if !hasEnd || !containsInt(thresholds, days) {
			continue
		}
		if s.remind(ctx, contract, days, today, subjectTpl, bodyTpl, recipients, replyTo) {
			sent++
		}
	}

	s.metrics.RecordReminderRun(sent)
	s.logger.Info("reminder batch finished",
		zap.Int("contracts_scanned", len(contracts)),
		zap.Int("reminders_sent", sent))
	return nil
}

// remind handles a single contract under its own timeout. Returns true when
// a reminder was enqueued.
func (s *ReminderService) remind(ctx context.Context, contract *domain.Contract, days int, today time.Time, subjectTpl, bodyTpl string, recipients []string, replyTo string) bool {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.ContractTimeout())
	defer cancel()

	created, err := s.ledger.MarkSent(cctx, contract.ID, days, today)
	if err != nil {
		// A broken ledger falls back to trigger discipline: send rather than
		// silently drop the reminder.
		s.logger.Warn("reminder ledger unavailable",
			zap.String("contract_id", contract.ID), zap.Error(err))
	} else if !created {
		return false
	}

	bindings := s.bindings(cctx, contract, days)
	subject := templateutil.Resolve(subjectTpl, bindings)
	body := templateutil.Resolve(bodyTpl, bindings)

	logEntry := &domain.ReminderLog{
		ContractID:    contract.ID,
		ThresholdDays: days,
		Recipient:     strings.Join(recipients, ","),
		Subject:       subject,
		Status:        domain.ReminderStatusSent,
		SentOn:        today,
	}

	enqueued := true
	if len(recipients) == 0 {
		s.logger.Warn("no reminder recipients configured; skipping email",
			zap.String("contract_id", contract.ID))
		logEntry.Status = domain.ReminderStatusFailed
		logEntry.ErrorMessage = "no recipients configured"
		enqueued = false
	} else if err := s.mailer.Enqueue(cctx, mail.Message{
		To:      recipients,
		Subject: subject,
		Body:    body,
		ReplyTo: replyTo,
	}); err != nil {
		s.logger.Error("failed to enqueue reminder email",
			zap.String("contract_id", contract.ID), zap.Error(err))
		logEntry.Status = domain.ReminderStatusFailed
		logEntry.ErrorMessage = err.Error()
		enqueued = false
	}

	if err := s.reminderLogs.Create(cctx, logEntry); err != nil {
		s.logger.Error("failed to record reminder log",
			zap.String("contract_id", contract.ID), zap.Error(err))
	}

	if enqueued {
		s.publishExpiring(cctx, contract, days)
	}
	return enqueued
}

func (s *ReminderService) publishExpiring(ctx context.Context, contract *domain.Contract, days int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:       events.EventContractExpiring,
		ContractID: contract.ID,
		Timestamp:  s.now(),
		Payload: events.ContractExpiringPayload{
			DivisionID:    contract.DivisionID,
			AgreementName: contract.AgreementName,
			DaysRemaining: days,
		},
	})
}

func (s *ReminderService) bindings(ctx context.Context, contract *domain.Contract, days int) map[string]string {
	divisionName := ""
	if division, err := s.divisions.GetByID(ctx, contract.DivisionID); err == nil {
		divisionName = division.Name
	}

	endDate := ""
	if contract.EndDate != nil {
		endDate = contract.EndDate.Format("2006-01-02")
	}
	ticketNumber := ""
	if contract.TicketNumber != nil {
		ticketNumber = *contract.TicketNumber
	}

	return map[string]string{
		"agreement_name":   contract.AgreementName,
		"contract_number":  contract.ContractNumber,
		"ticket_number":    ticketNumber,
		"counterpart_name": contract.CounterpartName,
		"end_date":         endDate,
		"days_remaining":   strconv.Itoa(days),
		"division_name":    divisionName,
	}
}

// thresholds parses the configured day counts; malformed entries are
// dropped, an unusable value falls back to the default set.
func (s *ReminderService) thresholds(ctx context.Context) []int {
	raw := s.settings.Get(ctx, domain.SettingReminderThresholds, defaultReminderThresholds)
	values := parseThresholds(raw)
	if len(values) == 0 {
		values = parseThresholds(defaultReminderThresholds)
	}
	return values
}

func parseThresholds(raw string) []int {
	var values []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			continue
		}
		values = append(values, n)
	}
	return values
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
