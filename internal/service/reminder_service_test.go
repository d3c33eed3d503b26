package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/config"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/observability"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/persistence"
)

func testLedger(t *testing.T) *persistence.ReminderLedger {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return persistence.NewReminderLedger(&persistence.Redis{Client: client}, 48*time.Hour)
}

type reminderFixture struct {
	service   *ReminderService
	contracts *fakeContractRepo
	settings  *fakeSettingRepo
	logs      *fakeReminderLogRepo
	mailer    *captureMailer
}

func newReminderFixture(t *testing.T, today time.Time, contracts ...domain.Contract) *reminderFixture {
	t.Helper()
	contractRepo := newFakeContractRepo(contracts...)
	settingRepo := newFakeSettingRepo(nil)
	logRepo := &fakeReminderLogRepo{}
	mailer := &captureMailer{}

	svc := NewReminderService(config.ReminderConfig{
		DefaultRecipients:      "legal@example.com",
		ContractTimeoutSeconds: 5,
		LedgerTTLHours:         48,
	}, ReminderDependencies{
		ContractRepo:    contractRepo,
		DivisionRepo:    newFakeDivisionRepo(domain.Division{ID: "div-1", Name: "Legal", Code: "LGL", IsActive: true}),
		SettingRepo:     settingRepo,
		ReminderLogRepo: logRepo,
		Ledger:          testLedger(t),
		Mailer:          mailer,
		Metrics:         observability.NewMetrics(),
		Logger:          zap.NewNop(),
	})
	svc.now = func() time.Time { return today }

	return &reminderFixture{
		service:   svc,
		contracts: contractRepo,
		settings:  settingRepo,
		logs:      logRepo,
		mailer:    mailer,
	}
}

func expiringContract(id string, endDate time.Time) domain.Contract {
	ticket := "LGL-0001"
	return domain.Contract{
		ID:              id,
		TicketNumber:    &ticket,
		AgreementName:   "Logistics Partnership",
		ContractNumber:  "PKS/2026/017",
		CounterpartName: "PT Maju Jaya",
		DivisionID:      "div-1",
		Status:          domain.ContractStatusActive,
		EndDate:         &endDate,
	}
}

func TestRunSendsOnExactThresholdOnly(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fixture := newReminderFixture(t, today,
		expiringContract("c-30", today.AddDate(0, 0, 30)),
		expiringContract("c-14", today.AddDate(0, 0, 14)),
		expiringContract("c-13", today.AddDate(0, 0, 13)),
		expiringContract("c-2", today.AddDate(0, 0, 2)),
		expiringContract("c-1", today.AddDate(0, 0, 1)),
	)

	require.NoError(t, fixture.service.Run(context.Background()))

	sent := fixture.mailer.sent()
	assert.Len(t, sent, 3)

	var contractIDs []string
	for _, log := range fixture.logs.byStatus(domain.ReminderStatusSent) {
		contractIDs = append(contractIDs, log.ContractID)
	}
	assert.ElementsMatch(t, []string{"c-30", "c-14", "c-1"}, contractIDs)
}

func TestRunSecondSweepSameDayIsIdempotent(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fixture := newReminderFixture(t, today, expiringContract("c-1", today.AddDate(0, 0, 7)))

	require.NoError(t, fixture.service.Run(context.Background()))
	require.NoError(t, fixture.service.Run(context.Background()))

	sent := fixture.mailer.sent()
	require.Len(t, sent, 1)
	assert.Len(t, fixture.logs.byStatus(domain.ReminderStatusSent), 1)

	// No subject template configured, so the built-in default applies.
	assert.Equal(t, "Contract Logistics Partnership expires in 7 day(s)", sent[0].Subject)
}

type erroringLedger struct{}

func (erroringLedger) MarkSent(ctx context.Context, contractID string, thresholdDays int, day time.Time) (bool, error) {
	return false, assert.AnError
}

func TestRunBrokenLedgerStillSends(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fixture := newReminderFixture(t, today, expiringContract("c-1", today.AddDate(0, 0, 7)))
	fixture.service.ledger = erroringLedger{}

	require.NoError(t, fixture.service.Run(context.Background()))
	assert.Len(t, fixture.mailer.sent(), 1)
}

func TestRunSkipsAutoRenewingAndExpiredContracts(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	autoRenewing := expiringContract("c-auto", today)
	autoRenewing.EndDate = nil
	alreadyExpired := expiringContract("c-past", today.AddDate(0, 0, -7))
	endsToday := expiringContract("c-today", today)

	fixture := newReminderFixture(t, today, autoRenewing, alreadyExpired, endsToday)

	require.NoError(t, fixture.service.Run(context.Background()))
	assert.Empty(t, fixture.mailer.sent())
}

func TestRunResolvesTemplatesFromSettings(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fixture := newReminderFixture(t, today, expiringContract("c-1", today.AddDate(0, 0, 14)))

	require.NoError(t, fixture.settings.Set(context.Background(),
		domain.SettingReminderEmailSubject, "[{division_name}] {agreement_name}: {days_remaining} days left"))
	require.NoError(t, fixture.settings.Set(context.Background(),
		domain.SettingReminderRecipients, "a@example.com, b@example.com"))
	require.NoError(t, fixture.settings.Set(context.Background(),
		domain.SettingReminderReplyTo, "legal-desk@example.com"))

	require.NoError(t, fixture.service.Run(context.Background()))

	sent := fixture.mailer.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "[Legal] Logistics Partnership: 14 days left", sent[0].Subject)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, sent[0].To)
	assert.Equal(t, "legal-desk@example.com", sent[0].ReplyTo)
	assert.Contains(t, sent[0].Body, "PT Maju Jaya")
	assert.Contains(t, sent[0].Body, today.AddDate(0, 0, 14).Format("2006-01-02"))
}

func TestRunCustomThresholdsFromSettings(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fixture := newReminderFixture(t, today,
		expiringContract("c-60", today.AddDate(0, 0, 60)),
		expiringContract("c-30", today.AddDate(0, 0, 30)),
	)
	require.NoError(t, fixture.settings.Set(context.Background(),
		domain.SettingReminderThresholds, "60, bogus, -5"))

	require.NoError(t, fixture.service.Run(context.Background()))

	logs := fixture.logs.byStatus(domain.ReminderStatusSent)
	require.Len(t, logs, 1)
	assert.Equal(t, "c-60", logs[0].ContractID)
	assert.Equal(t, 60, logs[0].ThresholdDays)
}

func TestRunOneFailingContractDoesNotStopBatch(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	broken := expiringContract("c-broken", today.AddDate(0, 0, 7))
	broken.AgreementName = "Doomed Deal"
	healthy := expiringContract("c-ok", today.AddDate(0, 0, 7))

	fixture := newReminderFixture(t, today, broken, healthy)
	fixture.mailer.failFor = "Doomed Deal"

	require.NoError(t, fixture.service.Run(context.Background()))

	sent := fixture.logs.byStatus(domain.ReminderStatusSent)
	require.Len(t, sent, 1)
	assert.Equal(t, "c-ok", sent[0].ContractID)

	failed := fixture.logs.byStatus(domain.ReminderStatusFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "c-broken", failed[0].ContractID)
	assert.Contains(t, failed[0].ErrorMessage, "smtp unavailable")
}

func TestRunWithoutRecipientsRecordsFailure(t *testing.T) {
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	fixture := newReminderFixture(t, today, expiringContract("c-1", today.AddDate(0, 0, 1)))
	fixture.service.cfg.DefaultRecipients = ""

	require.NoError(t, fixture.service.Run(context.Background()))

	assert.Empty(t, fixture.mailer.sent())
	failed := fixture.logs.byStatus(domain.ReminderStatusFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "no recipients configured", failed[0].ErrorMessage)
}

func TestParseThresholds(t *testing.T) {
	assert.Equal(t, []int{30, 14, 7, 1}, parseThresholds("30,14,7,1"))
	assert.Equal(t, []int{7}, parseThresholds(" 7 , x, -1"))
	assert.Empty(t, parseThresholds("a,b"))
	assert.Empty(t, parseThresholds(""))
}
