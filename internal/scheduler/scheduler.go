package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/service"
)

const (
	defaultSendTime = "08:00"
	jobTimeout      = 10 * time.Minute
)

// Scheduler owns the daily cron trigger for the contract reminder job. The
// send time is read from settings once at startup.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New wires the reminder job into a cron entry.
func New(settings repository.SettingRepository, reminders *service.ReminderService, logger *zap.Logger) (*Scheduler, error) {
	sendTime := settings.Get(context.Background(), domain.SettingReminderSendTime, defaultSendTime)
	hour, minute, ok := service.ParseClock(sendTime)
	if !ok {
		logger.Warn("invalid reminder_send_time setting; using default",
			zap.String("value", sendTime))
		hour, minute, _ = service.ParseClock(defaultSendTime)
	}

	c := cron.New()
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := reminders.Run(ctx); err != nil {
			logger.Error("reminder job failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register reminder cron entry: %w", err)
	}

	logger.Info("reminder job scheduled", zap.String("cron", spec))
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins firing scheduled entries.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the trigger and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
