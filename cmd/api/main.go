package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/rsyahbudin/pks-legal-PML-sub001/internal/api/http"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/api/http/handlers"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/auth"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/config"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/events"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/mail"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/observability"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/persistence"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/scheduler"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	divisionRepo := repository.NewDivisionRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	reminderLogRepo := repository.NewReminderLogRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	ledger := persistence.NewReminderLedger(redis, cfg.Reminder.LedgerTTL())

	var sender mail.Sender
	if cfg.Mail.SendgridAPIKey != "" {
		sender = mail.NewSendgridSender(cfg.Mail)
	} else {
		logger.Warn("SENDGRID_API_KEY not set; mail deliveries will be logged only")
		sender = mail.NewConsoleSender(logger)
	}
	mailQueue := mail.NewQueue(cfg.Mail.QueueSize, cfg.Mail.Workers, sender, logger)
	mailQueue.Start()
	defer mailQueue.Stop()

	assigner := service.NewTicketNumberAssigner(service.AssignerDependencies{
		DivisionRepo: divisionRepo,
		SequenceRepo: sequenceRepo,
		SettingRepo:  settingRepo,
		Logger:       logger,
	})
	contractService := service.NewContractService(service.ContractDependencies{
		ContractRepo:    contractRepo,
		DivisionRepo:    divisionRepo,
		ReminderLogRepo: reminderLogRepo,
		Assigner:        assigner,
		Dispatcher:      dispatcher,
	})
	divisionService := service.NewDivisionService(divisionRepo, logger)
	reminderService := service.NewReminderService(cfg.Reminder, service.ReminderDependencies{
		ContractRepo:    contractRepo,
		DivisionRepo:    divisionRepo,
		SettingRepo:     settingRepo,
		ReminderLogRepo: reminderLogRepo,
		Ledger:          ledger,
		Mailer:          mailQueue,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	notificationService.RegisterHandlers()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	reminderScheduler, err := scheduler.New(settingRepo, reminderService, logger)
	if err != nil {
		logger.Fatal("failed to schedule reminder job", zap.Error(err))
	}
	reminderScheduler.Start()
	defer reminderScheduler.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Contracts:      handlers.NewContractsHandler(contractService),
		Divisions:      handlers.NewDivisionsHandler(divisionService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Settings:       handlers.NewSettingsHandler(settingRepo),
		Reminders:      handlers.NewRemindersHandler(reminderService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
