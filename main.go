package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiber-erp/config"
	"fiber-erp/controllers/idgen"
	"fiber-erp/database"
	"fiber-erp/logger"
	"fiber-erp/middleware"
	"fiber-erp/migration"
	"fiber-erp/notification"
	"fiber-erp/routes"
	"fiber-erp/scheduler"
	seed "fiber-erp/seeder"
	"fiber-erp/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	baseLogger := logger.Must(logger.New(config.APP_ENV, config.LOG_LEVEL))
	defer baseLogger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(baseLogger)

	if err := config.Validate(); err != nil {
		baseLogger.Fatal("invalid configuration", zap.Error(err))
	}
	if err := idgen.Init(config.SnowflakeNode); err != nil {
		baseLogger.Fatal("snowflake node", zap.Error(err))
	}

	if err := database.EnsureDatabaseExists(); err != nil {
		baseLogger.Fatal("ensure database", zap.Error(err))
	}
	db, err := database.Open()
	if err != nil {
		baseLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if err := migration.Migrate(db); err != nil {
		baseLogger.Fatal("failed to auto migrate", zap.Error(err))
	}
	if config.SeedData {
		if err := seed.Run(db); err != nil {
			baseLogger.Fatal("failed to seed reference data", zap.Error(err))
		}
	}

	notifier, drainNotifications := buildNotifier(baseLogger)

	procurement := services.NewProcurementService(db, notifier, logger.Named(baseLogger, "procurement"))
	receiving := services.NewReceivingService(db, notifier, logger.Named(baseLogger, "receiving"))
	inventory := services.NewInventoryService(db, notifier, logger.Named(baseLogger, "inventory"))
	sales := services.NewSalesService(db, notifier, logger.Named(baseLogger, "sales"))
	reconciler := services.NewReconciliationService(db, logger.Named(baseLogger, "reconciliation"))

	app := fiber.New(fiber.Config{
		ErrorHandler: config.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})
	app.Use(recover.New())
	config.SetupCORS(app)
	app.Use(middleware.RequestLogger(logger.Named(baseLogger, "http")))

	routes.Setup(app, routes.Deps{
		DB:          db,
		Procurement: procurement,
		Receiving:   receiving,
		Inventory:   inventory,
		Sales:       sales,
		Reconciler:  reconciler,
	})

	sched := scheduler.New(config.ReconcileCron, reconciler, notifier, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", config.APP_PORT))
		if err := app.Listen(":" + config.APP_PORT); err != nil {
			baseLogger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	sched.Stop()
	if err := drainNotifications(shutdownCtx); err != nil {
		baseLogger.Warn("pending notifications dropped", zap.Error(err))
	}
}

// buildNotifier fans events out to whichever channels are configured. The
// returned func waits for deliveries still in flight.
func buildNotifier(log *zap.Logger) (notification.Notifier, func(context.Context) error) {
	var channels []notification.Notifier

	email := notification.NewEmailNotifier(notification.EmailConfig{
		Host:     config.SMTPHost,
		Port:     config.SMTPPort,
		Username: config.SMTPUser,
		Password: config.SMTPPassword,
		From:     config.SMTPFrom,
		To:       config.NotifyEmails,
	})
	if email != nil {
		channels = append(channels, email)
	}
	if hook := notification.NewWebhookNotifier(config.WebhookURL, config.WebhookToken, config.WebhookTimeout); hook != nil {
		channels = append(channels, hook)
	}

	if len(channels) == 0 {
		log.Info("no notification channels configured")
		return notification.Nop{}, func(context.Context) error { return nil }
	}
	async := notification.Async(notification.Multi(channels...), logger.Named(log, "notify"), config.WebhookTimeout+5*time.Second)
	return async, async.Close
}
