package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/api"
	"github.com/terraincognita07/cyclelog/internal/cli"
	"github.com/terraincognita07/cyclelog/internal/config"
	"github.com/terraincognita07/cyclelog/internal/db"
	"github.com/terraincognita07/cyclelog/internal/logger"
	"github.com/terraincognita07/cyclelog/internal/metrics"
	"github.com/terraincognita07/cyclelog/internal/notify"
	"github.com/terraincognita07/cyclelog/internal/services"
)

const (
	shutdownTimeout    = 10 * time.Second
	reminderRunTimeout = 2 * time.Minute
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.Log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "reset-password" {
		return runResetPassword(args[1:])
	}
	return serve()
}

func runResetPassword(args []string) error {
	flags := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	prompt := flags.Bool("prompt", false, "read the new password from the terminal")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: cyclelog reset-password [--prompt] <email>")
	}

	return cli.RunResetPasswordCommand(config.LoadDBPath(), flags.Arg(0), cli.ResetPasswordOptions{Prompt: *prompt})
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.Environment)
	log := logger.WithComponent("server")

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)
	collector := metrics.New()
	hub := services.NewSnapshotHub()

	handler, err := api.NewHandler(cfg.SecretKey, cfg.Location, cfg.CookieSecure, api.Dependencies{
		Repositories: repositories,
		Hub:          hub,
		Metrics:      collector,
		Log:          logger.WithComponent("api"),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp()
	api.RegisterRoutes(app, handler)

	reminders, err := newReminderService(cfg, repositories, collector)
	if err != nil {
		return fmt.Errorf("reminders init failed: %w", err)
	}
	scheduler, err := scheduleReminders(cfg.ReminderCron, cfg.Location, reminders, log)
	if err != nil {
		return fmt.Errorf("reminder schedule failed: %w", err)
	}
	scheduler.Start()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		<-scheduler.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"db":        cfg.DBPath,
		"tz":        cfg.Location.String(),
		"reminders": cfg.RemindersEnabled(),
	}).Info("cyclelog listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cyclelog",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: logger.Writer()}))
	app.Use(compress.New(compress.Config{Next: skipCompression}))
	return app
}

// Event streams must flush each frame as it is written.
func skipCompression(c *fiber.Ctx) bool {
	return strings.HasSuffix(c.Path(), "/stream")
}

func newReminderService(cfg *config.Config, repositories *db.Repositories, collector *metrics.Metrics) (*services.ReminderService, error) {
	notifier, err := newNotifier(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.WithComponent("reminders")
	return services.NewReminderService(repositories.Users, repositories.Cycles, notifier, services.ReminderConfig{
		LeadDays: cfg.ReminderLeadDays,
		Location: cfg.Location,
		Log:      log,
		Counter:  collector,
		Skips:    services.NewLoggingSkipReporter(log, collector),
	}), nil
}

func newNotifier(cfg *config.Config) (services.Notifier, error) {
	if !cfg.RemindersEnabled() {
		return notify.NewLogNotifier(logger.WithComponent("notify")), nil
	}
	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	return notifier, nil
}

type reminderRunner interface {
	RunOnce(ctx context.Context, now time.Time) (int, error)
}

func scheduleReminders(spec string, location *time.Location, reminders reminderRunner, log *logrus.Entry) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithLocation(location))
	_, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderRunTimeout)
		defer cancel()

		sent, err := reminders.RunOnce(ctx, time.Now().In(location))
		if err != nil {
			log.WithError(err).Warn("reminder run failed")
			return
		}
		log.WithField("sent", sent).Info("reminder run finished")
	})
	if err != nil {
		return nil, err
	}
	return scheduler, nil
}
