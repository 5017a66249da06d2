package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlink/interview_bot/internal/app"
	"github.com/mentorlink/interview_bot/internal/config"
	"github.com/mentorlink/interview_bot/internal/controller"
	"github.com/mentorlink/interview_bot/internal/notify"
	"github.com/mentorlink/interview_bot/internal/reminder"
	"github.com/mentorlink/interview_bot/internal/repository"
	"github.com/mentorlink/interview_bot/internal/schedule"
	"github.com/mentorlink/interview_bot/internal/service"
	"github.com/mentorlink/interview_bot/internal/storage"
	"github.com/mentorlink/interview_bot/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting interview bot",
		"environment", cfg.Environment,
		"storage_driver", cfg.StorageDriver,
		"timezone", cfg.Timezone)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}
	now := func() time.Time { return time.Now().In(loc) }

	mentors, err := config.LoadMentors(cfg.MentorsFile)
	if err != nil {
		logger.Fatal("Failed to load mentors config", zap.String("path", cfg.MentorsFile), zap.Error(err))
	}
	logger.Info("Mentors loaded", zap.Int("count", mentors.Len()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to create connection pool", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		migrator.Close()

		store = storage.NewPostgres(pool)
	case config.StorageFile:
		fileStore, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to init file storage", zap.String("dir", cfg.DataDir), zap.Error(err))
		}
		store = fileStore
	default:
		logger.Fatal("Unknown storage driver", zap.String("driver", cfg.StorageDriver))
	}

	reservations := repository.NewReservationRepository(store, mentors, logger)
	users := repository.NewUserRepository(store, logger)
	assignments := repository.NewAssignmentRepository(store, mentors, logger)

	if err := reservations.Load(ctx); err != nil {
		logger.Fatal("Failed to load reservations", zap.Error(err))
	}
	if err := users.Load(ctx); err != nil {
		logger.Fatal("Failed to load users", zap.Error(err))
	}
	if err := assignments.Load(ctx); err != nil {
		logger.Fatal("Failed to load mentor assignments", zap.Error(err))
	}

	calc := schedule.NewCalculator(reservations, mentors, now)
	reminders := reminder.NewScheduler(loc, reminder.DefaultLead, now, logger)
	defer reminders.Stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	notifier := notify.NewNotifier(transport.NewTelegram(b), cfg.AdminChannel, now, logger)

	userService := service.NewUserService(users, now, logger)
	mentorService := service.NewMentorService(assignments, mentors, logger)
	bookingService := service.NewBookingService(reservations, users, calc, mentors, reminders, notifier, now, logger)

	restored := bookingService.RestoreReminders(ctx)
	logger.Info("Reminders restored", zap.Int("count", restored))

	dispatcher := app.NewScheduler(reminders, reservations, notifier, logger)

	ctrl := controller.New(b, userService, bookingService, mentorService, reservations, calc, notifier, cfg.AdminID, now, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return ctrl.Start(gctx) })

	if err := g.Wait(); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}
